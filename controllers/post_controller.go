package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"treehole/models"
	"treehole/store"
	"treehole/utils"
)

// PostController manages posts, their images, comments and votes.
type PostController struct {
	store *store.Store
}

// NewPostController creates a new PostController instance.
func NewPostController(s *store.Store) *PostController {
	return &PostController{store: s}
}

// ListPosts returns one page of a region's posts, newest update first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	regionID, err := strconv.ParseUint(ctx.Query("region"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "missing or invalid region")
		return
	}
	page, pageSize, ok := parsePagination(ctx)
	if !ok {
		return
	}

	cacheKey := fmt.Sprintf("cache:posts:list:region=%d:page=%d:size=%d", regionID, page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	pairs, err := p.store.FindPosts(ctx.Request.Context(), uint(regionID), page, pageSize)
	if err != nil {
		if errors.Is(err, utils.ErrOutOfRange) {
			utils.Error(ctx, http.StatusBadRequest, 40011, "page out of range")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list posts")
		return
	}

	items := make([]models.PostListItem, 0, len(pairs))
	for i := range pairs {
		items = append(items, models.NewPostListItem(&pairs[i].Index, pairs[i].Content))
	}

	payload := gin.H{"items": items, "page": page, "pageSize": pageSize}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// GetPost returns a single post's detail view.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	cacheKey := "cache:post:detail:" + strconv.FormatUint(uint64(postID), 10)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	index, content, err := p.store.FindPost(ctx.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load post")
		return
	}

	info := models.NewPostInfo(index, content)
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: info}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, info)
}

// CreatePost allows authenticated users to publish a post in a region.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		RegionID uint   `json:"regionId" binding:"required"`
		Title    string `json:"title" binding:"required,min=1"`
		Text     string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.SanitizeTitle(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	text := utils.Sanitize(req.Text)

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	postID, err := p.store.CreatePost(ctx.Request.Context(), userID, req.RegionID, title, text)
	if err != nil {
		if errors.Is(err, store.ErrRegionNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "region not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	utils.InvalidateByPrefix(regionListPrefix(req.RegionID))
	utils.Success(ctx, gin.H{"id": postID})
}

// UpdatePost lets the author or an administrator change a post's title or text.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Title *string `json:"title"`
		Text  *string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}
	if req.Title != nil {
		title := utils.SanitizeTitle(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, 40023, "title cannot be empty")
			return
		}
		req.Title = &title
	}
	if req.Text != nil {
		text := utils.Sanitize(*req.Text)
		req.Text = &text
	}

	if !p.requireOwnership(ctx, postID) {
		return
	}

	if err := p.store.UpdatePost(ctx.Request.Context(), postID, req.Title, req.Text); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to update post")
		return
	}

	p.invalidatePostCaches(ctx, postID)
	utils.Success(ctx, gin.H{"message": "post updated"})
}

// DeletePost soft-deletes a post, author or administrator only.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if !p.requireOwnership(ctx, postID) {
		return
	}

	if err := p.store.RemovePost(ctx.Request.Context(), postID); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to delete post")
		return
	}

	p.invalidatePostCaches(ctx, postID)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// UploadImages attaches the uploaded files to the image slots named by the
// mask path segment. Each mask digit picks one slot 0-8, in upload order.
func (p *PostController) UploadImages(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid multipart form")
		return
	}
	files := form.File["files"]

	zipped, err := utils.ZipMaskFiles(ctx.Param("mask"), files)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid image mask")
		return
	}

	if !p.requireOwnership(ctx, postID) {
		return
	}

	if err := p.store.UpdatePostImages(ctx.Request.Context(), postID, zipped); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to store images")
		return
	}

	p.invalidatePostCaches(ctx, postID)
	utils.Success(ctx, gin.H{"message": "images updated"})
}

// DeleteImages clears the image slots named by the mask path segment.
func (p *PostController) DeleteImages(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	slots, err := utils.ExtractSlots(ctx.Param("mask"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid image mask")
		return
	}

	if !p.requireOwnership(ctx, postID) {
		return
	}

	if err := p.store.RemovePostImages(ctx.Request.Context(), postID, slots); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40406, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to delete images")
		return
	}

	p.invalidatePostCaches(ctx, postID)
	utils.Success(ctx, gin.H{"message": "images deleted"})
}

// ListComments returns the post's two-level comment tree.
func (p *PostController) ListComments(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	tree, err := p.store.FindPostComments(ctx.Request.Context(), postID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list comments")
		return
	}
	utils.Success(ctx, gin.H{"comments": tree})
}

// CreateComment adds a root comment, or a reply when parent_id is given.
func (p *PostController) CreateComment(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	text := utils.Sanitize(req.Text)
	if text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "text cannot be empty")
		return
	}

	var parentID *uint
	if raw := ctx.Query("parent_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40042, "invalid parent_id")
			return
		}
		pid := uint(parsed)
		parentID = &pid
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	err := p.store.AddComment(ctx.Request.Context(), postID, parentID, userID, text)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPostNotFound):
			utils.Error(ctx, http.StatusNotFound, 40407, "post not found")
		case errors.Is(err, store.ErrCommentNotFound):
			utils.Error(ctx, http.StatusNotFound, 40420, "parent comment not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to create comment")
		}
		return
	}

	p.invalidatePostCaches(ctx, postID)
	utils.Success(ctx, gin.H{"message": "comment created"})
}

// DeleteComment soft-deletes a comment, author or administrator only.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(ctx, "commentId")
	if !ok {
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	authorID, err := p.store.GetCommentAuthorID(ctx.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40421, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load comment")
		return
	}
	if !CanModify(userID, authorID, isAdmin(ctx)) {
		utils.Error(ctx, http.StatusForbidden, 40320, "you can only delete your own comment")
		return
	}

	err = p.store.RemoveComment(ctx.Request.Context(), postID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPostNotFound):
			utils.Error(ctx, http.StatusNotFound, 40408, "post not found")
		case errors.Is(err, store.ErrCommentNotFound):
			utils.Error(ctx, http.StatusNotFound, 40422, "comment not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to delete comment")
		}
		return
	}

	p.invalidatePostCaches(ctx, postID)
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// AddVote casts the caller's vote on a post. Voting twice is a no-op.
func (p *PostController) AddVote(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	if err := p.store.AddVote(ctx.Request.Context(), userID, postID); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40409, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to add vote")
		return
	}

	p.invalidatePostCaches(ctx, postID)
	utils.Success(ctx, gin.H{"message": "vote recorded"})
}

// RemoveVote withdraws the caller's vote. Removing an absent vote is a no-op.
func (p *PostController) RemoveVote(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	if err := p.store.RemoveVote(ctx.Request.Context(), userID, postID); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to remove vote")
		return
	}

	p.invalidatePostCaches(ctx, postID)
	utils.Success(ctx, gin.H{"message": "vote removed"})
}

// requireOwnership resolves the post's author and rejects callers that are
// neither the author nor an administrator. A missing post reports not-found
// before any permission check, so the 403/404 distinction never leaks
// whether a hidden post exists.
func (p *PostController) requireOwnership(ctx *gin.Context, postID uint) bool {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return false
	}

	authorID, err := p.store.GetPostAuthorID(ctx.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "post not found")
			return false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load post")
		return false
	}

	if !CanModify(userID, authorID, isAdmin(ctx)) {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only modify your own posts")
		return false
	}
	return true
}

// invalidatePostCaches drops the detail cache of a post and the list caches
// of its region. The detail key is deleted exactly, not by prefix, so post 5
// never sweeps post 55.
func (p *PostController) invalidatePostCaches(ctx *gin.Context, postID uint) {
	utils.CacheDelete("cache:post:detail:" + strconv.FormatUint(uint64(postID), 10))
	if regionID, err := p.store.GetPostRegionID(ctx.Request.Context(), postID); err == nil {
		utils.InvalidateByPrefix(regionListPrefix(regionID))
	}
}

func regionListPrefix(regionID uint) string {
	return fmt.Sprintf("cache:posts:list:region=%d:", regionID)
}

// parsePagination reads page and page_size query parameters. Page numbering
// starts at zero; range validation beyond syntax happens in the store.
func parsePagination(ctx *gin.Context) (int, int, bool) {
	page := 0
	pageSize := 20

	if raw := ctx.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.Error(ctx, http.StatusBadRequest, 40012, "invalid page")
			return 0, 0, false
		}
		page = parsed
	}
	if raw := ctx.Query("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.Error(ctx, http.StatusBadRequest, 40013, "invalid page_size")
			return 0, 0, false
		}
		pageSize = parsed
	}
	return page, pageSize, true
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	parsed, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid "+name)
		return 0, false
	}
	return uint(parsed), true
}
