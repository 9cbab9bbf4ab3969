package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"treehole/models"
	"treehole/utils"
)

// PostPair couples a post index row with its content document. Content is nil
// when the document is missing from the content store; the index data is still
// served in that case.
type PostPair struct {
	Index   models.Post
	Content *models.PostContent
}

// FindPosts returns one page of a region's posts, newest update first, each
// joined with its content document via a single batched lookup.
func (s *Store) FindPosts(ctx context.Context, regionID uint, page, pageSize int) ([]PostPair, error) {
	offset, limit, err := utils.Paginate(page, pageSize)
	if err != nil {
		return nil, err
	}

	var indexes []models.Post
	err = s.db.WithContext(ctx).
		Scopes(models.NotRemoved).
		Where("region_id = ?", regionID).
		Order("update_time DESC").
		Offset(offset).
		Limit(limit).
		Find(&indexes).Error
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(indexes))
	for i := range indexes {
		refs = append(refs, indexes[i].ContentRef)
	}
	contents, err := s.findPostContents(ctx, refs)
	if err != nil {
		return nil, err
	}

	return zipPostContents(indexes, contents), nil
}

// zipPostContents pairs index rows with their content documents by contentRef,
// preserving the order of the index slice. Missing documents pair with nil.
func zipPostContents(indexes []models.Post, contents map[string]*models.PostContent) []PostPair {
	pairs := make([]PostPair, 0, len(indexes))
	for i := range indexes {
		pairs = append(pairs, PostPair{
			Index:   indexes[i],
			Content: contents[indexes[i].ContentRef],
		})
	}
	return pairs
}

// FindPost returns one post's index row and content document.
func (s *Store) FindPost(ctx context.Context, postID uint) (*models.Post, *models.PostContent, error) {
	var index models.Post
	err := s.db.WithContext(ctx).Scopes(models.NotRemoved).First(&index, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrPostNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	content, err := s.findPostContent(ctx, index.ContentRef)
	if err != nil {
		return nil, nil, err
	}
	return &index, content, nil
}

// CreatePost writes a new post across both stores: the content document goes
// in first so the index row never references a missing document, then the
// index row. If the index insert fails the content document is deleted
// best-effort; a crash between the two steps can still leak an orphaned
// document, which no index row will ever reference.
func (s *Store) CreatePost(ctx context.Context, authorID, regionID uint, title, text string) (uint, error) {
	var regionCount int64
	if err := s.db.WithContext(ctx).Model(&models.Region{}).Where("id = ?", regionID).Count(&regionCount).Error; err != nil {
		return 0, err
	}
	if regionCount == 0 {
		return 0, ErrRegionNotFound
	}

	content := models.NewPostContent(text)
	if _, err := s.postContents.InsertOne(ctx, content); err != nil {
		return 0, err
	}

	now := time.Now()
	index := models.Post{
		AuthorID:     authorID,
		RegionID:     regionID,
		Title:        title,
		CreationTime: now,
		UpdateTime:   now,
		ContentRef:   content.ID.Hex(),
	}
	if err := s.db.WithContext(ctx).Create(&index).Error; err != nil {
		// Roll the content document back so it does not linger unreferenced.
		_, delErr := s.postContents.DeleteOne(ctx, bson.M{"_id": content.ID})
		if delErr != nil && utils.Sugar != nil {
			utils.Sugar.Warnf("orphaned post content %s left behind: %v", content.ID.Hex(), delErr)
		}
		return 0, err
	}

	return index.ID, nil
}

// UpdatePost applies a partial edit: a nil title or text means "leave as is".
// The title lives on the index row, the text in the content document; both
// writes refresh the post's update time when anything changed.
func (s *Store) UpdatePost(ctx context.Context, postID uint, title, text *string) error {
	if title == nil && text == nil {
		return nil
	}

	var index models.Post
	err := s.db.WithContext(ctx).Scopes(models.NotRemoved).First(&index, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"update_time": time.Now()}
	if title != nil {
		updates["title"] = *title
	}
	if err := s.db.WithContext(ctx).Model(&index).Updates(updates).Error; err != nil {
		return err
	}

	if text != nil {
		return s.updatePostContentText(ctx, index.ContentRef, *text)
	}
	return nil
}

// RemovePost soft-deletes a post. The content document and image blobs are
// kept; removed posts disappear from read paths via the NotRemoved scope.
func (s *Store) RemovePost(ctx context.Context, postID uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(models.NotRemoved).
		Where("id = ?", postID).
		Update("is_removed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// GetPostAuthorID resolves the author of a live post, for edit-ability checks.
func (s *Store) GetPostAuthorID(ctx context.Context, postID uint) (uint, error) {
	var index models.Post
	err := s.db.WithContext(ctx).
		Select("id", "author_id").
		Scopes(models.NotRemoved).
		First(&index, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrPostNotFound
	}
	if err != nil {
		return 0, err
	}
	return index.AuthorID, nil
}

// GetPostRegionID resolves the region a post belongs to. Removed posts still
// resolve, so cache invalidation after a delete can find the region.
func (s *Store) GetPostRegionID(ctx context.Context, postID uint) (uint, error) {
	var index models.Post
	err := s.db.WithContext(ctx).
		Select("id", "region_id").
		First(&index, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrPostNotFound
	}
	if err != nil {
		return 0, err
	}
	return index.RegionID, nil
}

// findPostContent loads one content document, tolerating its absence.
func (s *Store) findPostContent(ctx context.Context, ref string) (*models.PostContent, error) {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, nil
	}

	var content models.PostContent
	err = s.postContents.FindOne(ctx, bson.M{"_id": id}).Decode(&content)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// findPostContents batch-loads content documents keyed by contentRef hex.
func (s *Store) findPostContents(ctx context.Context, refs []string) (map[string]*models.PostContent, error) {
	ids := make([]primitive.ObjectID, 0, len(refs))
	for _, ref := range refs {
		if id, err := primitive.ObjectIDFromHex(ref); err == nil {
			ids = append(ids, id)
		}
	}

	contents := make(map[string]*models.PostContent, len(ids))
	if len(ids) == 0 {
		return contents, nil
	}

	cursor, err := s.postContents.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var content models.PostContent
		if err := cursor.Decode(&content); err != nil {
			return nil, err
		}
		c := content
		contents[c.ID.Hex()] = &c
	}
	return contents, cursor.Err()
}

func (s *Store) updatePostContentText(ctx context.Context, ref string, text string) error {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil
	}
	_, err = s.postContents.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"text": text}})
	return err
}
