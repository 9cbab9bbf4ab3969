package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"treehole/models"
	"treehole/utils"
)

// CommentPair couples a comment index row with its content document. Content
// is nil when the document is missing; the comment still appears with an
// empty text.
type CommentPair struct {
	Index   models.Comment
	Content *models.CommentContent
}

// FindPostComments loads every live comment belonging to a post, root
// comments first, and assembles the two-level tree.
func (s *Store) FindPostComments(ctx context.Context, postID uint) ([]*models.CommentNode, error) {
	var roots []models.Comment
	err := s.db.WithContext(ctx).
		Scopes(models.NotRemoved).
		Where("post_id = ?", postID).
		Order("id").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}

	rootIDs := make([]uint, 0, len(roots))
	for i := range roots {
		rootIDs = append(rootIDs, roots[i].ID)
	}

	var replies []models.Comment
	if len(rootIDs) > 0 {
		err = s.db.WithContext(ctx).
			Scopes(models.NotRemoved).
			Where("parent_id IN ?", rootIDs).
			Order("id").
			Find(&replies).Error
		if err != nil {
			return nil, err
		}
	}

	all := append(roots, replies...)
	refs := make([]string, 0, len(all))
	for i := range all {
		refs = append(refs, all[i].ContentRef)
	}
	contents, err := s.findCommentContents(ctx, refs)
	if err != nil {
		return nil, err
	}

	pairs := make([]CommentPair, 0, len(all))
	for i := range all {
		pairs = append(pairs, CommentPair{Index: all[i], Content: contents[all[i].ContentRef]})
	}
	return BuildCommentTree(pairs), nil
}

// BuildCommentTree reconstructs the two-level tree from a flat mixture of
// root and reply pairs in two passes: the first pass places every root in the
// output in encounter order and records its position, the second attaches
// each reply to its parent's children list. A reply whose parent is not among
// the roots (deleted, or never a root) is dropped silently. O(n) over n
// comments, no recursion; the hierarchy is two levels by construction.
func BuildCommentTree(pairs []CommentPair) []*models.CommentNode {
	roots := make([]*models.CommentNode, 0, len(pairs))
	rootPos := make(map[uint]int, len(pairs))

	for i := range pairs {
		if !pairs[i].Index.IsRoot() {
			continue
		}
		roots = append(roots, newCommentNode(&pairs[i]))
		rootPos[pairs[i].Index.ID] = len(roots) - 1
	}

	for i := range pairs {
		if pairs[i].Index.ParentID == nil {
			continue
		}
		pos, ok := rootPos[*pairs[i].Index.ParentID]
		if !ok {
			// Orphaned reply; its root was removed.
			continue
		}
		roots[pos].Comments = append(roots[pos].Comments, newCommentNode(&pairs[i]))
	}

	return roots
}

func newCommentNode(pair *CommentPair) *models.CommentNode {
	node := &models.CommentNode{
		ID:           pair.Index.ID,
		AuthorID:     pair.Index.AuthorID,
		CreationTime: pair.Index.CreationTime,
		Comments:     []*models.CommentNode{},
	}
	if pair.Content != nil {
		node.Text = pair.Content.Text
	}
	return node
}

// AddComment creates a root comment on a post, or a reply when parentID is
// non-nil. The content document is written first; the post's comment counter
// and update time move with the index insert.
func (s *Store) AddComment(ctx context.Context, postID uint, parentID *uint, authorID uint, text string) error {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return err
	}

	if parentID != nil {
		var parentCount int64
		err := s.db.WithContext(ctx).
			Model(&models.Comment{}).
			Scopes(models.NotRemoved).
			Where("id = ?", *parentID).
			Count(&parentCount).Error
		if err != nil {
			return err
		}
		if parentCount == 0 {
			return ErrCommentNotFound
		}
	}

	content := models.NewCommentContent(text)
	if _, err := s.commentContents.InsertOne(ctx, content); err != nil {
		return err
	}

	var index models.Comment
	if parentID == nil {
		index = models.NewRootComment(authorID, content.ID.Hex(), postID)
	} else {
		index = models.NewReplyComment(authorID, content.ID.Hex(), *parentID)
	}
	if err := s.db.WithContext(ctx).Create(&index).Error; err != nil {
		_, delErr := s.commentContents.DeleteOne(ctx, bson.M{"_id": content.ID})
		if delErr != nil && utils.Sugar != nil {
			utils.Sugar.Warnf("orphaned comment content %s left behind: %v", content.ID.Hex(), delErr)
		}
		return err
	}

	return s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"number_of_comments": gorm.Expr("number_of_comments + 1"),
			"update_time":        time.Now(),
		}).Error
}

// RemoveComment soft-deletes a comment and decrements its post's counter.
func (s *Store) RemoveComment(ctx context.Context, postID, commentID uint) error {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Scopes(models.NotRemoved).
		Where("id = ?", commentID).
		Update("is_removed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}

	return s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Update("number_of_comments", gorm.Expr("number_of_comments - 1")).Error
}

// GetCommentAuthorID resolves the author of a live comment, for edit-ability checks.
func (s *Store) GetCommentAuthorID(ctx context.Context, commentID uint) (uint, error) {
	var index models.Comment
	err := s.db.WithContext(ctx).
		Select("id", "author_id").
		Scopes(models.NotRemoved).
		First(&index, commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrCommentNotFound
	}
	if err != nil {
		return 0, err
	}
	return index.AuthorID, nil
}

func (s *Store) ensurePostExists(ctx context.Context, postID uint) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(models.NotRemoved).
		Where("id = ?", postID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

// findCommentContents batch-loads comment content documents keyed by hex id.
func (s *Store) findCommentContents(ctx context.Context, refs []string) (map[string]*models.CommentContent, error) {
	ids := make([]primitive.ObjectID, 0, len(refs))
	for _, ref := range refs {
		if id, err := primitive.ObjectIDFromHex(ref); err == nil {
			ids = append(ids, id)
		}
	}

	contents := make(map[string]*models.CommentContent, len(ids))
	if len(ids) == 0 {
		return contents, nil
	}

	cursor, err := s.commentContents.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var content models.CommentContent
		if err := cursor.Decode(&content); err != nil {
			return nil, err
		}
		c := content
		contents[c.ID.Hex()] = &c
	}
	return contents, cursor.Err()
}
