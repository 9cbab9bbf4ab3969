package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"treehole/models"
)

// AddVote records userID's vote on postID and bumps the post's counter. A
// duplicate vote is not an error: the unique (user, post) key rejects the
// insert, and the rejection is the signal that the vote already exists.
func (s *Store) AddVote(ctx context.Context, userID, postID uint) error {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return err
	}

	vote := models.NewVote(userID, postID)
	err := s.db.WithContext(ctx).Create(&vote).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"number_of_votes": gorm.Expr("number_of_votes + 1"),
			"update_time":     time.Now(),
		}).Error
}

// RemoveVote withdraws userID's vote on postID. Removing a vote that was
// never cast is a no-op, mirroring AddVote.
func (s *Store) RemoveVote(ctx context.Context, userID, postID uint) error {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Vote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	return s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Update("number_of_votes", gorm.Expr("number_of_votes - 1")).Error
}

// HasVoted reports whether userID currently holds a vote on postID.
func (s *Store) HasVoted(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}
