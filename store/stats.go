package store

import (
	"context"

	"treehole/models"
)

// GetUserStats counts a user's live posts and the votes those posts have
// received. Votes on soft-deleted posts no longer count.
func (s *Store) GetUserStats(ctx context.Context, userID uint) (models.UserStats, error) {
	stats := models.UserStats{UserID: userID}

	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(models.NotRemoved).
		Where("author_id = ?", userID).
		Count(&stats.NumberOfPosts).Error
	if err != nil {
		return stats, err
	}

	err = s.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(models.NotRemoved).
		Where("author_id = ?", userID).
		Select("COALESCE(SUM(number_of_votes), 0)").
		Scan(&stats.NumberOfReceivedVotes).Error
	return stats, err
}
