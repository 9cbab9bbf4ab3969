package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"treehole/models"
)

// FindOrCreateUserByOpenID looks up a user by WeChat open id, creating the
// row on first login. The insert is optimistic: two concurrent first logins
// race to the unique index on open_id, and the loser re-queries instead of
// failing. There is no pre-insert existence window to protect.
func (s *Store) FindOrCreateUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("open_id = ?", openID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{OpenID: openID}
	err = s.db.WithContext(ctx).Create(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// Lost the race; the winner's row must be there now.
	if err := s.db.WithContext(ctx).Where("open_id = ?", openID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
