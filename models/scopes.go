package models

import "gorm.io/gorm"

// NotRemoved excludes soft-deleted rows. Every read path over posts and
// comments goes through this scope instead of repeating the predicate.
func NotRemoved(db *gorm.DB) *gorm.DB {
	return db.Where("is_removed = ?", false)
}
