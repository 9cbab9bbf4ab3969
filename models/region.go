package models

// Region is a board that posts are organized into. Titles are unique; the
// optional icon is stored inline as a small blob.
type Region struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:32;not null;uniqueIndex" json:"title"`
	IconData []byte `gorm:"type:blob" json:"-"`
}
