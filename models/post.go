package models

import "time"

// Post is the relational index record of a post. The large text body and the
// image slot array live in the MongoDB content record referenced by ContentRef.
// ContentRef is assigned at creation time and never changes afterwards.
type Post struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AuthorID         uint      `gorm:"index;not null" json:"author_id"`
	RegionID         uint      `gorm:"index;not null" json:"region_id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	CreationTime     time.Time `json:"creation_time"`
	UpdateTime       time.Time `gorm:"index" json:"update_time"`
	NumberOfVotes    int       `gorm:"default:0" json:"number_of_votes"`
	NumberOfComments int       `gorm:"default:0" json:"number_of_comments"`
	ContentRef       string    `gorm:"size:24;not null" json:"-"`
	IsRemoved        bool      `gorm:"index;default:false" json:"-"`
}
