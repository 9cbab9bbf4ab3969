package models

import "time"

// Comment is the relational index record of a comment. Exactly one of PostID
// and ParentID is set: PostID for a root comment attached to a post, ParentID
// for a reply attached to a root comment. No deeper nesting exists.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"index;not null" json:"author_id"`
	CreationTime time.Time `json:"creation_time"`
	ContentRef   string    `gorm:"size:24;not null" json:"-"`
	PostID       *uint     `gorm:"index" json:"post_id"`
	ParentID     *uint     `gorm:"index" json:"parent_id"`
	IsRemoved    bool      `gorm:"index;default:false" json:"-"`
}

// NewRootComment builds a level-1 comment attached directly to a post.
func NewRootComment(authorID uint, contentRef string, postID uint) Comment {
	return Comment{
		AuthorID:     authorID,
		CreationTime: time.Now(),
		ContentRef:   contentRef,
		PostID:       &postID,
	}
}

// NewReplyComment builds a level-2 comment attached to a root comment.
func NewReplyComment(authorID uint, contentRef string, parentID uint) Comment {
	return Comment{
		AuthorID:     authorID,
		CreationTime: time.Now(),
		ContentRef:   contentRef,
		ParentID:     &parentID,
	}
}

// IsRoot reports whether the comment is attached directly to a post.
func (c *Comment) IsRoot() bool {
	return c.PostID != nil
}
