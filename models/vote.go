package models

import "time"

// Vote is the (user, post) many-to-many edge. The composite primary key is the
// uniqueness constraint that resolves concurrent duplicate votes: the loser's
// insert fails at commit time and is treated as "already voted".
type Vote struct {
	UserID       uint      `gorm:"primaryKey" json:"user_id"`
	PostID       uint      `gorm:"primaryKey" json:"post_id"`
	CreationTime time.Time `json:"creation_time"`
}

// NewVote builds a vote edge stamped with the current time.
func NewVote(userID, postID uint) Vote {
	return Vote{UserID: userID, PostID: postID, CreationTime: time.Now()}
}
