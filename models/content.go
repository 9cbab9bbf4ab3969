package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// MaxImageSlots is the fixed number of image positions a post can hold.
const MaxImageSlots = 9

// PostContent is the MongoDB document holding a post's text body and its image
// slot array. ImageIDs is indexed by slot; a nil entry means the slot is empty.
// The array may be shorter than the highest slot ever referenced; writes that
// grow it must zero-extend.
type PostContent struct {
	ID       primitive.ObjectID    `bson:"_id"`
	Text     string                `bson:"text"`
	ImageIDs []*primitive.ObjectID `bson:"imageIds"`
}

// NewPostContent builds an empty content document with a fresh id.
func NewPostContent(text string) PostContent {
	return PostContent{
		ID:       primitive.NewObjectID(),
		Text:     text,
		ImageIDs: []*primitive.ObjectID{},
	}
}

// CommentContent is the MongoDB document holding a comment's text body.
type CommentContent struct {
	ID   primitive.ObjectID `bson:"_id"`
	Text string             `bson:"text"`
}

// NewCommentContent builds a comment content document with a fresh id.
func NewCommentContent(text string) CommentContent {
	return CommentContent{ID: primitive.NewObjectID(), Text: text}
}
