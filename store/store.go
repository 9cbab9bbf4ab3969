// Package store is the facade over the two data sources backing the forum:
// MySQL rows index posts, comments, votes and regions, while MongoDB documents
// hold the large text bodies and the image slot arrays, with the image blobs
// themselves in GridFS. Writes that span both sources are sequential and
// best-effort; there is no cross-store transaction.
package store

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"gorm.io/gorm"
)

const (
	postContentCollection    = "postContents"
	commentContentCollection = "commentContents"
)

// Store bundles the relational index store, the document content store and the
// image bucket behind one set of domain operations.
type Store struct {
	db              *gorm.DB
	postContents    *mongo.Collection
	commentContents *mongo.Collection
	images          *gridfs.Bucket
}

// New creates a Store over the given connections. A nil contentDB leaves the
// content collections unset; callers that only touch the index store tolerate
// that.
func New(db *gorm.DB, contentDB *mongo.Database, images *gridfs.Bucket) *Store {
	s := &Store{db: db, images: images}
	if contentDB != nil {
		s.postContents = contentDB.Collection(postContentCollection)
		s.commentContents = contentDB.Collection(commentContentCollection)
	}
	return s
}
