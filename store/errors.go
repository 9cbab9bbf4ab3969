package store

import "errors"

var (
	// ErrPostNotFound reports a post that is absent or soft-deleted.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound reports a comment that is absent or soft-deleted.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrRegionNotFound reports a region that does not exist.
	ErrRegionNotFound = errors.New("region not found")
	// ErrRegionExists reports a region title that is already taken.
	ErrRegionExists = errors.New("region title already exists")
)
