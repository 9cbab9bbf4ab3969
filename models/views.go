package models

import "time"

// PostListItem is the list-page projection of a post. Text comes from the
// content record when available and is empty when the content is missing.
type PostListItem struct {
	ID               uint      `json:"id"`
	RegionID         uint      `json:"regionId"`
	Title            string    `json:"title"`
	CreationTime     time.Time `json:"creationTime"`
	UpdateTime       time.Time `json:"updateTime"`
	Text             string    `json:"text"`
	NumberOfVotes    int       `json:"numberOfVotes"`
	NumberOfComments int       `json:"numberOfComments"`
}

// NewPostListItem projects an index/content pair. A nil content yields an
// empty text rather than an error.
func NewPostListItem(index *Post, content *PostContent) PostListItem {
	item := PostListItem{
		ID:               index.ID,
		RegionID:         index.RegionID,
		Title:            index.Title,
		CreationTime:     index.CreationTime,
		UpdateTime:       index.UpdateTime,
		NumberOfVotes:    index.NumberOfVotes,
		NumberOfComments: index.NumberOfComments,
	}
	if content != nil {
		item.Text = content.Text
	}
	return item
}

// PostInfo is the detail-page projection of a post.
type PostInfo struct {
	ID               uint      `json:"id"`
	AuthorID         uint      `json:"authorId"`
	RegionID         uint      `json:"regionId"`
	Title            string    `json:"title"`
	Text             string    `json:"text"`
	CreationTime     time.Time `json:"creationTime"`
	UpdateTime       time.Time `json:"updateTime"`
	NumberOfImages   int       `json:"numberOfImages"`
	NumberOfVotes    int       `json:"numberOfVotes"`
	NumberOfComments int       `json:"numberOfComments"`
}

// NewPostInfo projects an index/content pair into the detail view.
func NewPostInfo(index *Post, content *PostContent) PostInfo {
	info := PostInfo{
		ID:               index.ID,
		AuthorID:         index.AuthorID,
		RegionID:         index.RegionID,
		Title:            index.Title,
		CreationTime:     index.CreationTime,
		UpdateTime:       index.UpdateTime,
		NumberOfVotes:    index.NumberOfVotes,
		NumberOfComments: index.NumberOfComments,
	}
	if content != nil {
		info.Text = content.Text
		info.NumberOfImages = len(content.ImageIDs)
	}
	return info
}

// CommentNode is one node of the two-level comment tree. Comments is always
// non-nil so roots serialize with an empty array instead of null.
type CommentNode struct {
	ID           uint           `json:"id"`
	AuthorID     uint           `json:"authorId"`
	CreationTime time.Time      `json:"creationTime"`
	Text         string         `json:"text"`
	Comments     []*CommentNode `json:"comments"`
}

// RegionInfo is the public projection of a region; the icon is served by a
// dedicated endpoint.
type RegionInfo struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// UserStats carries per-user post and received-vote counters.
type UserStats struct {
	UserID                uint  `json:"id"`
	NumberOfPosts         int64 `json:"numberOfPosts"`
	NumberOfReceivedVotes int64 `json:"numberOfReceivedVotes"`
}
