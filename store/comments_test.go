package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"treehole/models"
)

func rootPair(id, postID uint, text string) CommentPair {
	content := models.CommentContent{ID: primitive.NewObjectID(), Text: text}
	return CommentPair{
		Index: models.Comment{
			ID:           id,
			AuthorID:     1,
			CreationTime: time.Now(),
			ContentRef:   content.ID.Hex(),
			PostID:       &postID,
		},
		Content: &content,
	}
}

func replyPair(id, parentID uint, text string) CommentPair {
	content := models.CommentContent{ID: primitive.NewObjectID(), Text: text}
	return CommentPair{
		Index: models.Comment{
			ID:           id,
			AuthorID:     2,
			CreationTime: time.Now(),
			ContentRef:   content.ID.Hex(),
			ParentID:     &parentID,
		},
		Content: &content,
	}
}

func TestBuildCommentTree(t *testing.T) {
	pairs := []CommentPair{
		rootPair(1, 10, "first root"),
		rootPair(2, 10, "second root"),
		replyPair(3, 1, "reply to first"),
		replyPair(4, 1, "another reply to first"),
		replyPair(5, 2, "reply to second"),
	}

	tree := BuildCommentTree(pairs)
	require.Len(t, tree, 2)

	assert.Equal(t, uint(1), tree[0].ID)
	assert.Equal(t, "first root", tree[0].Text)
	require.Len(t, tree[0].Comments, 2)
	assert.Equal(t, uint(3), tree[0].Comments[0].ID)
	assert.Equal(t, uint(4), tree[0].Comments[1].ID)

	assert.Equal(t, uint(2), tree[1].ID)
	require.Len(t, tree[1].Comments, 1)
	assert.Equal(t, uint(5), tree[1].Comments[0].ID)
}

func TestBuildCommentTreeDropsOrphans(t *testing.T) {
	pairs := []CommentPair{
		rootPair(1, 10, "root"),
		replyPair(2, 1, "attached"),
		replyPair(3, 99, "orphan"),
	}

	tree := BuildCommentTree(pairs)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Comments, 1)
	assert.Equal(t, uint(2), tree[0].Comments[0].ID)
}

func TestBuildCommentTreePreservesEncounterOrder(t *testing.T) {
	pairs := []CommentPair{
		replyPair(9, 3, "early reply"),
		rootPair(3, 10, "root three"),
		rootPair(1, 10, "root one"),
		replyPair(8, 1, "late reply"),
	}

	tree := BuildCommentTree(pairs)
	require.Len(t, tree, 2)
	assert.Equal(t, uint(3), tree[0].ID)
	assert.Equal(t, uint(1), tree[1].ID)

	// Replies attach regardless of where they appear relative to their root.
	require.Len(t, tree[0].Comments, 1)
	assert.Equal(t, uint(9), tree[0].Comments[0].ID)
	require.Len(t, tree[1].Comments, 1)
	assert.Equal(t, uint(8), tree[1].Comments[0].ID)
}

func TestBuildCommentTreeMissingContent(t *testing.T) {
	pair := rootPair(1, 10, "ignored")
	pair.Content = nil

	tree := BuildCommentTree([]CommentPair{pair})
	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Text)
	assert.NotNil(t, tree[0].Comments)
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	tree := BuildCommentTree(nil)
	assert.Empty(t, tree)
}
