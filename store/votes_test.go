package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"treehole/models"
)

// newIndexStore opens an in-memory SQLite database with the same error
// translation the production MySQL session uses, so unique-key violations
// surface as gorm.ErrDuplicatedKey here too.
func newIndexStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Region{}, &models.Post{}, &models.Comment{}, &models.Vote{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return New(db, nil, nil)
}

func seedPost(t *testing.T, s *Store, authorID uint) uint {
	t.Helper()

	post := models.Post{
		AuthorID:     authorID,
		RegionID:     1,
		Title:        "seeded",
		CreationTime: time.Now(),
		UpdateTime:   time.Now(),
		ContentRef:   primitive.NewObjectID().Hex(),
	}
	require.NoError(t, s.db.Create(&post).Error)
	return post.ID
}

func TestAddVoteConvergesOnDuplicate(t *testing.T) {
	s := newIndexStore(t)
	postID := seedPost(t, s, 1)
	ctx := context.Background()

	require.NoError(t, s.AddVote(ctx, 7, postID))
	// The second cast hits the (user_id, post_id) key and must succeed as a
	// no-op: still one row, still one counter increment.
	require.NoError(t, s.AddVote(ctx, 7, postID))

	var voteCount int64
	require.NoError(t, s.db.Model(&models.Vote{}).Where("user_id = ? AND post_id = ?", 7, postID).Count(&voteCount).Error)
	assert.Equal(t, int64(1), voteCount)

	var post models.Post
	require.NoError(t, s.db.First(&post, postID).Error)
	assert.Equal(t, 1, post.NumberOfVotes)
}

func TestAddVoteDistinctUsers(t *testing.T) {
	s := newIndexStore(t)
	postID := seedPost(t, s, 1)
	ctx := context.Background()

	require.NoError(t, s.AddVote(ctx, 7, postID))
	require.NoError(t, s.AddVote(ctx, 8, postID))

	var post models.Post
	require.NoError(t, s.db.First(&post, postID).Error)
	assert.Equal(t, 2, post.NumberOfVotes)
}

func TestAddVoteMissingPost(t *testing.T) {
	s := newIndexStore(t)

	err := s.AddVote(context.Background(), 7, 999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestRemoveVote(t *testing.T) {
	s := newIndexStore(t)
	postID := seedPost(t, s, 1)
	ctx := context.Background()

	// Withdrawing a vote that was never cast is a no-op.
	require.NoError(t, s.RemoveVote(ctx, 7, postID))

	require.NoError(t, s.AddVote(ctx, 7, postID))
	require.NoError(t, s.RemoveVote(ctx, 7, postID))

	var voteCount int64
	require.NoError(t, s.db.Model(&models.Vote{}).Count(&voteCount).Error)
	assert.Equal(t, int64(0), voteCount)

	var post models.Post
	require.NoError(t, s.db.First(&post, postID).Error)
	assert.Equal(t, 0, post.NumberOfVotes)

	// A second withdrawal must not push the counter negative.
	require.NoError(t, s.RemoveVote(ctx, 7, postID))
	require.NoError(t, s.db.First(&post, postID).Error)
	assert.Equal(t, 0, post.NumberOfVotes)
}

func TestHasVoted(t *testing.T) {
	s := newIndexStore(t)
	postID := seedPost(t, s, 1)
	ctx := context.Background()

	voted, err := s.HasVoted(ctx, 7, postID)
	require.NoError(t, err)
	assert.False(t, voted)

	require.NoError(t, s.AddVote(ctx, 7, postID))

	voted, err = s.HasVoted(ctx, 7, postID)
	require.NoError(t, err)
	assert.True(t, voted)
}
