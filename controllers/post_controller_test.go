package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"treehole/middleware"
	"treehole/models"
	"treehole/store"
)

// newPostTestRouter wires a PostController over an in-memory SQLite index
// store, with a stand-in for the auth middleware that injects the given
// caller identity.
func newPostTestRouter(t *testing.T, userID uint, admin bool) (*gin.Engine, *gorm.DB) {
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

	pc := NewPostController(store.New(db, nil, nil))

	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, userID)
		ctx.Set(middleware.ContextIsAdminKey, admin)
	})
	r.DELETE("/posts/:id", pc.DeletePost)
	return r, db
}

func seedIndexPost(t *testing.T, db *gorm.DB, authorID uint) uint {
	t.Helper()

	post := models.Post{
		AuthorID:     authorID,
		RegionID:     1,
		Title:        "seeded",
		CreationTime: time.Now(),
		UpdateTime:   time.Now(),
		ContentRef:   primitive.NewObjectID().Hex(),
	}
	require.NoError(t, db.Create(&post).Error)
	return post.ID
}

func TestDeletePostMissingYieldsNotFound(t *testing.T) {
	// A stranger deleting a non-existent post gets 404, not 403: the target
	// is resolved before any ownership check.
	r, _ := newPostTestRouter(t, 2, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/posts/999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePostStrangerForbidden(t *testing.T) {
	r, db := newPostTestRouter(t, 2, false)
	postID := seedIndexPost(t, db, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	// The post is untouched.
	var post models.Post
	require.NoError(t, db.First(&post, postID).Error)
	assert.False(t, post.IsRemoved)
}

func TestDeletePostByAuthor(t *testing.T) {
	r, db := newPostTestRouter(t, 1, false)
	seedIndexPost(t, db, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var post models.Post
	require.NoError(t, db.First(&post, 1).Error)
	assert.True(t, post.IsRemoved)
}

func TestDeletePostAdminBypass(t *testing.T) {
	r, db := newPostTestRouter(t, 2, true)
	seedIndexPost(t, db, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeletePostMissingForAdmin(t *testing.T) {
	// Admin privileges do not turn a missing target into anything but 404.
	r, _ := newPostTestRouter(t, 2, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/posts/999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePostAlreadyRemoved(t *testing.T) {
	// A soft-deleted post behaves like a missing one, even for its author.
	r, db := newPostTestRouter(t, 1, false)
	postID := seedIndexPost(t, db, 1)
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", postID).Update("is_removed", true).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
