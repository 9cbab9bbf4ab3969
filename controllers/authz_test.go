package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"treehole/middleware"
)

func TestGetUserID(t *testing.T) {
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := getUserID(ctx)
	assert.False(t, ok)

	ctx.Set(middleware.ContextUserIDKey, uint(42))
	id, ok := getUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	// Only the uint the auth middleware stores counts as an identity.
	ctx.Set(middleware.ContextUserIDKey, "42")
	_, ok = getUserID(ctx)
	assert.False(t, ok)
}

func TestCanModify(t *testing.T) {
	tests := []struct {
		name    string
		userID  uint
		ownerID uint
		admin   bool
		want    bool
	}{
		{name: "author may modify", userID: 1, ownerID: 1, want: true},
		{name: "stranger may not", userID: 2, ownerID: 1, want: false},
		{name: "admin bypasses ownership", userID: 2, ownerID: 1, admin: true, want: true},
		{name: "admin author", userID: 1, ownerID: 1, admin: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.userID, tt.ownerID, tt.admin))
		})
	}
}
