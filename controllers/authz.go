package controllers

import (
	"github.com/gin-gonic/gin"

	"treehole/middleware"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	// AuthRequired stores the claim as uint; anything else is absent.
	id, ok := value.(uint)
	return id, ok
}

func isAdmin(ctx *gin.Context) bool {
	return ctx.GetBool(middleware.ContextIsAdminKey)
}

// CanModify reports whether userID may edit or delete content owned by
// ownerID. Administrators may modify anything.
func CanModify(userID, ownerID uint, admin bool) bool {
	return admin || userID == ownerID
}
