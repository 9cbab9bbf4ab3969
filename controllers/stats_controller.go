package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"treehole/store"
	"treehole/utils"
)

// StatsController serves per-user activity counters.
type StatsController struct {
	store *store.Store
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(s *store.Store) *StatsController {
	return &StatsController{store: s}
}

// GetMyStats returns the caller's live post count and the votes those posts
// have received.
func (c *StatsController) GetMyStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "unauthorized")
		return
	}

	stats, err := c.store.GetUserStats(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load stats")
		return
	}
	utils.Success(ctx, stats)
}
