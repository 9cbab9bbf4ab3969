package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"treehole/config"
	"treehole/store"
	"treehole/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController exchanges WeChat login codes for backend JWTs.
type AuthController struct {
	store  *store.Store
	wechat *utils.WechatClient
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(s *store.Store, wechat *utils.WechatClient) *AuthController {
	return &AuthController{store: s, wechat: wechat}
}

// Login trades a WeChat login code for a JWT, creating the user on first visit.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	token, err := a.wechat.ExchangeCode(ctx.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidWechatCode) {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid wechat code")
			return
		}
		utils.Error(ctx, http.StatusBadGateway, 50201, "wechat login service unavailable")
		return
	}

	user, err := a.store.FindOrCreateUserByOpenID(ctx.Request.Context(), token.OpenID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to resolve user")
		return
	}

	admin := isAdminOpenID(token.OpenID)
	jwtToken, err := utils.GenerateToken(user.ID, admin, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token":     jwtToken,
		"expiresAt": time.Now().Add(tokenLifetime),
		"user": gin.H{
			"id":      user.ID,
			"isAdmin": admin,
		},
	})
}

func isAdminOpenID(openID string) bool {
	for _, id := range config.Get().AdminOpenIDs {
		if id == openID {
			return true
		}
	}
	return false
}
