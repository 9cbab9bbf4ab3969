package routes

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"treehole/config"
	"treehole/controllers"
	"treehole/middleware"
	"treehole/store"
	"treehole/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(s *store.Store, wechat *utils.WechatClient) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file next to the app log.
	ginLogPath := filepath.Join(filepath.Dir(cfg.LogPath), "access.log")
	gl, err := utils.NewRollingFileLogger(ginLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(s, wechat)
	postController := controllers.NewPostController(s)
	regionController := controllers.NewRegionController(s)
	statsController := controllers.NewStatsController(s)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", authController.Login)

	api.GET("/regions", regionController.ListRegions)
	api.GET("/regions/:id/icon", regionController.GetRegionIcon)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/posts", postController.ListPosts)
	protected.GET("/posts/:id", postController.GetPost)
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/images/:mask", postController.UploadImages)
	protected.DELETE("/posts/:id/images/:mask", postController.DeleteImages)
	protected.GET("/posts/:id/comments", postController.ListComments)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.DELETE("/posts/:id/comments/:commentId", postController.DeleteComment)
	protected.POST("/posts/:id/votes", postController.AddVote)
	protected.DELETE("/posts/:id/votes", postController.RemoveVote)
	protected.GET("/stat", statsController.GetMyStats)

	admin := api.Group("")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.POST("/regions/:name", regionController.CreateRegion)
	admin.DELETE("/regions/:id", regionController.DeleteRegion)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.Status(http.StatusNotFound)
	})

	return r
}
