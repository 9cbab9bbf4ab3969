package main

import (
	"treehole/config"
	"treehole/models"
	"treehole/routes"
	"treehole/store"
	"treehole/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Region{}, &models.Post{}, &models.Comment{}, &models.Vote{})
	contentDB := config.InitMongo()
	defer config.CloseMongo()

	s := store.New(db, contentDB, config.ImageBucket())
	wechat := utils.NewWechatClient(cfg)

	r := routes.SetupRouter(s, wechat)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
