package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"treehole/store"
	"treehole/utils"
)

// maxIconBytes caps region icon uploads at 100 KiB.
const maxIconBytes = 100 * 1024

// RegionController manages the board regions posts are filed under.
type RegionController struct {
	store *store.Store
}

// NewRegionController creates a new RegionController instance.
func NewRegionController(s *store.Store) *RegionController {
	return &RegionController{store: s}
}

// ListRegions returns every region's id and title.
func (r *RegionController) ListRegions(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:regions:list"); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	regions, err := r.store.ListRegions(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list regions")
		return
	}

	payload := gin.H{"regions": regions}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:regions:list", wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// CreateRegion adds a region named by the path segment, with an optional icon
// file. Administrator only.
func (r *RegionController) CreateRegion(ctx *gin.Context) {
	title := strings.TrimSpace(ctx.Param("name"))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40050, "region name cannot be empty")
		return
	}

	var iconData []byte
	if file, header, err := ctx.Request.FormFile("icon"); err == nil {
		defer file.Close()
		if header.Size > maxIconBytes {
			utils.Error(ctx, http.StatusBadRequest, 40051, "icon exceeds 100KiB")
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxIconBytes+1))
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40052, "failed to read icon")
			return
		}
		if len(data) > maxIconBytes {
			utils.Error(ctx, http.StatusBadRequest, 40051, "icon exceeds 100KiB")
			return
		}
		iconData = data
	}

	regionID, err := r.store.CreateRegion(ctx.Request.Context(), title, iconData)
	if err != nil {
		if errors.Is(err, store.ErrRegionExists) {
			utils.Error(ctx, http.StatusConflict, 40901, "region already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to create region")
		return
	}

	utils.CacheDelete("cache:regions:list")
	utils.Success(ctx, gin.H{"id": regionID})
}

// GetRegionIcon serves a region's icon bytes as a JPEG image.
func (r *RegionController) GetRegionIcon(ctx *gin.Context) {
	regionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	icon, err := r.store.GetRegionIcon(ctx.Request.Context(), regionID)
	if err != nil {
		if errors.Is(err, store.ErrRegionNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "region not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load icon")
		return
	}

	ctx.Data(http.StatusOK, "image/jpeg", icon)
}

// DeleteRegion removes a region. Administrator only.
func (r *RegionController) DeleteRegion(ctx *gin.Context) {
	regionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := r.store.RemoveRegion(ctx.Request.Context(), regionID); err != nil {
		if errors.Is(err, store.ErrRegionNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40431, "region not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to delete region")
		return
	}

	utils.CacheDelete("cache:regions:list")
	utils.Success(ctx, gin.H{"message": "region deleted"})
}
