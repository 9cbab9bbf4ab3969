package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"treehole/models"
)

// ListRegions returns every region ordered by id.
func (s *Store) ListRegions(ctx context.Context) ([]models.RegionInfo, error) {
	var regions []models.Region
	err := s.db.WithContext(ctx).
		Select("id", "title").
		Order("id").
		Find(&regions).Error
	if err != nil {
		return nil, err
	}

	infos := make([]models.RegionInfo, 0, len(regions))
	for i := range regions {
		infos = append(infos, models.RegionInfo{ID: regions[i].ID, Title: regions[i].Title})
	}
	return infos, nil
}

// CreateRegion adds a region with the given title and icon bytes. The title
// is unique; a duplicate title yields ErrRegionExists.
func (s *Store) CreateRegion(ctx context.Context, title string, iconData []byte) (uint, error) {
	region := models.Region{Title: title, IconData: iconData}
	err := s.db.WithContext(ctx).Create(&region).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, ErrRegionExists
	}
	if err != nil {
		return 0, err
	}
	return region.ID, nil
}

// GetRegionIcon loads the icon bytes of a region.
func (s *Store) GetRegionIcon(ctx context.Context, regionID uint) ([]byte, error) {
	var region models.Region
	err := s.db.WithContext(ctx).
		Select("id", "icon_data").
		First(&region, regionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegionNotFound
	}
	if err != nil {
		return nil, err
	}
	return region.IconData, nil
}

// RemoveRegion deletes a region row. Posts already filed under it keep their
// region id; listing by that id simply returns them without region metadata.
func (s *Store) RemoveRegion(ctx context.Context, regionID uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Region{}, regionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRegionNotFound
	}
	return nil
}
