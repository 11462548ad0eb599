package repository

import (
	"context"
	"fmt"

	"github.com/enervue/crm-sync-worker/internal/models"
	"gorm.io/gorm"
)

type BuildingRepository struct {
	db *gorm.DB
}

func NewBuildingRepository(db *gorm.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// GetActiveByIDs retrieves the non-archived buildings among ids.
// Missing or archived ids are silently dropped from the result.
func (r *BuildingRepository) GetActiveByIDs(ctx context.Context, ids []string) ([]models.Building, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var buildings []models.Building
	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("archived = ?", false).
		Find(&buildings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get buildings: %w", result.Error)
	}
	return buildings, nil
}
