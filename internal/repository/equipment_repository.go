package repository

import (
	"context"
	"fmt"

	"github.com/enervue/crm-sync-worker/internal/models"
	"gorm.io/gorm"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// ListActiveForBuilding retrieves the non-archived equipment instances
// of a building
func (r *EquipmentRepository) ListActiveForBuilding(ctx context.Context, buildingID string) ([]models.Equipment, error) {
	var equipment []models.Equipment
	result := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Where("archived = ?", false).
		Find(&equipment)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list equipment for building: %w", result.Error)
	}
	return equipment, nil
}
