package repository

import (
	"context"
	"fmt"

	"github.com/enervue/crm-sync-worker/internal/models"
	"gorm.io/gorm"
)

type MeasureRepository struct {
	db *gorm.DB
}

func NewMeasureRepository(db *gorm.DB) *MeasureRepository {
	return &MeasureRepository{db: db}
}

// ListForProject retrieves the measures belonging to a project
func (r *MeasureRepository) ListForProject(ctx context.Context, projectID string) ([]models.Measure, error) {
	var measures []models.Measure
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&measures)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list measures for project: %w", result.Error)
	}
	return measures, nil
}
