package repository

import (
	"context"
	"fmt"

	"github.com/enervue/crm-sync-worker/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// GetByIDs retrieves the projects among ids; missing ids are dropped
func (r *ProjectRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var projects []models.Project
	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&projects)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get projects: %w", result.Error)
	}
	return projects, nil
}
