package repository

import (
	"context"
	"fmt"

	"github.com/enervue/crm-sync-worker/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListActiveForOrganization retrieves the non-deactivated members of an
// organization
func (r *UserRepository) ListActiveForOrganization(ctx context.Context, orgID string) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).
		Joins("JOIN organization_member ON organization_member.user_id = app_user.id").
		Where("organization_member.organization_id = ?", orgID).
		Where("app_user.deactivated = ?", false).
		Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list users for organization: %w", result.Error)
	}
	return users, nil
}
