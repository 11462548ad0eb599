package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/enervue/crm-sync-worker/internal/models"
	"gorm.io/gorm"
)

var ErrOrganizationNotFound = errors.New("organization not found")

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, orgID string) (*models.Organization, error) {
	var org models.Organization
	result := r.db.WithContext(ctx).First(&org, "id = ?", orgID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", result.Error)
	}
	return &org, nil
}

// ListForUser retrieves every organization the given user is a member of
func (r *OrganizationRepository) ListForUser(ctx context.Context, userID string) ([]models.Organization, error) {
	var orgs []models.Organization
	result := r.db.WithContext(ctx).
		Joins("JOIN organization_member ON organization_member.organization_id = organization.id").
		Where("organization_member.user_id = ?", userID).
		Find(&orgs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list organizations for user: %w", result.Error)
	}
	return orgs, nil
}

// ListSyncEnabled retrieves every organization with CRM integration on,
// not paused, and at least one connected account
func (r *OrganizationRepository) ListSyncEnabled(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	result := r.db.WithContext(ctx).
		Where("crm_enabled = ? AND crm_paused = ?", true, false).
		Where("jsonb_array_length(COALESCE(crm_accounts, '[]'::jsonb)) > 0").
		Find(&orgs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list sync-enabled organizations: %w", result.Error)
	}
	return orgs, nil
}

// SaveAccounts persists the connected accounts and authorization records
// of an organization
func (r *OrganizationRepository) SaveAccounts(ctx context.Context, org *models.Organization) error {
	result := r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("id = ?", org.ID).
		Updates(map[string]interface{}{
			"crm_accounts":       org.CRMAccounts,
			"crm_authorizations": org.CRMAuthorizations,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save organization accounts: %w", result.Error)
	}
	return nil
}
