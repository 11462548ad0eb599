package models

import "time"

// Organization is a tenant: it owns buildings, members, and zero or
// more connected CRM accounts. An organization is sync-enabled iff CRM
// integration is on, not paused, and at least one account is connected.
type Organization struct {
	ID                string              `gorm:"column:id;primaryKey"`
	Name              string              `gorm:"column:name"`
	CRMEnabled        bool                `gorm:"column:crm_enabled"`
	CRMPaused         bool                `gorm:"column:crm_paused"`
	CRMAccounts       StringList          `gorm:"column:crm_accounts;type:jsonb"`
	CRMAuthorizations AuthorizationList   `gorm:"column:crm_authorizations;type:jsonb"`
	BuildingIDs       StringList          `gorm:"column:building_ids;type:jsonb"`
	ConnectedObjects  ConnectedObjectList `gorm:"column:connected_objects;type:jsonb"`
	CreatedAt         time.Time           `gorm:"column:created_at"`
	UpdatedAt         time.Time           `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Organization) TableName() string {
	return "organization"
}

func (o *Organization) GetID() string { return o.ID }

func (o *Organization) GetConnectedObjects() ConnectedObjectList { return o.ConnectedObjects }

func (o *Organization) SetConnectedObjects(l ConnectedObjectList) { o.ConnectedObjects = l }

// OrganizationMember links a user to an organization it belongs to
type OrganizationMember struct {
	OrganizationID string `gorm:"column:organization_id;primaryKey"`
	UserID         string `gorm:"column:user_id;primaryKey"`
}

// TableName specifies the table name for GORM
func (OrganizationMember) TableName() string {
	return "organization_member"
}
