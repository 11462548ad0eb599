package models

import "time"

// Project status constants
const (
	ProjectStatusProposed   = "proposed"
	ProjectStatusApproved   = "approved"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

// Project is a package of energy-efficiency measures scoped for one or
// more buildings.
type Project struct {
	ID               string              `gorm:"column:id;primaryKey"`
	Name             string              `gorm:"column:name"`
	Description      *string             `gorm:"column:description"`
	Status           string              `gorm:"column:status;index"`
	ConnectedObjects ConnectedObjectList `gorm:"column:connected_objects;type:jsonb"`
	CreatedAt        time.Time           `gorm:"column:created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "project"
}

func (p *Project) GetID() string { return p.ID }

func (p *Project) GetConnectedObjects() ConnectedObjectList { return p.ConnectedObjects }

func (p *Project) SetConnectedObjects(l ConnectedObjectList) { p.ConnectedObjects = l }
