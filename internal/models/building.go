package models

import "time"

// Building is a facility tracked by an organization. Archived buildings
// are excluded from sync runs.
type Building struct {
	ID               string              `gorm:"column:id;primaryKey"`
	Name             string              `gorm:"column:name"`
	Address          string              `gorm:"column:address"`
	City             string              `gorm:"column:city"`
	State            string              `gorm:"column:state"`
	PostalCode       string              `gorm:"column:postal_code"`
	SquareFeet       float64             `gorm:"column:square_feet"`
	YearBuilt        int                 `gorm:"column:year_built"`
	Archived         bool                `gorm:"column:archived"`
	ProjectIDs       StringList          `gorm:"column:project_ids;type:jsonb"`
	ConnectedObjects ConnectedObjectList `gorm:"column:connected_objects;type:jsonb"`
	CreatedAt        time.Time           `gorm:"column:created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Building) TableName() string {
	return "building"
}

func (b *Building) GetID() string { return b.ID }

func (b *Building) GetConnectedObjects() ConnectedObjectList { return b.ConnectedObjects }

func (b *Building) SetConnectedObjects(l ConnectedObjectList) { b.ConnectedObjects = l }
