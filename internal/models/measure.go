package models

import "time"

// Measure is an individual energy-efficiency measure belonging to a
// project.
type Measure struct {
	ID               string              `gorm:"column:id;primaryKey"`
	ProjectID        string              `gorm:"column:project_id;index"`
	BuildingID       string              `gorm:"column:building_id;index"`
	Name             string              `gorm:"column:name"`
	Category         string              `gorm:"column:category"`
	EstimatedCost    float64             `gorm:"column:estimated_cost"`
	EstimatedSavings float64             `gorm:"column:estimated_savings"`
	ConnectedObjects ConnectedObjectList `gorm:"column:connected_objects;type:jsonb"`
	CreatedAt        time.Time           `gorm:"column:created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Measure) TableName() string {
	return "measure"
}

func (m *Measure) GetID() string { return m.ID }

func (m *Measure) GetConnectedObjects() ConnectedObjectList { return m.ConnectedObjects }

func (m *Measure) SetConnectedObjects(l ConnectedObjectList) { m.ConnectedObjects = l }
