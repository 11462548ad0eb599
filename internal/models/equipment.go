package models

import "time"

// Equipment is an equipment instance installed in a building
type Equipment struct {
	ID               string              `gorm:"column:id;primaryKey"`
	BuildingID       string              `gorm:"column:building_id;index"`
	Name             string              `gorm:"column:name"`
	Category         string              `gorm:"column:category"`
	Manufacturer     *string             `gorm:"column:manufacturer"`
	ModelNumber      *string             `gorm:"column:model_number"`
	Quantity         int                 `gorm:"column:quantity"`
	Archived         bool                `gorm:"column:archived"`
	ConnectedObjects ConnectedObjectList `gorm:"column:connected_objects;type:jsonb"`
	CreatedAt        time.Time           `gorm:"column:created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Equipment) TableName() string {
	return "equipment"
}

func (e *Equipment) GetID() string { return e.ID }

func (e *Equipment) GetConnectedObjects() ConnectedObjectList { return e.ConnectedObjects }

func (e *Equipment) SetConnectedObjects(l ConnectedObjectList) { e.ConnectedObjects = l }
