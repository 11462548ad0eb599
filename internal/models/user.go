package models

import "time"

// User is a member of one or more organizations. Deactivated users are
// excluded from sync runs.
type User struct {
	ID               string              `gorm:"column:id;primaryKey"`
	Email            string              `gorm:"column:email;index"`
	FirstName        string              `gorm:"column:first_name"`
	LastName         string              `gorm:"column:last_name"`
	Title            *string             `gorm:"column:title"`
	Phone            *string             `gorm:"column:phone"`
	Deactivated      bool                `gorm:"column:deactivated"`
	ConnectedObjects ConnectedObjectList `gorm:"column:connected_objects;type:jsonb"`
	CreatedAt        time.Time           `gorm:"column:created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "app_user"
}

func (u *User) GetID() string { return u.ID }

func (u *User) GetConnectedObjects() ConnectedObjectList { return u.ConnectedObjects }

func (u *User) SetConnectedObjects(l ConnectedObjectList) { u.ConnectedObjects = l }
