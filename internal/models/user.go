package models

import (
	"time"
)

// User is a verified identity known to the service. Rows are provisioned
// from identity claims; credentials live with the identity provider.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username  string    `gorm:"size:150;not null" json:"username"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	Profile   *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// Profile holds the per-user data used to group results geographically
type Profile struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user"`
	Location  string    `gorm:"size:100;not null;default:''" json:"location"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Profile model
func (Profile) TableName() string {
	return "profiles"
}

// UpdateProfileRequest is the body of PATCH /api/profile
type UpdateProfileRequest struct {
	Location *string `json:"location" binding:"required,location"`
}
