package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether the given string is one of the known roles.
func ValidRole(r string) bool {
	switch Role(r) {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`
	// Username stays NULL until the user completes their profile via
	// PATCH /v1/users/me. Content creation is blocked until then.
	Username  *string   `gorm:"uniqueIndex" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  *string   `gorm:"column:password_hash" json:"-"` // Not show in JSON
	Role      Role      `gorm:"type:varchar(30);default:'user';not null" json:"role"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// Capability helpers. All privileged-action gating goes through these,
// never through ad-hoc role comparisons at call sites.

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

// IsEmployee reports whether the user holds a privileged role that is
// exempt from throttling and may edit others' content.
func (u *User) IsEmployee() bool {
	return u.IsAdmin() || u.IsModerator()
}

// HasUsername reports whether the profile has been completed.
func (u *User) HasUsername() bool {
	return u != nil && u.Username != nil && *u.Username != ""
}

// DisplayName returns the username or an empty-profile marker.
func (u *User) DisplayName() string {
	if u.HasUsername() {
		return *u.Username
	}
	return "~empty~"
}
