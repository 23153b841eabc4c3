package model

import (
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"gorm.io/gorm"
)

// User represents a user account. Email is unique across all tenants because
// login happens before a tenant is known; the login lookup is the one
// deliberately unscoped read in the system.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"`
	Name     string `json:"name" gorm:"type:varchar(100)"`
	Role     string `json:"role" gorm:"type:varchar(50);not null;default:'member'"` // 'owner', 'admin', 'member'
	tenantscope.Scope
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
