package model

import (
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"gorm.io/gorm"
)

// Customer represents a customer of one tenant's bakery
type Customer struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"type:varchar(100);not null"`
	Email string `json:"email" gorm:"type:varchar(100);index"`
	Phone string `json:"phone" gorm:"type:varchar(20)"`
	tenantscope.Scope
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
