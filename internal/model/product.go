package model

import (
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"gorm.io/gorm"
)

// Product represents a finished good offered for sale
type Product struct {
	ID          uint    `json:"id" gorm:"primarykey"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null"`
	Description string  `json:"description" gorm:"type:text"`
	SKU         string  `json:"sku" gorm:"type:varchar(100);index"`
	Price       float64 `json:"price" gorm:"not null"`
	CategoryID  uint    `json:"category_id" gorm:"index"`
	tenantscope.Scope
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ProductCategory represents product categories
type ProductCategory struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"type:varchar(100);not null"`
	tenantscope.Scope
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
