package model

import (
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"gorm.io/gorm"
)

// Recipe describes how a product is produced from materials.
type Recipe struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"type:varchar(255);not null"`
	ProductID     uint    `json:"product_id" gorm:"index;not null"`
	YieldQuantity float64 `json:"yield_quantity" gorm:"default:1"`
	Instructions  string  `json:"instructions" gorm:"type:text"`
	tenantscope.Scope
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ProductionRun is one execution of a recipe on the shop floor.
type ProductionRun struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	RecipeID        uint       `json:"recipe_id" gorm:"index;not null"`
	Quantity        float64    `json:"quantity" gorm:"not null"`
	Status          string     `json:"status" gorm:"type:varchar(50);not null;default:'planned'"` // 'planned', 'in_progress', 'completed'
	QualityStatusID uint       `json:"quality_status_id" gorm:"index"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	tenantscope.Scope
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
