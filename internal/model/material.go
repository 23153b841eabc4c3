package model

import (
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"gorm.io/gorm"
)

// Material represents a raw ingredient held in stock (flour, butter, yeast).
type Material struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	Name              string  `json:"name" gorm:"type:varchar(255);not null"`
	SKU               string  `json:"sku" gorm:"type:varchar(100);index"`
	UnitID            uint    `json:"unit_id" gorm:"index"` // references the shared unit-of-measure catalog
	Quantity          float64 `json:"quantity" gorm:"default:0"`
	ReorderLevel      float64 `json:"reorder_level" gorm:"default:0"`
	CostPerUnit       float64 `json:"cost_per_unit"`
	SupplierID        uint    `json:"supplier_id" gorm:"index"`
	StorageLocationID uint    `json:"storage_location_id" gorm:"index"`
	tenantscope.Scope
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
