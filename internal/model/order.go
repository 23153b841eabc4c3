package model

import (
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"gorm.io/gorm"
)

// Order workflow statuses. The workflow UI drives the transitions; the
// service only records them.
const (
	OrderStatusDraft     = "draft"
	OrderStatusConfirmed = "confirmed"
	OrderStatusFulfilled = "fulfilled"
)

// CustomerOrder represents an order placed by a customer with one tenant.
type CustomerOrder struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OrderNumber string     `json:"order_number" gorm:"type:varchar(50);index;not null"`
	CustomerID  uint       `json:"customer_id" gorm:"index;not null"`
	Status      string     `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	TotalAmount float64    `json:"total_amount" gorm:"default:0"`
	Notes       string     `json:"notes" gorm:"type:text"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	tenantscope.Scope
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
