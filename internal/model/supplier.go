package model

import (
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"gorm.io/gorm"
)

// Supplier represents an ingredient supplier of one tenant
type Supplier struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Name          string `json:"name" gorm:"type:varchar(100);index;not null"`
	Code          string `json:"code" gorm:"type:varchar(50);index"`
	ContactPerson string `json:"contact_person" gorm:"type:varchar(100)"`
	Email         string `json:"email" gorm:"type:varchar(100)"`
	Phone         string `json:"phone" gorm:"type:varchar(20)"`
	Address       string `json:"address" gorm:"type:text"`
	PaymentTerms  string `json:"payment_terms" gorm:"type:varchar(100)"`
	tenantscope.Scope
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
