package model

import "time"

// Shared reference data. These kinds deliberately carry no tenant column and
// are excluded from interception.

// UnitOfMeasure is the shared catalog of units (kg, g, l, pcs).
type UnitOfMeasure struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	Symbol    string    `json:"symbol" gorm:"type:varchar(10);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Permission is the shared permission catalog referenced by user roles.
type Permission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
