package model

import "gorm.io/gorm"

// Package is a priced tier offered in proposals (small/medium/large).
type Package struct {
	gorm.Model
	Name         string  `json:"name" gorm:"uniqueIndex;not null"`
	Type         string  `json:"type" gorm:"not null"` // small, medium, large
	Description  string  `json:"description"`
	Features     int     `json:"features" gorm:"not null"`
	Integrations int     `json:"integrations" gorm:"not null"`
	OneTimeFee   float64 `json:"one_time_fee" gorm:"not null"`
	MonthlyFee   float64 `json:"monthly_fee" gorm:"not null"`
	Currency     string  `json:"currency" gorm:"default:'DKK'"`
}
