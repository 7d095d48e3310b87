package model

import (
	"time"

	"gorm.io/gorm"
)

// Billing Cycles
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleBiannual  BillingCycle = "biannual"
	BillingCycleAnnual    BillingCycle = "annual"
)

// Subscription Status
type SubscriptionStatus string

const (
	SubscriptionStatusActive              SubscriptionStatus = "active"
	SubscriptionStatusPaused              SubscriptionStatus = "paused"
	SubscriptionStatusCancelled           SubscriptionStatus = "cancelled"
	SubscriptionStatusPendingCancellation SubscriptionStatus = "pending_cancellation"
)

type Subscription struct {
	gorm.Model
	ClientID  uint `json:"client_id" gorm:"index;not null"`
	ProjectID uint `json:"project_id" gorm:"uniqueIndex;not null"`

	PackageName string `json:"package_name" gorm:"not null"`
	PackageType string `json:"package_type"`

	OneTimeFee float64 `json:"one_time_fee"`
	MonthlyFee float64 `json:"monthly_fee"`

	TotalFeatures     int `json:"total_features"`
	UsedFeatures      int `json:"used_features" gorm:"default:0"`
	TotalIntegrations int `json:"total_integrations"`
	UsedIntegrations  int `json:"used_integrations" gorm:"default:0"`

	BillingCycle    BillingCycle       `json:"billing_cycle" gorm:"default:'monthly'"`
	LastBillingDate *time.Time         `json:"last_billing_date"`
	NextBillingDate *time.Time         `json:"next_billing_date"`
	Status          SubscriptionStatus `json:"status" gorm:"default:'active'"`

	Client  Client  `json:"-" gorm:"foreignKey:ClientID"`
	Project Project `json:"-" gorm:"foreignKey:ProjectID"`
}

func (c BillingCycle) Valid() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleBiannual, BillingCycleAnnual:
		return true
	}
	return false
}

// Months returns the length of one billing period in calendar months.
func (c BillingCycle) Months() int {
	switch c {
	case BillingCycleQuarterly:
		return 3
	case BillingCycleBiannual:
		return 6
	case BillingCycleAnnual:
		return 12
	default:
		return 1
	}
}
