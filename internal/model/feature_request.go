package model

import "gorm.io/gorm"

// Feature Request Status
type FeatureRequestStatus string

const (
	FeatureRequestStatusPending   FeatureRequestStatus = "pending"
	FeatureRequestStatusApproved  FeatureRequestStatus = "approved"
	FeatureRequestStatusRejected  FeatureRequestStatus = "rejected"
	FeatureRequestStatusCompleted FeatureRequestStatus = "completed"
)

type FeatureRequest struct {
	gorm.Model
	SubscriptionID uint                 `json:"subscription_id" gorm:"index;not null"`
	ClientID       uint                 `json:"client_id" gorm:"index;not null"`
	Title          string               `json:"title" gorm:"not null"`
	Description    string               `json:"description" gorm:"type:text"`
	Status         FeatureRequestStatus `json:"status" gorm:"default:'pending'"`
	// Billable is set on approval when the subscription quota is exhausted.
	Billable  bool  `json:"billable" gorm:"default:false"`
	InvoiceID *uint `json:"invoice_id"`

	Subscription Subscription `json:"-" gorm:"foreignKey:SubscriptionID"`
	Client       Client       `json:"-" gorm:"foreignKey:ClientID"`
}
