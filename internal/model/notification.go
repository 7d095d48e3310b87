package model

import "gorm.io/gorm"

// Notification Types
type NotificationType string

const (
	NotificationTypeIntake       NotificationType = "intake_received"
	NotificationTypeProposal     NotificationType = "proposal_sent"
	NotificationTypeAcceptance   NotificationType = "proposal_accepted"
	NotificationTypeInvoice      NotificationType = "invoice_issued"
	NotificationTypePayment      NotificationType = "payment_received"
	NotificationTypeFeature      NotificationType = "feature_request"
	NotificationTypeSubscription NotificationType = "subscription_update"
)

// Notifications are append-only; rows are never updated after creation.
type Notification struct {
	gorm.Model
	ClientID  uint             `json:"client_id" gorm:"index;not null"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message" gorm:"type:text"`
	Type      NotificationType `json:"type"`
	ProjectID *uint            `json:"project_id"`

	Client Client `json:"-" gorm:"foreignKey:ClientID"`
}
