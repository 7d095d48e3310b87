package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice Types
type InvoiceType string

const (
	InvoiceTypeOneTime             InvoiceType = "one_time"
	InvoiceTypeMonthly             InvoiceType = "monthly"
	InvoiceTypeAdditionalFeature   InvoiceType = "additional_feature"
	InvoiceTypeCancellationPenalty InvoiceType = "cancellation_penalty"
)

// Invoice Status
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type InvoiceLineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	gorm.Model
	ClientID       uint  `json:"client_id" gorm:"index;not null"`
	ProjectID      uint  `json:"project_id" gorm:"index"`
	SubscriptionID *uint `json:"subscription_id"`

	InvoiceNumber string        `json:"invoice_number" gorm:"uniqueIndex;not null"`
	Type          InvoiceType   `json:"type" gorm:"not null"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"default:'DKK'"`
	Status        InvoiceStatus `json:"status" gorm:"default:'draft'"`

	LineItems datatypes.JSON `json:"line_items"`
	Subtotal  float64        `json:"subtotal"`
	TaxRate   float64        `json:"tax_rate"`
	TaxAmount float64        `json:"tax_amount"`

	IssuedAt *time.Time `json:"issued_at"`
	DueAt    *time.Time `json:"due_at"`
	PaidAt   *time.Time `json:"paid_at"`

	StripeSessionID string `json:"-"`

	Client       Client        `json:"-" gorm:"foreignKey:ClientID"`
	Project      Project       `json:"-" gorm:"foreignKey:ProjectID"`
	Subscription *Subscription `json:"-" gorm:"foreignKey:SubscriptionID"`
}
