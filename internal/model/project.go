package model

import (
	"time"

	"gorm.io/gorm"
)

// Project Status
type ProjectStatus string

const (
	ProjectStatusPending          ProjectStatus = "pending"
	ProjectStatusProposalSent     ProjectStatus = "proposal_sent"
	ProjectStatusProposalAccepted ProjectStatus = "proposal_accepted"
	ProjectStatusInProgress       ProjectStatus = "in_progress"
	ProjectStatusCompleted        ProjectStatus = "completed"
	ProjectStatusOnHold           ProjectStatus = "on_hold"
	ProjectStatusCancelled        ProjectStatus = "cancelled"
)

// Project Types (intake wizard selection)
type ProjectType string

const (
	ProjectTypeWebApp      ProjectType = "web_app"
	ProjectTypeMobileApp   ProjectType = "mobile_app"
	ProjectTypeWebsite     ProjectType = "website"
	ProjectTypeEcommerce   ProjectType = "ecommerce"
	ProjectTypeInternal    ProjectType = "internal_tool"
	ProjectTypeIntegration ProjectType = "integration"
)

type Project struct {
	gorm.Model
	ClientID    uint          `json:"client_id" gorm:"index;not null"`
	Name        string        `json:"name" gorm:"not null"`
	Type        ProjectType   `json:"type"`
	Description string        `json:"description" gorm:"type:text"`
	Timeline    string        `json:"timeline"`
	Status      ProjectStatus `json:"status" gorm:"default:'pending'"`

	// Proposal fields, only meaningful once status >= proposal_sent
	ProposedPackageName      string  `json:"proposed_package_name"`
	ProposedOneTimeFee       float64 `json:"proposed_one_time_fee"`
	ProposedMonthlyFee       float64 `json:"proposed_monthly_fee"`
	ProposedFeatureCount     int     `json:"proposed_feature_count"`
	ProposedIntegrationCount int     `json:"proposed_integration_count"`
	ProposedBillingCycle     string  `json:"proposed_billing_cycle"`

	ProposalSentAt     *time.Time `json:"proposal_sent_at"`
	ProposalAcceptedAt *time.Time `json:"proposal_accepted_at"`

	Client Client `json:"-" gorm:"foreignKey:ClientID"`
}
