// Package billing holds the money-moving flows of the portal: turning an
// accepted proposal into a subscription plus its first invoice, and
// rolling subscriptions forward on their billing dates.
package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"devkraft_backend/internal/model"
)

var (
	// ErrProposalNotSent is returned when acceptance is attempted on a
	// project that has no outstanding proposal.
	ErrProposalNotSent = errors.New("project has no proposal to accept")
)

const invoiceDueDays = 14

// Service carries the clock and randomness used by the billing flows so
// tests can pin both.
type Service struct {
	Now  func() time.Time
	Rand *rand.Rand
}

func NewService() *Service {
	return &Service{
		Now:  time.Now,
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddMonthsClamped advances t by the given number of calendar months,
// clamping to the last day of the target month instead of rolling over
// (Jan 31 + 1 month = Feb 28, not Mar 2/3).
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	target := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	lastDay := target.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// NextBillingDate returns from advanced by one billing period:
// +1 month (monthly), +3 (quarterly), +6 (biannual), +12 (annual).
// Unknown cycles fall back to monthly.
func NextBillingDate(cycle model.BillingCycle, from time.Time) time.Time {
	return AddMonthsClamped(from, cycle.Months())
}

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// InvoiceNumber builds an INV-{year}-{month}{day}-{XXXX} number with a
// 4-character uppercase base36 suffix drawn from the service's Rand.
func (s *Service) InvoiceNumber(t time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = base36Upper[s.Rand.Intn(len(base36Upper))]
	}
	return fmt.Sprintf("INV-%d-%02d%02d-%s", t.Year(), int(t.Month()), t.Day(), suffix)
}

// AcceptResult is what a (possibly repeated) acceptance produced.
type AcceptResult struct {
	Project      model.Project      `json:"project"`
	Subscription model.Subscription `json:"subscription"`
	Invoice      *model.Invoice     `json:"invoice,omitempty"`
	AlreadyDone  bool               `json:"already_accepted"`
}

// AcceptProposal transitions a proposal_sent project into an active
// subscription, issues the one-time invoice when a setup fee was
// proposed, and records a notification. The whole sequence runs in one
// transaction, and a project that already has a subscription returns the
// existing rows instead of duplicating them, so a client retrying after
// a failure (or double-clicking) cannot create a second subscription.
func (s *Service) AcceptProposal(db *gorm.DB, projectID uint) (*AcceptResult, error) {
	result := &AcceptResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			return err
		}

		// Retry path: the subscription already exists, hand it back.
		var existing model.Subscription
		if err := tx.Where("project_id = ?", project.ID).First(&existing).Error; err == nil {
			result.Project = project
			result.Subscription = existing
			result.AlreadyDone = true

			var inv model.Invoice
			if err := tx.Where("subscription_id = ? AND type = ?", existing.ID, model.InvoiceTypeOneTime).
				First(&inv).Error; err == nil {
				result.Invoice = &inv
			}
			return nil
		}

		// proposal_accepted without a subscription is the legacy
		// partial-failure state; completing it here repairs it.
		if project.Status != model.ProjectStatusProposalSent &&
			project.Status != model.ProjectStatusProposalAccepted {
			return ErrProposalNotSent
		}

		now := s.Now()

		cycle := model.BillingCycle(project.ProposedBillingCycle)
		if !cycle.Valid() {
			cycle = model.BillingCycleMonthly
		}
		nextBilling := NextBillingDate(cycle, now)

		if err := tx.Model(&project).Updates(map[string]interface{}{
			"status":               model.ProjectStatusProposalAccepted,
			"proposal_accepted_at": now,
		}).Error; err != nil {
			return err
		}

		sub := model.Subscription{
			ClientID:          project.ClientID,
			ProjectID:         project.ID,
			PackageName:       project.ProposedPackageName,
			PackageType:       project.ProposedPackageName,
			OneTimeFee:        project.ProposedOneTimeFee,
			MonthlyFee:        project.ProposedMonthlyFee,
			TotalFeatures:     project.ProposedFeatureCount,
			TotalIntegrations: project.ProposedIntegrationCount,
			BillingCycle:      cycle,
			LastBillingDate:   &now,
			NextBillingDate:   &nextBilling,
			Status:            model.SubscriptionStatusActive,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		if project.ProposedOneTimeFee > 0 {
			invoice, err := s.issueInvoice(tx, invoiceParams{
				ClientID:       project.ClientID,
				ProjectID:      project.ID,
				SubscriptionID: &sub.ID,
				Type:           model.InvoiceTypeOneTime,
				Amount:         project.ProposedOneTimeFee,
				Description:    fmt.Sprintf("%s package setup fee - %s", project.ProposedPackageName, project.Name),
				IssuedAt:       now,
			})
			if err != nil {
				return err
			}
			result.Invoice = invoice
		}

		notification := model.Notification{
			ClientID:  project.ClientID,
			Title:     "Proposal accepted",
			Message:   fmt.Sprintf("Your %s subscription for %q is now active.", sub.PackageName, project.Name),
			Type:      model.NotificationTypeAcceptance,
			ProjectID: &project.ID,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}

		if err := tx.First(&result.Project, project.ID).Error; err != nil {
			return err
		}
		result.Subscription = sub
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

type invoiceParams struct {
	ClientID       uint
	ProjectID      uint
	SubscriptionID *uint
	Type           model.InvoiceType
	Amount         float64
	Description    string
	IssuedAt       time.Time
}

// issueInvoice creates an invoice with a single full-amount line item,
// no tax, and a due date 14 days out. The invoice number carries a
// random suffix with no uniqueness guarantee, so creation retries a few
// times against the unique index before giving up.
func (s *Service) issueInvoice(tx *gorm.DB, p invoiceParams) (*model.Invoice, error) {
	lineItems, err := json.Marshal([]model.InvoiceLineItem{{
		Description: p.Description,
		Quantity:    1,
		UnitPrice:   p.Amount,
		Amount:      p.Amount,
	}})
	if err != nil {
		return nil, err
	}

	dueAt := p.IssuedAt.AddDate(0, 0, invoiceDueDays)

	number := s.InvoiceNumber(p.IssuedAt)
	for attempt := 0; attempt < 3; attempt++ {
		var count int64
		if err := tx.Model(&model.Invoice{}).Where("invoice_number = ?", number).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			break
		}
		number = s.InvoiceNumber(p.IssuedAt)
	}

	invoice := model.Invoice{
		ClientID:       p.ClientID,
		ProjectID:      p.ProjectID,
		SubscriptionID: p.SubscriptionID,
		InvoiceNumber:  number,
		Type:           p.Type,
		Amount:         p.Amount,
		Currency:       "DKK",
		Status:         model.InvoiceStatusSent,
		LineItems:      lineItems,
		Subtotal:       p.Amount,
		TaxRate:        0,
		TaxAmount:      0,
		IssuedAt:       &p.IssuedAt,
		DueAt:          &dueAt,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// IssueAdditionalFeatureInvoice bills a feature approved beyond the
// subscription's included quota.
func (s *Service) IssueAdditionalFeatureInvoice(tx *gorm.DB, sub *model.Subscription, featureTitle string, fee float64) (*model.Invoice, error) {
	return s.issueInvoice(tx, invoiceParams{
		ClientID:       sub.ClientID,
		ProjectID:      sub.ProjectID,
		SubscriptionID: &sub.ID,
		Type:           model.InvoiceTypeAdditionalFeature,
		Amount:         fee,
		Description:    fmt.Sprintf("Additional feature: %s", featureTitle),
		IssuedAt:       s.Now(),
	})
}

// Renew rolls an active subscription one billing period forward: it
// issues the recurring invoice (monthly fee times the period length in
// months) and advances the billing dates with the same clamped month
// arithmetic used at acceptance. Subscriptions pending cancellation are
// cancelled at the period boundary instead of renewed.
func (s *Service) Renew(db *gorm.DB, subscriptionID uint) (*model.Invoice, error) {
	var invoice *model.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		var sub model.Subscription
		if err := tx.First(&sub, subscriptionID).Error; err != nil {
			return err
		}

		if sub.Status == model.SubscriptionStatusPendingCancellation {
			if err := tx.Model(&sub).Update("status", model.SubscriptionStatusCancelled).Error; err != nil {
				return err
			}
			notification := model.Notification{
				ClientID:  sub.ClientID,
				Title:     "Subscription cancelled",
				Message:   fmt.Sprintf("Your %s subscription has ended as requested.", sub.PackageName),
				Type:      model.NotificationTypeSubscription,
				ProjectID: &sub.ProjectID,
			}
			return tx.Create(&notification).Error
		}

		if sub.Status != model.SubscriptionStatusActive {
			return nil
		}

		now := s.Now()
		months := sub.BillingCycle.Months()
		amount := sub.MonthlyFee * float64(months)

		inv, err := s.issueInvoice(tx, invoiceParams{
			ClientID:       sub.ClientID,
			ProjectID:      sub.ProjectID,
			SubscriptionID: &sub.ID,
			Type:           model.InvoiceTypeMonthly,
			Amount:         amount,
			Description:    fmt.Sprintf("%s package - %d month(s) of service", sub.PackageName, months),
			IssuedAt:       now,
		})
		if err != nil {
			return err
		}
		invoice = inv

		var base time.Time
		if sub.NextBillingDate != nil {
			base = *sub.NextBillingDate
		} else {
			base = now
		}
		next := AddMonthsClamped(base, months)

		if err := tx.Model(&sub).Updates(map[string]interface{}{
			"last_billing_date": base,
			"next_billing_date": next,
		}).Error; err != nil {
			return err
		}

		notification := model.Notification{
			ClientID:  sub.ClientID,
			Title:     "New invoice issued",
			Message:   fmt.Sprintf("Invoice %s for %.2f DKK is due in %d days.", inv.InvoiceNumber, inv.Amount, invoiceDueDays),
			Type:      model.NotificationTypeInvoice,
			ProjectID: &sub.ProjectID,
		}
		return tx.Create(&notification).Error
	})

	if err != nil {
		return nil, err
	}
	return invoice, nil
}
