// pkg/cron/billing_renewal.go

package cron

import (
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/billing"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/email"
)

var (
	lastRenewalRun time.Time
	renewalMutex   sync.Mutex
)

func InitBillingRenewalCron(svc *billing.Service) {
	c := cron.New()

	// Runs daily at 08:00
	_, err := c.AddFunc("0 8 * * *", func() {
		renewalMutex.Lock()
		defer renewalMutex.Unlock()

		if time.Since(lastRenewalRun) < 23*time.Hour {
			log.Printf("Billing renewal already ran today, skipping...")
			return
		}

		runBillingRenewals(svc)
		lastRenewalRun = time.Now()
	})

	if err != nil {
		log.Printf("Could not initialize billing renewal cron: %v", err)
		return
	}

	c.Start()
	log.Printf("Billing renewal cron initialized successfully")
}

func runBillingRenewals(svc *billing.Service) {
	log.Println("Running billing renewals...")

	var subs []model.Subscription
	err := database.DB.Where("next_billing_date <= ? AND status IN ?", time.Now(),
		[]model.SubscriptionStatus{model.SubscriptionStatusActive, model.SubscriptionStatusPendingCancellation}).
		Preload("Client").
		Find(&subs).Error
	if err != nil {
		log.Printf("Error fetching due subscriptions: %v", err)
		return
	}

	log.Printf("Found %d subscriptions due for billing", len(subs))

	for _, sub := range subs {
		invoice, err := svc.Renew(database.DB, sub.ID)
		if err != nil {
			log.Printf("Error renewing subscription %d: %v", sub.ID, err)
			continue
		}

		if invoice != nil && email.GlobalEmailService != nil {
			err := email.GlobalEmailService.SendInvoiceIssuedEmail(
				sub.Client.Email,
				sub.Client.DisplayName(),
				invoice.InvoiceNumber,
				invoice.Amount,
				*invoice.DueAt,
			)
			if err != nil {
				log.Printf("Could not send renewal invoice email to %s: %v", sub.Client.Email, err)
			}
		}
	}
}
