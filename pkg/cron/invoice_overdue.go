package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
)

func InitInvoiceOverdueCron() {
	c := cron.New()

	_, err := c.AddFunc("0 7 * * *", func() {
		sweepOverdueInvoices()
	})

	if err != nil {
		log.Printf("Could not initialize invoice overdue cron: %v", err)
		return
	}

	c.Start()
}

func sweepOverdueInvoices() {
	log.Println("Checking for overdue invoices...")

	var invoices []model.Invoice
	err := database.DB.Where("status = ? AND due_at < ?", model.InvoiceStatusSent, time.Now()).
		Find(&invoices).Error
	if err != nil {
		log.Printf("Error fetching overdue invoices: %v", err)
		return
	}

	log.Printf("Found %d overdue invoices", len(invoices))

	for _, invoice := range invoices {
		if err := database.DB.Model(&invoice).Update("status", model.InvoiceStatusOverdue).Error; err != nil {
			log.Printf("Error marking invoice %s overdue: %v", invoice.InvoiceNumber, err)
			continue
		}

		notification := model.Notification{
			ClientID:  invoice.ClientID,
			Title:     "Invoice overdue",
			Message:   "Invoice " + invoice.InvoiceNumber + " is past its due date. Please arrange payment.",
			Type:      model.NotificationTypeInvoice,
			ProjectID: &invoice.ProjectID,
		}
		if err := database.DB.Create(&notification).Error; err != nil {
			log.Printf("Error creating overdue notification for %s: %v", invoice.InvoiceNumber, err)
		}
	}
}
