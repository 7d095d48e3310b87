package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/utils/jwt"
)

func seedInvoice(t *testing.T, db *gorm.DB, status model.InvoiceStatus) (*model.Client, *model.Invoice) {
	client := model.Client{Email: "mette@example.com", PINHash: "hash"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	project := model.Project{ClientID: client.ID, Name: "Salon Booking"}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	invoice := model.Invoice{
		ClientID:      client.ID,
		ProjectID:     project.ID,
		InvoiceNumber: "INV-2025-0831-TEST",
		Type:          model.InvoiceTypeOneTime,
		Amount:        36000,
		Currency:      "DKK",
		Status:        status,
		Subtotal:      36000,
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	return &client, &invoice
}

func TestSendInvoice(t *testing.T) {
	db := setupTestDB(t, t.Name())
	_, invoice := seedInvoice(t, db, model.InvoiceStatusDraft)

	app := fiber.New()
	app.Post("/api/admin/invoices/:id/send", asUser(1, jwt.RoleAdmin), SendInvoice)

	resp, err := app.Test(jsonRequest(t, "POST", fmt.Sprintf("/api/admin/invoices/%d/send", invoice.ID), nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var updated model.Invoice
	db.First(&updated, invoice.ID)
	if updated.Status != model.InvoiceStatusSent {
		t.Fatalf("invoice status: got %s", updated.Status)
	}
	if updated.IssuedAt == nil || updated.DueAt == nil {
		t.Fatalf("issued/due dates not set")
	}
	if !updated.DueAt.Equal(updated.IssuedAt.AddDate(0, 0, 14)) {
		t.Fatalf("due date should be 14 days after issue, got %v", updated.DueAt)
	}

	// Only drafts can be sent.
	resp, err = app.Test(jsonRequest(t, "POST", fmt.Sprintf("/api/admin/invoices/%d/send", invoice.ID), nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("resend accepted: got %d", resp.StatusCode)
	}
}

func TestMarkInvoicePaid(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, invoice := seedInvoice(t, db, model.InvoiceStatusSent)

	app := fiber.New()
	app.Post("/api/admin/invoices/:id/mark-paid", asUser(1, jwt.RoleAdmin), MarkInvoicePaid)

	target := fmt.Sprintf("/api/admin/invoices/%d/mark-paid", invoice.ID)
	resp, err := app.Test(jsonRequest(t, "POST", target, nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var updated model.Invoice
	db.First(&updated, invoice.ID)
	if updated.Status != model.InvoiceStatusPaid {
		t.Fatalf("invoice status: got %s", updated.Status)
	}
	if updated.PaidAt == nil {
		t.Fatalf("paid_at not set")
	}

	var notifCount int64
	db.Model(&model.Notification{}).Where("client_id = ? AND type = ?", client.ID, model.NotificationTypePayment).Count(&notifCount)
	if notifCount != 1 {
		t.Fatalf("expected payment notification, got %d", notifCount)
	}

	// Marking twice is a no-op, not an error.
	resp, err = app.Test(jsonRequest(t, "POST", target, nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat mark-paid: got %d", resp.StatusCode)
	}
	db.Model(&model.Notification{}).Where("client_id = ? AND type = ?", client.ID, model.NotificationTypePayment).Count(&notifCount)
	if notifCount != 1 {
		t.Fatalf("repeat mark-paid created another notification")
	}
}

func TestGetMyInvoicesScopedToClient(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, _ := seedInvoice(t, db, model.InvoiceStatusSent)

	other := model.Client{Email: "other@example.com", PINHash: "hash"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}
	if err := db.Create(&model.Invoice{
		ClientID:      other.ID,
		InvoiceNumber: "INV-2025-0831-OTHR",
		Type:          model.InvoiceTypeMonthly,
		Amount:        900,
		Status:        model.InvoiceStatusSent,
	}).Error; err != nil {
		t.Fatalf("seed other invoice: %v", err)
	}

	app := fiber.New()
	app.Get("/api/invoices/my", asUser(client.ID, jwt.RoleClient), GetMyInvoices)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/invoices/my", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var invoices []model.Invoice
	decodeBodyInto(t, resp, &invoices)
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices))
	}
	if invoices[0].ClientID != client.ID {
		t.Fatalf("leaked another client's invoice")
	}
}

func TestCreateInvoiceCheckoutGuards(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, invoice := seedInvoice(t, db, model.InvoiceStatusDraft)

	app := fiber.New()
	app.Post("/api/invoices/:id/checkout", asUser(client.ID, jwt.RoleClient), CreateInvoiceCheckout)

	// Draft invoices are not payable.
	resp, err := app.Test(jsonRequest(t, "POST", fmt.Sprintf("/api/invoices/%d/checkout", invoice.ID), nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("draft checkout accepted: got %d", resp.StatusCode)
	}

	// Another client's invoice is off limits.
	other := model.Client{Email: "other@example.com", PINHash: "hash"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}
	app2 := fiber.New()
	app2.Post("/api/invoices/:id/checkout", asUser(other.ID, jwt.RoleClient), CreateInvoiceCheckout)

	resp, err = app2.Test(jsonRequest(t, "POST", fmt.Sprintf("/api/invoices/%d/checkout", invoice.ID), nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign checkout accepted: got %d", resp.StatusCode)
	}
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	setupTestDB(t, t.Name())

	app := fiber.New()
	app.Post("/api/webhook", HandleStripeWebhook)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/webhook", fiber.Map{"type": "checkout.session.completed"}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unsigned webhook accepted: got %d", resp.StatusCode)
	}
}
