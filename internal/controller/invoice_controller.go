package controller

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/email"
	"devkraft_backend/pkg/utils/jwt"
)

func InitInvoiceController() {}

// GetMyInvoices returns the authenticated client's invoices.
func GetMyInvoices(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var invoices []model.Invoice
	query := database.DB.Where("client_id = ?", claims.ClientID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at desc").Find(&invoices).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch invoices",
		})
	}

	return c.JSON(invoices)
}

// ListInvoices returns all invoices for the admin dashboard.
func ListInvoices(c *fiber.Ctx) error {
	var invoices []model.Invoice
	query := database.DB.Preload("Client")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if invType := c.Query("type"); invType != "" {
		query = query.Where("type = ?", invType)
	}

	if err := query.Order("created_at desc").Find(&invoices).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch invoices",
		})
	}

	return c.JSON(invoices)
}

// SendInvoice moves a draft invoice to sent and notifies the client.
func SendInvoice(c *fiber.Ctx) error {
	var invoice model.Invoice
	if err := database.DB.Preload("Client").First(&invoice, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}

	if invoice.Status != model.InvoiceStatusDraft {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only draft invoices can be sent",
		})
	}

	now := time.Now()
	dueAt := now.AddDate(0, 0, 14)
	updates := map[string]interface{}{
		"status":    model.InvoiceStatusSent,
		"issued_at": now,
		"due_at":    dueAt,
	}
	if err := database.DB.Model(&invoice).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send invoice",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendInvoiceIssuedEmail(
			invoice.Client.Email,
			invoice.Client.DisplayName(),
			invoice.InvoiceNumber,
			invoice.Amount,
			dueAt,
		)
		if err != nil {
			log.Printf("Could not send invoice email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Invoice sent successfully",
		"invoice": invoice,
	})
}

// MarkInvoicePaid records a manual (bank transfer) payment.
func MarkInvoicePaid(c *fiber.Ctx) error {
	var invoice model.Invoice
	if err := database.DB.Preload("Client").First(&invoice, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}

	if invoice.Status == model.InvoiceStatusPaid {
		return c.JSON(fiber.Map{
			"message": "Invoice is already paid",
			"invoice": invoice,
		})
	}

	if err := markPaid(&invoice); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update invoice",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Invoice marked as paid",
		"invoice": invoice,
	})
}

// CreateInvoiceCheckout opens a Stripe checkout session for a sent or
// overdue invoice so the client can pay by card.
func CreateInvoiceCheckout(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var invoice model.Invoice
	if err := database.DB.First(&invoice, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}

	if claims.Role != jwt.RoleAdmin && invoice.ClientID != claims.ClientID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to pay this invoice",
		})
	}

	if invoice.Status != model.InvoiceStatusSent && invoice.Status != model.InvoiceStatusOverdue {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Invoice is not payable",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("dkk"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Invoice " + invoice.InvoiceNumber),
					},
					// Stripe amounts are in øre.
					UnitAmount: stripe.Int64(int64(invoice.Amount * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(os.Getenv("STRIPE_SUCCESS_URL")),
		CancelURL:  stripe.String(os.Getenv("STRIPE_CANCEL_URL")),
	}

	checkoutSession, err := session.New(params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	if err := database.DB.Model(&invoice).Update("stripe_session_id", checkoutSession.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": checkoutSession.URL,
	})
}

// HandleStripeWebhook marks invoices paid when their checkout session
// completes.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		var sessionData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &sessionData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		var invoice model.Invoice
		if err := database.DB.Where("stripe_session_id = ?", sessionData.ID).
			Preload("Client").
			First(&invoice).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not find invoice for session",
			})
		}

		if invoice.Status == model.InvoiceStatusPaid {
			break
		}

		if err := markPaid(&invoice); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update invoice",
			})
		}

		log.Printf("Invoice %s paid via checkout session %s", invoice.InvoiceNumber, sessionData.ID)
	}

	return c.SendStatus(fiber.StatusOK)
}

func markPaid(invoice *model.Invoice) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":  model.InvoiceStatusPaid,
		"paid_at": now,
	}
	if err := database.DB.Model(invoice).Updates(updates).Error; err != nil {
		return err
	}

	notification := model.Notification{
		ClientID:  invoice.ClientID,
		Title:     "Payment received",
		Message:   "Thank you! Payment for invoice " + invoice.InvoiceNumber + " has been received.",
		Type:      model.NotificationTypePayment,
		ProjectID: &invoice.ProjectID,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("Could not create payment notification: %v", err)
	}

	if email.GlobalEmailService != nil && invoice.Client.Email != "" {
		err := email.GlobalEmailService.SendPaymentReceivedEmail(
			invoice.Client.Email,
			invoice.Client.DisplayName(),
			invoice.InvoiceNumber,
			invoice.Amount,
		)
		if err != nil {
			log.Printf("Could not send payment email: %v", err)
		}
	}

	return nil
}
