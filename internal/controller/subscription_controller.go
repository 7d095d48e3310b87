package controller

import (
	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/utils/jwt"
)

type SubscriptionUpdateInput struct {
	MonthlyFee        *float64 `json:"monthly_fee"`
	TotalFeatures     *int     `json:"total_features"`
	UsedFeatures      *int     `json:"used_features"`
	TotalIntegrations *int     `json:"total_integrations"`
	UsedIntegrations  *int     `json:"used_integrations"`
	BillingCycle      *string  `json:"billing_cycle"`
}

func InitSubscriptionController() {}

// GetMySubscriptions returns the authenticated client's subscriptions.
func GetMySubscriptions(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var subs []model.Subscription
	if err := database.DB.Where("client_id = ?", claims.ClientID).
		Order("created_at desc").Find(&subs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscriptions",
		})
	}

	return c.JSON(subs)
}

// ListSubscriptions returns all subscriptions for the admin dashboard.
func ListSubscriptions(c *fiber.Ctx) error {
	var subs []model.Subscription
	query := database.DB.Preload("Client")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at desc").Find(&subs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscriptions",
		})
	}

	return c.JSON(subs)
}

// UpdateSubscription adjusts fees, quotas, or the billing cycle.
// Used counters may never exceed their totals.
func UpdateSubscription(c *fiber.Ctx) error {
	var sub model.Subscription
	if err := database.DB.First(&sub, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	input := new(SubscriptionUpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	updates := map[string]interface{}{}
	if input.MonthlyFee != nil {
		updates["monthly_fee"] = *input.MonthlyFee
	}
	if input.TotalFeatures != nil {
		updates["total_features"] = *input.TotalFeatures
	}
	if input.UsedFeatures != nil {
		updates["used_features"] = *input.UsedFeatures
	}
	if input.TotalIntegrations != nil {
		updates["total_integrations"] = *input.TotalIntegrations
	}
	if input.UsedIntegrations != nil {
		updates["used_integrations"] = *input.UsedIntegrations
	}
	if input.BillingCycle != nil {
		cycle := model.BillingCycle(*input.BillingCycle)
		if !cycle.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid billing cycle",
			})
		}
		updates["billing_cycle"] = cycle
	}

	// Quota invariant: used <= total, checked against the merged state.
	usedFeatures := sub.UsedFeatures
	totalFeatures := sub.TotalFeatures
	if input.UsedFeatures != nil {
		usedFeatures = *input.UsedFeatures
	}
	if input.TotalFeatures != nil {
		totalFeatures = *input.TotalFeatures
	}
	usedIntegrations := sub.UsedIntegrations
	totalIntegrations := sub.TotalIntegrations
	if input.UsedIntegrations != nil {
		usedIntegrations = *input.UsedIntegrations
	}
	if input.TotalIntegrations != nil {
		totalIntegrations = *input.TotalIntegrations
	}
	if usedFeatures > totalFeatures || usedIntegrations > totalIntegrations {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Used quota cannot exceed total quota",
		})
	}

	if err := database.DB.Model(&sub).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription",
		})
	}

	return c.JSON(fiber.Map{
		"message":      "Subscription updated successfully",
		"subscription": sub,
	})
}

// UpdateSubscriptionStatus pauses, resumes, or cancels a subscription.
// pending_cancellation defers the cancellation to the period end, where
// the renewal job finalizes it.
func UpdateSubscriptionStatus(c *fiber.Ctx) error {
	var sub model.Subscription
	if err := database.DB.First(&sub, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	input := struct {
		Status string `json:"status"`
	}{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	switch model.SubscriptionStatus(input.Status) {
	case model.SubscriptionStatusActive,
		model.SubscriptionStatusPaused,
		model.SubscriptionStatusCancelled,
		model.SubscriptionStatusPendingCancellation:
		// valid
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
			"valid_statuses": []string{
				string(model.SubscriptionStatusActive),
				string(model.SubscriptionStatusPaused),
				string(model.SubscriptionStatusCancelled),
				string(model.SubscriptionStatusPendingCancellation),
			},
		})
	}

	if err := database.DB.Model(&sub).Update("status", input.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	notification := model.Notification{
		ClientID:  sub.ClientID,
		Title:     "Subscription updated",
		Message:   "Your " + sub.PackageName + " subscription status changed to " + input.Status + ".",
		Type:      model.NotificationTypeSubscription,
		ProjectID: &sub.ProjectID,
	}
	database.DB.Create(&notification)

	return c.JSON(fiber.Map{
		"message":      "Subscription status updated successfully",
		"subscription": sub,
	})
}
