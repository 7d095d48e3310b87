package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/utils/jwt"
)

type FeatureRequestInput struct {
	SubscriptionID uint   `json:"subscription_id" validate:"required"`
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description"`
}

func InitFeatureRequestController() {}

// CreateFeatureRequest files a new feature request against the client's
// active subscription.
func CreateFeatureRequest(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(FeatureRequestInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	var sub model.Subscription
	if err := database.DB.First(&sub, input.SubscriptionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	if sub.ClientID != claims.ClientID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to request features on this subscription",
		})
	}

	if sub.Status != model.SubscriptionStatusActive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Feature requests require an active subscription",
		})
	}

	request := model.FeatureRequest{
		SubscriptionID: sub.ID,
		ClientID:       claims.ClientID,
		Title:          input.Title,
		Description:    input.Description,
		Status:         model.FeatureRequestStatusPending,
	}

	if err := database.DB.Create(&request).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create feature request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Feature request submitted successfully",
		"request": request,
	})
}

// GetMyFeatureRequests lists the client's feature requests.
func GetMyFeatureRequests(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var requests []model.FeatureRequest
	if err := database.DB.Where("client_id = ?", claims.ClientID).
		Order("created_at desc").Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch feature requests",
		})
	}

	return c.JSON(requests)
}

// ListFeatureRequests lists all feature requests for the admin.
func ListFeatureRequests(c *fiber.Ctx) error {
	var requests []model.FeatureRequest
	query := database.DB.Preload("Client").Preload("Subscription")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at desc").Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch feature requests",
		})
	}

	return c.JSON(requests)
}

// ApproveFeatureRequest consumes one feature from the subscription
// quota. When the quota is exhausted the request is approved as
// billable and an additional-feature invoice is issued.
func ApproveFeatureRequest(c *fiber.Ctx) error {
	var request model.FeatureRequest
	if err := database.DB.Preload("Subscription").First(&request, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feature request not found",
		})
	}

	if request.Status != model.FeatureRequestStatusPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only pending requests can be approved",
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		sub := request.Subscription

		if sub.UsedFeatures < sub.TotalFeatures {
			if err := tx.Model(&model.Subscription{}).Where("id = ?", sub.ID).
				Update("used_features", gorm.Expr("used_features + 1")).Error; err != nil {
				return err
			}
			return tx.Model(&request).Update("status", model.FeatureRequestStatusApproved).Error
		}

		// Quota exhausted: approve as billable work.
		invoice, err := billingService.IssueAdditionalFeatureInvoice(tx, &sub, request.Title, additionalFeatureFee())
		if err != nil {
			return err
		}

		return tx.Model(&request).Updates(map[string]interface{}{
			"status":     model.FeatureRequestStatusApproved,
			"billable":   true,
			"invoice_id": invoice.ID,
		}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not approve feature request",
		})
	}

	notification := model.Notification{
		ClientID:  request.ClientID,
		Title:     "Feature request approved",
		Message:   "Your feature request \"" + request.Title + "\" has been approved.",
		Type:      model.NotificationTypeFeature,
		ProjectID: &request.Subscription.ProjectID,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("Could not create feature approval notification: %v", err)
	}

	database.DB.First(&request, request.ID)

	return c.JSON(fiber.Map{
		"message": "Feature request approved",
		"request": request,
	})
}

// UpdateFeatureRequestStatus rejects or completes a request.
func UpdateFeatureRequestStatus(c *fiber.Ctx) error {
	var request model.FeatureRequest
	if err := database.DB.First(&request, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feature request not found",
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

	switch model.FeatureRequestStatus(input.Status) {
	case model.FeatureRequestStatusRejected, model.FeatureRequestStatusCompleted:
		// valid transitions; approval goes through ApproveFeatureRequest
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
		})
	}

	if err := database.DB.Model(&request).Update("status", input.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update feature request",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Feature request updated",
		"request": request,
	})
}

func additionalFeatureFee() float64 {
	var setting model.Setting
	if err := database.DB.Where("key = ?", model.SettingAdditionalFeatureFee).First(&setting).Error; err != nil {
		return 1500
	}
	fee, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil || fee <= 0 {
		return 1500
	}
	return fee
}
