package controller

import (
	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/utils/jwt"
)

// GetMyNotifications returns the client's notifications, newest first.
func GetMyNotifications(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var notifications []model.Notification
	query := database.DB.Where("client_id = ?", claims.ClientID)

	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch notifications",
		})
	}

	return c.JSON(notifications)
}
