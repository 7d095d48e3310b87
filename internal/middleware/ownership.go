package middleware

import (
	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/utils/jwt"
)

// CheckProjectOwnership verifies the authenticated client owns the
// project in the :id param. Admin tokens pass through.
func CheckProjectOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		if claims.Role == jwt.RoleAdmin {
			return c.Next()
		}

		projectID := c.Params("id")

		var project model.Project
		if err := database.DB.First(&project, projectID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Project not found",
			})
		}

		if project.ClientID != claims.ClientID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this project",
			})
		}

		return c.Next()
	}
}

// CheckSubscriptionOwnership verifies the authenticated client owns the
// subscription in the :id param. Admin tokens pass through.
func CheckSubscriptionOwnership() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)
		if claims.Role == jwt.RoleAdmin {
			return c.Next()
		}

		subscriptionID := c.Params("id")

		var sub model.Subscription
		if err := database.DB.First(&sub, subscriptionID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Subscription not found",
			})
		}

		if sub.ClientID != claims.ClientID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You don't have permission to access this subscription",
			})
		}

		return c.Next()
	}
}
