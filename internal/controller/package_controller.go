package controller

import (
	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
)

// ListPackages returns the priced package tiers shown on the pricing
// page and in the intake wizard.
func ListPackages(c *fiber.Ctx) error {
	var pkgs []model.Package
	if err := database.DB.Order("one_time_fee").Find(&pkgs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch packages",
		})
	}

	return c.JSON(pkgs)
}
