package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
)

type SettingInput struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// ListSettings returns all key-value settings for the admin panel.
func ListSettings(c *fiber.Ctx) error {
	var settings []model.Setting
	if err := database.DB.Order("key").Find(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch settings",
		})
	}

	return c.JSON(settings)
}

// UpsertSetting creates or updates a setting by key.
func UpsertSetting(c *fiber.Ctx) error {
	input := new(SettingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Key is required",
		})
	}

	setting := model.Setting{Key: input.Key, Value: input.Value}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save setting",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Setting saved successfully",
		"setting": setting,
	})
}
