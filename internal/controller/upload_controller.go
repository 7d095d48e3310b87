package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"devkraft_backend/pkg/utils/storage"
	"devkraft_backend/pkg/utils/validation"
)

// UploadBrandingAsset stores a branding image (logo, case-study cover)
// in object storage and returns its public URL.
func UploadBrandingAsset(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	category := c.FormValue("category")
	if category == "" {
		category = "branding"
	}

	url, err := storage.UploadAsset(storage.UploadAssetConfig{
		File:     file,
		Category: category,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Could not upload asset: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Asset uploaded successfully",
		"url":     url,
	})
}

// DeleteBrandingAsset removes a previously uploaded asset by URL.
func DeleteBrandingAsset(c *fiber.Ctx) error {
	input := struct {
		URL string `json:"url"`
	}{}
	if err := c.BodyParser(&input); err != nil || input.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Asset URL is required",
		})
	}

	if err := storage.DeleteAsset(input.URL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Could not delete asset: %v", err),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
