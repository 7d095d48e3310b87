package controller

import (
	"net/mail"

	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
)

type NewsletterSubscriptionInput struct {
	Name   string `json:"name"`
	Email  string `json:"email" validate:"required,email"`
	Source string `json:"source"`
}

// AddSubscriber signs a visitor up for the agency newsletter.
func AddSubscriber(c *fiber.Ctx) error {
	input := new(NewsletterSubscriptionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email address",
		})
	}

	source := input.Source
	if source == "" {
		source = "landing page"
	}

	subscriber := model.NewsletterSubscriber{
		Name:   input.Name,
		Email:  input.Email,
		Source: source,
	}

	result := database.DB.FirstOrCreate(&subscriber, model.NewsletterSubscriber{Email: input.Email})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save subscription",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "You are subscribed to the DevKraft newsletter.",
	})
}

// GetSubscribers lists newsletter subscribers for the admin.
func GetSubscribers(c *fiber.Ctx) error {
	var subscribers []model.NewsletterSubscriber
	if err := database.DB.Order("subscribed_at desc").Find(&subscribers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscribers",
		})
	}

	return c.JSON(subscribers)
}
