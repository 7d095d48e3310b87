package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"devkraft_backend/pkg/consult"
)

type ConsultationInput struct {
	Messages       []consult.Message      `json:"messages"`
	ProjectContext consult.ProjectContext `json:"projectContext"`
}

func InitConsultationController() {}

// Consult forwards a chat turn to the external consultation model. On
// any provider failure it answers with a locally built summary instead,
// so the intake wizard never blocks on the provider.
func Consult(c *fiber.Ctx) error {
	if !aiConsultationEnabled() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "AI consultation is not available",
		})
	}

	input := new(ConsultationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if len(input.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one message is required",
		})
	}

	if consult.GlobalConsultService != nil {
		reply, err := consult.GlobalConsultService.Complete(input.Messages, input.ProjectContext)
		if err == nil {
			return c.JSON(fiber.Map{
				"message": reply,
			})
		}
		log.Printf("Consultation provider error, serving fallback: %v", err)
	}

	return c.JSON(fiber.Map{
		"message":  consult.FallbackSummary(input.ProjectContext),
		"fallback": true,
	})
}
