package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/email"
	"devkraft_backend/pkg/intake"
	"devkraft_backend/pkg/packages"
	"devkraft_backend/pkg/utils/pin"
)

func InitIntakeController() {}

// GetIntakeConfig tells the wizard how many steps to render and in what
// order, based on the AI consultation flag.
func GetIntakeConfig(c *fiber.Ctx) error {
	aiEnabled := aiConsultationEnabled()

	return c.JSON(fiber.Map{
		"ai_enabled": aiEnabled,
		"step_count": intake.StepCount(aiEnabled),
		"steps":      intake.Steps(aiEnabled),
	})
}

// SubmitIntake receives the completed wizard form: it re-validates every
// step, finds or creates the client by email, and creates the project.
// A freshly created client gets a PIN, returned exactly once in the
// response and sent in the welcome email.
func SubmitIntake(c *fiber.Ctx) error {
	form := new(intake.Form)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	aiEnabled := aiConsultationEnabled()
	if err := intake.Validate(aiEnabled, *form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	db := database.GetDB()

	var client model.Client
	var plainPIN string
	newClient := false

	if err := db.Where("email = ?", form.Email).First(&client).Error; err != nil {
		generated, err := pin.Generate()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not generate access PIN",
			})
		}
		hashed, err := pin.Hash(generated)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not generate access PIN",
			})
		}

		client = model.Client{
			Email:       form.Email,
			PINHash:     hashed,
			ContactName: form.ContactName,
			CompanyName: form.CompanyName,
			Phone:       form.Phone,
		}
		if err := db.Create(&client).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not create client",
			})
		}

		plainPIN = generated
		newClient = true
	}

	projectName := form.ProjectName
	if projectName == "" {
		projectName = form.CompanyName + " project"
	}

	project := model.Project{
		ClientID:    client.ID,
		Name:        projectName,
		Type:        model.ProjectType(form.ProjectType),
		Description: intake.ComposeDescription(*form),
		Timeline:    form.Timeline,
		Status:      model.ProjectStatusPending,
	}
	if tier, ok := packages.GetTier(packages.PackageType(form.PackageType)); ok {
		// Selected tier is carried as the proposal starting point.
		project.ProposedPackageName = tier.Name
	}

	if err := db.Create(&project).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create project",
		})
	}

	notification := model.Notification{
		ClientID:  client.ID,
		Title:     "Project received",
		Message:   "We have received your project submission and will follow up with a proposal.",
		Type:      model.NotificationTypeIntake,
		ProjectID: &project.ID,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("Could not create intake notification: %v", err)
	}

	if newClient && email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendWelcomeEmail(client.Email, client.DisplayName(), plainPIN); err != nil {
			log.Printf("Could not send welcome email: %v", err)
		}
	}

	response := fiber.Map{
		"message": "Your project has been submitted successfully. We will be in touch soon.",
		"project": project,
		"client":  client.GetPublicProfile(),
	}
	if newClient {
		response["pin"] = plainPIN
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func aiConsultationEnabled() bool {
	var setting model.Setting
	if err := database.GetDB().Where("key = ?", model.SettingAIConsultationEnabled).First(&setting).Error; err != nil {
		return false
	}
	return setting.Value == "true"
}
