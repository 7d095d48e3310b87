package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/billing"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/email"
	"devkraft_backend/pkg/utils/jwt"
)

var billingService *billing.Service

func InitProjectController(svc *billing.Service) {
	billingService = svc
}

type ProposalInput struct {
	PackageName      string  `json:"package_name" validate:"required"`
	OneTimeFee       float64 `json:"one_time_fee"`
	MonthlyFee       float64 `json:"monthly_fee"`
	FeatureCount     int     `json:"feature_count"`
	IntegrationCount int     `json:"integration_count"`
	BillingCycle     string  `json:"billing_cycle"`
}

type ProjectStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// ListMyProjects returns the authenticated client's projects.
func ListMyProjects(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var projects []model.Project
	query := database.GetDB().Where("client_id = ?", claims.ClientID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at desc").Find(&projects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch projects",
		})
	}

	return c.JSON(projects)
}

// GetProject returns one project; ownership is enforced by middleware.
func GetProject(c *fiber.Ctx) error {
	var project model.Project
	if err := database.GetDB().First(&project, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	return c.JSON(project)
}

// ListProjects returns all projects for the admin dashboard.
func ListProjects(c *fiber.Ctx) error {
	var projects []model.Project
	query := database.GetDB().Preload("Client")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	if err := query.Order("created_at desc").Find(&projects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch projects",
		})
	}

	return c.JSON(projects)
}

// UpdateProjectStatus lets an admin move a project between workflow
// states (in_progress, completed, on_hold, cancelled, ...).
func UpdateProjectStatus(c *fiber.Ctx) error {
	var project model.Project
	if err := database.GetDB().First(&project, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	input := new(ProjectStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	switch model.ProjectStatus(input.Status) {
	case model.ProjectStatusPending,
		model.ProjectStatusProposalSent,
		model.ProjectStatusProposalAccepted,
		model.ProjectStatusInProgress,
		model.ProjectStatusCompleted,
		model.ProjectStatusOnHold,
		model.ProjectStatusCancelled:
		// valid
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
		})
	}

	if err := database.GetDB().Model(&project).Update("status", input.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update project status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Project status updated successfully",
		"project": project,
	})
}

// SendProposal attaches a priced package to a pending project and marks
// the proposal as sent.
func SendProposal(c *fiber.Ctx) error {
	var project model.Project
	if err := database.GetDB().Preload("Client").First(&project, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	input := new(ProposalInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	cycle := model.BillingCycle(input.BillingCycle)
	if input.BillingCycle != "" && !cycle.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid billing cycle",
		})
	}

	now := time.Now()
	updates := map[string]interface{}{
		"proposed_package_name":      input.PackageName,
		"proposed_one_time_fee":      input.OneTimeFee,
		"proposed_monthly_fee":       input.MonthlyFee,
		"proposed_feature_count":     input.FeatureCount,
		"proposed_integration_count": input.IntegrationCount,
		"proposed_billing_cycle":     input.BillingCycle,
		"status":                     model.ProjectStatusProposalSent,
		"proposal_sent_at":           now,
	}

	if err := database.GetDB().Model(&project).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save proposal",
		})
	}

	notification := model.Notification{
		ClientID:  project.ClientID,
		Title:     "Proposal ready",
		Message:   "A proposal for \"" + project.Name + "\" is ready for your review.",
		Type:      model.NotificationTypeProposal,
		ProjectID: &project.ID,
	}
	if err := database.GetDB().Create(&notification).Error; err != nil {
		log.Printf("Could not create proposal notification: %v", err)
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendProposalSentEmail(
			project.Client.Email,
			project.Client.DisplayName(),
			project.Name,
			input.PackageName,
			input.OneTimeFee,
			input.MonthlyFee,
		)
		if err != nil {
			log.Printf("Could not send proposal email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Proposal sent successfully",
		"project": project,
	})
}

// AcceptProposal runs the acceptance flow: subscription creation, the
// one-time invoice when a setup fee applies, and the client
// notification, all in one transaction. Retries are idempotent.
func AcceptProposal(c *fiber.Ctx) error {
	var project model.Project
	if err := database.GetDB().Preload("Client").First(&project, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	result, err := billingService.AcceptProposal(database.GetDB(), project.ID)
	if err != nil {
		if errors.Is(err, billing.ErrProposalNotSent) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Project has no proposal awaiting acceptance",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not accept proposal",
		})
	}

	if !result.AlreadyDone && email.GlobalEmailService != nil {
		var nextBilling time.Time
		if result.Subscription.NextBillingDate != nil {
			nextBilling = *result.Subscription.NextBillingDate
		}
		err := email.GlobalEmailService.SendProposalAcceptedEmail(
			project.Client.Email,
			project.Client.DisplayName(),
			project.Name,
			result.Subscription.PackageName,
			string(result.Subscription.BillingCycle),
			nextBilling,
		)
		if err != nil {
			log.Printf("Could not send acceptance email: %v", err)
		}
	}

	return c.JSON(result)
}
