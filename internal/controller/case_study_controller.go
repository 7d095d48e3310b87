package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
)

type CaseStudyInput struct {
	Title      string `json:"title" validate:"required"`
	Summary    string `json:"summary"`
	Body       string `json:"body"`
	Industry   string `json:"industry"`
	CoverImage string `json:"cover_image"`
	Published  *bool  `json:"published"`
}

// ListCaseStudies returns published portfolio entries for the
// marketing site.
func ListCaseStudies(c *fiber.Ctx) error {
	var studies []model.CaseStudy
	query := database.DB.Where("published = ?", true)

	if industry := c.Query("industry"); industry != "" {
		query = query.Where("industry = ?", industry)
	}

	if err := query.Order("created_at desc").Find(&studies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch case studies",
		})
	}

	return c.JSON(studies)
}

// GetCaseStudyBySlug returns one published case study.
func GetCaseStudyBySlug(c *fiber.Ctx) error {
	var study model.CaseStudy
	if err := database.DB.Where("slug = ? AND published = ?", c.Params("slug"), true).
		First(&study).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Case study not found",
		})
	}

	return c.JSON(study)
}

// AdminListCaseStudies returns all entries, drafts included.
func AdminListCaseStudies(c *fiber.Ctx) error {
	var studies []model.CaseStudy
	if err := database.DB.Order("created_at desc").Find(&studies).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch case studies",
		})
	}

	return c.JSON(studies)
}

// CreateCaseStudy adds a portfolio entry; the slug is derived from the
// title.
func CreateCaseStudy(c *fiber.Ctx) error {
	input := new(CaseStudyInput)
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

	study := model.CaseStudy{
		Title:      input.Title,
		Summary:    input.Summary,
		Body:       input.Body,
		Industry:   input.Industry,
		CoverImage: input.CoverImage,
	}
	if input.Published != nil {
		study.Published = *input.Published
	}

	if err := database.DB.Create(&study).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create case study",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Case study created successfully",
		"case_study": study,
	})
}

// UpdateCaseStudy edits an entry; a title change regenerates the slug.
func UpdateCaseStudy(c *fiber.Ctx) error {
	var study model.CaseStudy
	if err := database.DB.First(&study, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Case study not found",
		})
	}

	input := new(CaseStudyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	updates := map[string]interface{}{
		"summary":     input.Summary,
		"body":        input.Body,
		"industry":    input.Industry,
		"cover_image": input.CoverImage,
	}
	if input.Title != "" && input.Title != study.Title {
		updates["title"] = input.Title
		updates["slug"] = slug.Make(input.Title)
	}
	if input.Published != nil {
		updates["published"] = *input.Published
	}

	if err := database.DB.Model(&study).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update case study",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Case study updated successfully",
		"case_study": study,
	})
}

// DeleteCaseStudy removes an entry.
func DeleteCaseStudy(c *fiber.Ctx) error {
	var study model.CaseStudy
	if err := database.DB.First(&study, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Case study not found",
		})
	}

	if err := database.DB.Delete(&study).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete case study",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
