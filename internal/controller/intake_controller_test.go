package controller

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
)

func intakePayload() fiber.Map {
	return fiber.Map{
		"project_name": "Salon Booking",
		"project_type": "web_app",
		"package_type": "medium",
		"description":  "A booking platform for salons with calendar sync.",
		"timeline":     "1-3_months",
		"contact_name": "Mette Jensen",
		"email":        "mette@example.com",
		"company_name": "Salon Mette",
	}
}

func TestGetIntakeConfig(t *testing.T) {
	db := setupTestDB(t, t.Name())

	app := fiber.New()
	app.Get("/api/intake/config", GetIntakeConfig)

	// Without the setting the AI step is off.
	resp, err := app.Test(jsonRequest(t, "GET", "/api/intake/config", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body := decodeBody(t, resp)
	if body["ai_enabled"] != false {
		t.Fatalf("ai_enabled should default to false")
	}
	if body["step_count"] != float64(6) {
		t.Fatalf("step_count: got %v, want 6", body["step_count"])
	}

	if err := db.Create(&model.Setting{Key: model.SettingAIConsultationEnabled, Value: "true"}).Error; err != nil {
		t.Fatalf("seed setting: %v", err)
	}

	resp, err = app.Test(jsonRequest(t, "GET", "/api/intake/config", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body = decodeBody(t, resp)
	if body["ai_enabled"] != true {
		t.Fatalf("ai_enabled should be true when the setting is on")
	}
	if body["step_count"] != float64(7) {
		t.Fatalf("step_count: got %v, want 7", body["step_count"])
	}
}

func TestSubmitIntakeCreatesClientAndProject(t *testing.T) {
	db := setupTestDB(t, t.Name())

	app := fiber.New()
	app.Post("/api/intake", SubmitIntake)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/intake", intakePayload()))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)

	// A new client gets the PIN exactly once, in this response.
	pinValue, ok := body["pin"].(string)
	if !ok || len(pinValue) != 4 {
		t.Fatalf("expected a 4-digit pin in the response, got %v", body["pin"])
	}

	var client model.Client
	if err := db.Where("email = ?", "mette@example.com").First(&client).Error; err != nil {
		t.Fatalf("client not created: %v", err)
	}
	if client.PINHash == pinValue {
		t.Fatalf("PIN stored in plaintext")
	}

	var project model.Project
	if err := db.Where("client_id = ?", client.ID).First(&project).Error; err != nil {
		t.Fatalf("project not created: %v", err)
	}
	if project.Status != model.ProjectStatusPending {
		t.Fatalf("project status: got %s", project.Status)
	}
	if project.ProposedPackageName != "Medium" {
		t.Fatalf("selected package not carried, got %q", project.ProposedPackageName)
	}
	if !strings.Contains(project.Description, "--- AI Analysis ---") {
		t.Fatalf("description should embed the analysis block")
	}

	var notifCount int64
	db.Model(&model.Notification{}).Where("client_id = ?", client.ID).Count(&notifCount)
	if notifCount != 1 {
		t.Fatalf("expected intake notification, got %d", notifCount)
	}
}

func TestSubmitIntakeReusesExistingClient(t *testing.T) {
	db := setupTestDB(t, t.Name())

	app := fiber.New()
	app.Post("/api/intake", SubmitIntake)

	if _, err := app.Test(jsonRequest(t, "POST", "/api/intake", intakePayload())); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	second := intakePayload()
	second["project_name"] = "Inventory Tool"
	resp, err := app.Test(jsonRequest(t, "POST", "/api/intake", second))
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if _, hasPin := body["pin"]; hasPin {
		t.Fatalf("existing client should not receive a new PIN")
	}

	var clientCount, projectCount int64
	db.Model(&model.Client{}).Count(&clientCount)
	db.Model(&model.Project{}).Count(&projectCount)
	if clientCount != 1 {
		t.Fatalf("expected 1 client, got %d", clientCount)
	}
	if projectCount != 2 {
		t.Fatalf("expected 2 projects, got %d", projectCount)
	}
}

func TestSubmitIntakeRejectsIncompleteForm(t *testing.T) {
	setupTestDB(t, t.Name())

	app := fiber.New()
	app.Post("/api/intake", SubmitIntake)

	payload := intakePayload()
	payload["description"] = "too short"

	resp, err := app.Test(jsonRequest(t, "POST", "/api/intake", payload))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	errMsg, _ := body["error"].(string)
	if !strings.Contains(errMsg, "description") {
		t.Fatalf("error should name the failing step, got %q", errMsg)
	}
}
