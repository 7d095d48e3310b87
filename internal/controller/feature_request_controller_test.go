package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/utils/jwt"
)

func seedActiveSubscription(t *testing.T, db *gorm.DB, totalFeatures, usedFeatures int) (*model.Client, *model.Subscription) {
	client := model.Client{Email: "mette@example.com", PINHash: "hash"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	project := model.Project{ClientID: client.ID, Name: "Salon Booking", Status: model.ProjectStatusInProgress}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	sub := model.Subscription{
		ClientID:      client.ID,
		ProjectID:     project.ID,
		PackageName:   "Medium",
		MonthlyFee:    900,
		TotalFeatures: totalFeatures,
		UsedFeatures:  usedFeatures,
		BillingCycle:  model.BillingCycleMonthly,
		Status:        model.SubscriptionStatusActive,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return &client, &sub
}

func TestCreateFeatureRequest(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, sub := seedActiveSubscription(t, db, 24, 0)

	app := fiber.New()
	app.Post("/api/feature-requests", asUser(client.ID, jwt.RoleClient), CreateFeatureRequest)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/feature-requests", fiber.Map{
		"subscription_id": sub.ID,
		"title":           "Export to Excel",
		"description":     "Booking list export for accounting",
	}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var request model.FeatureRequest
	if err := db.Where("subscription_id = ?", sub.ID).First(&request).Error; err != nil {
		t.Fatalf("request not created: %v", err)
	}
	if request.Status != model.FeatureRequestStatusPending {
		t.Fatalf("status: got %s", request.Status)
	}
}

func TestCreateFeatureRequestForeignSubscription(t *testing.T) {
	db := setupTestDB(t, t.Name())
	_, sub := seedActiveSubscription(t, db, 24, 0)

	intruder := model.Client{Email: "other@example.com", PINHash: "hash"}
	if err := db.Create(&intruder).Error; err != nil {
		t.Fatalf("seed intruder: %v", err)
	}

	app := fiber.New()
	app.Post("/api/feature-requests", asUser(intruder.ID, jwt.RoleClient), CreateFeatureRequest)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/feature-requests", fiber.Map{
		"subscription_id": sub.ID,
		"title":           "Export to Excel",
	}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", resp.StatusCode)
	}
}

func TestCreateFeatureRequestInactiveSubscription(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, sub := seedActiveSubscription(t, db, 24, 0)
	if err := db.Model(sub).Update("status", model.SubscriptionStatusPaused).Error; err != nil {
		t.Fatalf("update: %v", err)
	}

	app := fiber.New()
	app.Post("/api/feature-requests", asUser(client.ID, jwt.RoleClient), CreateFeatureRequest)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/feature-requests", fiber.Map{
		"subscription_id": sub.ID,
		"title":           "Export to Excel",
	}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", resp.StatusCode)
	}
}

func TestApproveFeatureRequestWithinQuota(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, sub := seedActiveSubscription(t, db, 24, 3)

	request := model.FeatureRequest{
		SubscriptionID: sub.ID,
		ClientID:       client.ID,
		Title:          "Export to Excel",
		Status:         model.FeatureRequestStatusPending,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	app := fiber.New()
	app.Post("/api/admin/feature-requests/:id/approve", asUser(1, jwt.RoleAdmin), ApproveFeatureRequest)

	resp, err := app.Test(jsonRequest(t, "POST", fmt.Sprintf("/api/admin/feature-requests/%d/approve", request.ID), nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var updatedSub model.Subscription
	db.First(&updatedSub, sub.ID)
	if updatedSub.UsedFeatures != 4 {
		t.Fatalf("used features: got %d, want 4", updatedSub.UsedFeatures)
	}

	var updatedReq model.FeatureRequest
	db.First(&updatedReq, request.ID)
	if updatedReq.Status != model.FeatureRequestStatusApproved {
		t.Fatalf("request status: got %s", updatedReq.Status)
	}
	if updatedReq.Billable {
		t.Fatalf("in-quota approval should not be billable")
	}

	var invCount int64
	db.Model(&model.Invoice{}).Count(&invCount)
	if invCount != 0 {
		t.Fatalf("in-quota approval issued an invoice")
	}
}

func TestApproveFeatureRequestBeyondQuota(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, sub := seedActiveSubscription(t, db, 24, 24)

	if err := db.Create(&model.Setting{Key: model.SettingAdditionalFeatureFee, Value: "2000"}).Error; err != nil {
		t.Fatalf("seed setting: %v", err)
	}

	request := model.FeatureRequest{
		SubscriptionID: sub.ID,
		ClientID:       client.ID,
		Title:          "Export to Excel",
		Status:         model.FeatureRequestStatusPending,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	app := fiber.New()
	app.Post("/api/admin/feature-requests/:id/approve", asUser(1, jwt.RoleAdmin), ApproveFeatureRequest)

	resp, err := app.Test(jsonRequest(t, "POST", fmt.Sprintf("/api/admin/feature-requests/%d/approve", request.ID), nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var updatedReq model.FeatureRequest
	db.First(&updatedReq, request.ID)
	if !updatedReq.Billable {
		t.Fatalf("overage approval should be billable")
	}
	if updatedReq.InvoiceID == nil {
		t.Fatalf("overage approval should link an invoice")
	}

	var invoice model.Invoice
	if err := db.First(&invoice, *updatedReq.InvoiceID).Error; err != nil {
		t.Fatalf("invoice not found: %v", err)
	}
	if invoice.Type != model.InvoiceTypeAdditionalFeature {
		t.Fatalf("invoice type: got %s", invoice.Type)
	}
	if invoice.Amount != 2000 {
		t.Fatalf("invoice amount should use the configured fee, got %.2f", invoice.Amount)
	}

	// Quota counter stays at the cap.
	var updatedSub model.Subscription
	db.First(&updatedSub, sub.ID)
	if updatedSub.UsedFeatures != 24 {
		t.Fatalf("used features: got %d, want 24", updatedSub.UsedFeatures)
	}
}

func TestApproveFeatureRequestOnlyPending(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, sub := seedActiveSubscription(t, db, 24, 0)

	request := model.FeatureRequest{
		SubscriptionID: sub.ID,
		ClientID:       client.ID,
		Title:          "Export to Excel",
		Status:         model.FeatureRequestStatusApproved,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	app := fiber.New()
	app.Post("/api/admin/feature-requests/:id/approve", asUser(1, jwt.RoleAdmin), ApproveFeatureRequest)

	resp, err := app.Test(jsonRequest(t, "POST", fmt.Sprintf("/api/admin/feature-requests/%d/approve", request.ID), nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", resp.StatusCode)
	}
}
