package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/utils/jwt"
)

func TestUpdateSubscriptionQuotaInvariant(t *testing.T) {
	db := setupTestDB(t, t.Name())
	_, sub := seedActiveSubscription(t, db, 24, 20)

	app := fiber.New()
	app.Put("/api/admin/subscriptions/:id", asUser(1, jwt.RoleAdmin), UpdateSubscription)

	target := fmt.Sprintf("/api/admin/subscriptions/%d", sub.ID)

	// Shrinking the total below the used counter is rejected.
	resp, err := app.Test(jsonRequest(t, "PUT", target, fiber.Map{"total_features": 10}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("quota shrink accepted: got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(t, "PUT", target, fiber.Map{
		"total_features": 30,
		"monthly_fee":    1100,
	}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var updated model.Subscription
	db.First(&updated, sub.ID)
	if updated.TotalFeatures != 30 || updated.MonthlyFee != 1100 {
		t.Fatalf("updates not applied: %+v", updated)
	}
	if updated.UsedFeatures != 20 {
		t.Fatalf("untouched field changed: used features %d", updated.UsedFeatures)
	}
}

func TestUpdateSubscriptionInvalidCycle(t *testing.T) {
	db := setupTestDB(t, t.Name())
	_, sub := seedActiveSubscription(t, db, 24, 0)

	app := fiber.New()
	app.Put("/api/admin/subscriptions/:id", asUser(1, jwt.RoleAdmin), UpdateSubscription)

	resp, err := app.Test(jsonRequest(t, "PUT", fmt.Sprintf("/api/admin/subscriptions/%d", sub.ID), fiber.Map{
		"billing_cycle": "weekly",
	}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid cycle accepted: got %d", resp.StatusCode)
	}
}

func TestUpdateSubscriptionStatus(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, sub := seedActiveSubscription(t, db, 24, 0)

	app := fiber.New()
	app.Put("/api/admin/subscriptions/:id/status", asUser(1, jwt.RoleAdmin), UpdateSubscriptionStatus)

	target := fmt.Sprintf("/api/admin/subscriptions/%d/status", sub.ID)

	resp, err := app.Test(jsonRequest(t, "PUT", target, fiber.Map{"status": "expired"}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid status accepted: got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(t, "PUT", target, fiber.Map{"status": "pending_cancellation"}))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var updated model.Subscription
	db.First(&updated, sub.ID)
	if updated.Status != model.SubscriptionStatusPendingCancellation {
		t.Fatalf("status not updated: %s", updated.Status)
	}

	var notifCount int64
	db.Model(&model.Notification{}).Where("client_id = ?", client.ID).Count(&notifCount)
	if notifCount != 1 {
		t.Fatalf("expected status notification, got %d", notifCount)
	}
}

func TestGetMySubscriptionsScopedToClient(t *testing.T) {
	db := setupTestDB(t, t.Name())
	client, _ := seedActiveSubscription(t, db, 24, 0)

	other := model.Client{Email: "other@example.com", PINHash: "hash"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other: %v", err)
	}
	otherProject := model.Project{ClientID: other.ID, Name: "Other Project"}
	if err := db.Create(&otherProject).Error; err != nil {
		t.Fatalf("seed other project: %v", err)
	}
	if err := db.Create(&model.Subscription{
		ClientID:     other.ID,
		ProjectID:    otherProject.ID,
		PackageName:  "Small",
		BillingCycle: model.BillingCycleMonthly,
		Status:       model.SubscriptionStatusActive,
	}).Error; err != nil {
		t.Fatalf("seed other subscription: %v", err)
	}

	app := fiber.New()
	app.Get("/api/subscriptions/my", asUser(client.ID, jwt.RoleClient), GetMySubscriptions)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/subscriptions/my", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var subs []model.Subscription
	decodeBodyInto(t, resp, &subs)
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}
	if subs[0].ClientID != client.ID {
		t.Fatalf("leaked another client's subscription")
	}
}
