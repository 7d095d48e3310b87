package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/billing"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/utils/jwt"
)

// setupTestDB points the package-global connection at an in-memory
// database for the duration of one test.
func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&model.Client{},
		&model.AdminUser{},
		&model.Project{},
		&model.Subscription{},
		&model.Invoice{},
		&model.FeatureRequest{},
		&model.Notification{},
		&model.Setting{},
		&model.LoginHistory{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	InitProjectController(&billing.Service{
		Now:  func() time.Time { return time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC) },
		Rand: rand.New(rand.NewSource(1)),
	})

	return db
}

// asUser injects claims the way the auth middleware would.
func asUser(clientID uint, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Claims{ClientID: clientID, Email: "test@example.com", Role: role})
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBodyInto(t *testing.T, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return out
}
