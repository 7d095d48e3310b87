package controller

import (
	"github.com/gofiber/fiber/v2"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
)

// DashboardStats aggregates the admin dashboard numbers.
type DashboardStats struct {
	ProjectsByStatus    map[string]int64 `json:"projects_by_status"`
	ActiveSubscriptions int64            `json:"active_subscriptions"`
	MonthlyRecurring    float64          `json:"monthly_recurring_revenue"`
	PaidTotal           float64          `json:"paid_total"`
	OutstandingTotal    float64          `json:"outstanding_total"`
	PendingIntakes      []model.Project  `json:"pending_intakes"`
}

// GetDashboardStats returns the aggregate view for the admin dashboard.
func GetDashboardStats(c *fiber.Ctx) error {
	stats := DashboardStats{
		ProjectsByStatus: map[string]int64{},
	}

	var statusCounts []struct {
		Status string
		Count  int64
	}
	err := database.DB.Model(&model.Project{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch project stats",
		})
	}
	for _, sc := range statusCounts {
		stats.ProjectsByStatus[sc.Status] = sc.Count
	}

	database.DB.Model(&model.Subscription{}).
		Where("status = ?", model.SubscriptionStatusActive).
		Count(&stats.ActiveSubscriptions)

	var mrr struct{ Total float64 }
	database.DB.Model(&model.Subscription{}).
		Select("COALESCE(SUM(monthly_fee), 0) as total").
		Where("status = ?", model.SubscriptionStatusActive).
		Scan(&mrr)
	stats.MonthlyRecurring = mrr.Total

	var paid struct{ Total float64 }
	database.DB.Model(&model.Invoice{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status = ?", model.InvoiceStatusPaid).
		Scan(&paid)
	stats.PaidTotal = paid.Total

	var outstanding struct{ Total float64 }
	database.DB.Model(&model.Invoice{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status IN ?", []model.InvoiceStatus{model.InvoiceStatusSent, model.InvoiceStatusOverdue}).
		Scan(&outstanding)
	stats.OutstandingTotal = outstanding.Total

	if err := database.DB.Where("status = ?", model.ProjectStatusPending).
		Order("created_at desc").Limit(10).
		Find(&stats.PendingIntakes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch pending intakes",
		})
	}

	return c.JSON(stats)
}
