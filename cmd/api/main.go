package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"devkraft_backend/internal/controller"
	"devkraft_backend/internal/middleware"
	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/billing"
	"devkraft_backend/pkg/consult"
	"devkraft_backend/pkg/cron"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/email"
	"devkraft_backend/pkg/seed"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/client/login", controller.ClientLogin)
	auth.Post("/admin/login", controller.AdminLogin)

	// Public marketing-site routes
	api.Get("/packages", controller.ListPackages)
	api.Get("/case-studies", controller.ListCaseStudies)
	api.Get("/case-studies/:slug", controller.GetCaseStudyBySlug)
	api.Post("/newsletter/subscribe", controller.AddSubscriber)

	// Intake wizard
	api.Get("/intake/config", controller.GetIntakeConfig)
	api.Post("/intake", controller.SubmitIntake)
	api.Post("/consultation", controller.Consult)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Client portal routes
	projects := protected.Group("/projects")
	projects.Get("/my", controller.ListMyProjects)
	projects.Get("/:id", middleware.CheckProjectOwnership(), controller.GetProject)
	projects.Post("/:id/accept", middleware.CheckProjectOwnership(), controller.AcceptProposal)

	protected.Get("/subscriptions/my", controller.GetMySubscriptions)
	protected.Get("/invoices/my", controller.GetMyInvoices)
	protected.Post("/invoices/:id/checkout", controller.CreateInvoiceCheckout)
	protected.Get("/notifications/my", controller.GetMyNotifications)

	featureRequests := protected.Group("/feature-requests")
	featureRequests.Post("/", controller.CreateFeatureRequest)
	featureRequests.Get("/my", controller.GetMyFeatureRequests)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminOnly())
	admin.Get("/dashboard/stats", controller.GetDashboardStats)

	admin.Get("/projects", controller.ListProjects)
	admin.Put("/projects/:id/status", controller.UpdateProjectStatus)
	admin.Put("/projects/:id/proposal", controller.SendProposal)

	admin.Get("/subscriptions", controller.ListSubscriptions)
	admin.Put("/subscriptions/:id", controller.UpdateSubscription)
	admin.Put("/subscriptions/:id/status", controller.UpdateSubscriptionStatus)

	admin.Get("/invoices", controller.ListInvoices)
	admin.Post("/invoices/:id/send", controller.SendInvoice)
	admin.Post("/invoices/:id/mark-paid", controller.MarkInvoicePaid)

	admin.Get("/feature-requests", controller.ListFeatureRequests)
	admin.Post("/feature-requests/:id/approve", controller.ApproveFeatureRequest)
	admin.Put("/feature-requests/:id/status", controller.UpdateFeatureRequestStatus)

	admin.Get("/settings", controller.ListSettings)
	admin.Put("/settings", controller.UpsertSetting)

	admin.Get("/case-studies", controller.AdminListCaseStudies)
	admin.Post("/case-studies", controller.CreateCaseStudy)
	admin.Put("/case-studies/:id", controller.UpdateCaseStudy)
	admin.Delete("/case-studies/:id", controller.DeleteCaseStudy)

	admin.Post("/uploads/branding", controller.UploadBrandingAsset)
	admin.Delete("/uploads/branding", controller.DeleteBrandingAsset)

	admin.Get("/newsletter/subscribers", controller.GetSubscribers)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}

	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		from := os.Getenv("EMAIL_FROM")
		if from == "" {
			from = "DevKraft <noreply@devkraft.dk>"
		}
		if err := email.InitEmailService(apiKey, from); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
	} else {
		log.Printf("RESEND_API_KEY not set, email sending disabled")
	}

	consultURL := os.Getenv("CONSULT_API_URL")
	if consultURL == "" {
		consultURL = "https://api.x.ai/v1/chat/completions"
	}
	consultModel := os.Getenv("CONSULT_MODEL")
	if consultModel == "" {
		consultModel = "grok-2-latest"
	}
	consult.InitConsultService(consultURL, os.Getenv("CONSULT_API_KEY"), consultModel)

	billingService := billing.NewService()

	controller.InitAuthController()
	controller.InitIntakeController()
	controller.InitProjectController(billingService)
	controller.InitSubscriptionController()
	controller.InitInvoiceController()
	controller.InitFeatureRequestController()
	controller.InitConsultationController()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(dbURL)
	err := database.MigrateDatabase(
		&model.Client{},
		&model.AdminUser{},
		&model.Project{},
		&model.Subscription{},
		&model.Invoice{},
		&model.FeatureRequest{},
		&model.Notification{},
		&model.Setting{},
		&model.Package{},
		&model.CaseStudy{},
		&model.NewsletterSubscriber{},
		&model.LoginHistory{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPackages(database.DB)
	seed.SeedSettings(database.DB)
	seed.SeedAdminUser(database.DB)

	cron.InitInvoiceOverdueCron()
	cron.InitBillingRenewalCron(billingService)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server is running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
