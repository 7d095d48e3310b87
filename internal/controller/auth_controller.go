package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devkraft_backend/internal/model"
	"devkraft_backend/pkg/database"
	"devkraft_backend/pkg/utils/jwt"
	"devkraft_backend/pkg/utils/pin"
)

type ClientLoginInput struct {
	Email string `json:"email" validate:"required,email"`
	PIN   string `json:"pin" validate:"required,len=4"`
}

type AdminLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func InitAuthController() {}

// ClientLogin authenticates a portal client by email + 4-digit PIN.
func ClientLogin(c *fiber.Ctx) error {
	input := new(ClientLoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var client model.Client
	if err := database.GetDB().Where("email = ?", input.Email).First(&client).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !pin.Verify(client.PINHash, input.PIN) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := jwt.GenerateToken(client.ID, client.Email, jwt.RoleClient)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	recordLogin(client.ID, jwt.RoleClient, c)

	return c.JSON(fiber.Map{
		"token": token,
		"client": fiber.Map{
			"id":           client.ID,
			"email":        client.Email,
			"contact_name": client.ContactName,
			"company_name": client.CompanyName,
		},
	})
}

// AdminLogin authenticates an admin user by email + password.
func AdminLogin(c *fiber.Ctx) error {
	input := new(AdminLoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var admin model.AdminUser
	if err := database.GetDB().Where("email = ?", input.Email).First(&admin).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := jwt.GenerateToken(admin.ID, admin.Email, jwt.RoleAdmin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	recordLogin(admin.ID, jwt.RoleAdmin, c)

	return c.JSON(fiber.Map{
		"token": token,
		"admin": fiber.Map{
			"id":    admin.ID,
			"email": admin.Email,
			"name":  admin.Name,
		},
	})
}

// GetMe returns the authenticated client's profile.
func GetMe(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	if claims.Role == jwt.RoleAdmin {
		var admin model.AdminUser
		if err := database.GetDB().First(&admin, claims.ClientID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Admin not found",
			})
		}
		return c.JSON(fiber.Map{
			"admin": fiber.Map{
				"id":    admin.ID,
				"email": admin.Email,
				"name":  admin.Name,
			},
		})
	}

	var client model.Client
	if err := database.GetDB().First(&client, claims.ClientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch client",
		})
	}

	return c.JSON(fiber.Map{
		"client": client.GetPublicProfile(),
	})
}

func recordLogin(id uint, role string, c *fiber.Ctx) {
	entry := model.LoginHistory{
		ClientID: id,
		Role:     role,
		Device:   c.Get("User-Agent"),
		IP:       c.IP(),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		log.Printf("Could not record login for %s %d: %v", role, id, err)
	}
}
