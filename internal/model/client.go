package model

import (
	"strings"

	"gorm.io/gorm"
)

type Client struct {
	gorm.Model
	Email       string `json:"email" gorm:"uniqueIndex;not null"`
	PINHash     string `json:"-" gorm:"not null"`
	ContactName string `json:"contact_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`

	Projects      []Project      `json:"-"`
	Subscriptions []Subscription `json:"-"`
}

func (c *Client) DisplayName() string {
	if name := strings.TrimSpace(c.ContactName); name != "" {
		return name
	}
	return c.CompanyName
}

func (c *Client) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           c.ID,
		"email":        c.Email,
		"contact_name": c.ContactName,
		"company_name": c.CompanyName,
		"phone":        c.Phone,
		"created_at":   c.CreatedAt,
	}
}
