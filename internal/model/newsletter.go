package model

import "time"

type NewsletterSubscriber struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:255"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Source       string    `gorm:"size:50"` // landing page, blog, footer form
	SubscribedAt time.Time `gorm:"autoCreateTime"`
}

func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
