package model

import "time"

type LoginHistory struct {
	ID        uint      `gorm:"primaryKey"`
	ClientID  uint      `gorm:"not null"`
	Role      string    `gorm:"size:20"` // client or admin
	Device    string    `gorm:"size:100"`
	IP        string    `gorm:"size:50"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
