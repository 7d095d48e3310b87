package model

import "gorm.io/gorm"

// Setting is a key-value row for runtime configuration flags.
type Setting struct {
	gorm.Model
	Key   string `json:"key" gorm:"uniqueIndex;not null"`
	Value string `json:"value"`
}

// Setting keys in use.
const (
	SettingAIConsultationEnabled = "ai_consultation_enabled"
	SettingAdditionalFeatureFee  = "additional_feature_fee"
)
