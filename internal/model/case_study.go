package model

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CaseStudy is a portfolio entry on the marketing site.
type CaseStudy struct {
	gorm.Model
	Title      string `json:"title" gorm:"not null"`
	Slug       string `json:"slug" gorm:"uniqueIndex;not null"`
	Summary    string `json:"summary"`
	Body       string `json:"body" gorm:"type:text"`
	Industry   string `json:"industry"`
	CoverImage string `json:"cover_image"`
	Published  bool   `json:"published" gorm:"default:false"`
}

// BeforeCreate fills the slug from the title when not provided.
func (cs *CaseStudy) BeforeCreate(tx *gorm.DB) error {
	if cs.Slug == "" {
		s := slug.Make(cs.Title)

		var count int64
		tx.Model(&CaseStudy{}).Where("slug = ?", s).Count(&count)
		if count > 0 {
			s = s + "-" + time.Now().Format("20060102150405")
		}

		cs.Slug = s
	}
	return nil
}
