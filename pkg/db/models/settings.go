package models

import "time"

// Settings holds the single-row storefront configuration.
type Settings struct {
	ID              int       `gorm:"column:id;primaryKey" json:"id"`
	CafeteriaName   string    `gorm:"column:cafeteria_name;not null" json:"cafeteria_name"`
	Tagline         string    `gorm:"column:tagline" json:"tagline"`
	HeroTitle       string    `gorm:"column:hero_title" json:"hero_title"`
	HeroDescription string    `gorm:"column:hero_description" json:"hero_description"`
	KasirWhatsapp   string    `gorm:"column:kasir_whatsapp" json:"kasir_whatsapp"`
	LogoURL         *string   `gorm:"column:logo_url" json:"logo_url,omitempty"`
	FooterText      string    `gorm:"column:footer_text" json:"footer_text"`
	ContactInfo     *string   `gorm:"column:contact_info" json:"contact_info,omitempty"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
