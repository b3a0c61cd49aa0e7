package models

import "time"

// SiteSettings is a singleton row controlling client branding.
type SiteSettings struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LogoURL        *string   `gorm:"column:logo_url;type:text" json:"logoUrl"`
	PrimaryColor   string    `gorm:"column:primary_color;size:20;not null" json:"primaryColor"`
	SecondaryColor string    `gorm:"column:secondary_color;size:20;not null" json:"secondaryColor"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}
