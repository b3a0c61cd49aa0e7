package models

import "time"

type Event struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"column:title;size:200;not null" json:"title"`
	Description string     `gorm:"column:description;type:text;not null" json:"description"`
	Content     string     `gorm:"column:content;type:text;not null" json:"content"` // rich-text body
	Date        time.Time  `gorm:"column:date;not null" json:"date"`
	EndDate     time.Time  `gorm:"column:end_date;not null" json:"endDate"`
	Location    string     `gorm:"column:location;size:200;not null" json:"location"`
	Images      StringList `gorm:"column:images;type:json" json:"images"`
	CreatedByID uint       `gorm:"column:created_by_id;not null;index" json:"createdById"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Event) TableName() string {
	return "events"
}
