package models

import "time"

// Artisan is the producer behind a product; BioStory holds the artisan's tale.
type Artisan struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	DisplayName  string    `gorm:"column:display_name;size:255;not null;uniqueIndex"`
	BioStory     string    `gorm:"column:bio_story;not null"`
	ProfileImage *string   `gorm:"column:profile_image"`
	Products     []Product `gorm:"foreignKey:ArtisanID;constraint:OnDelete:SET NULL"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Artisan) TableName() string { return "artisans" }
