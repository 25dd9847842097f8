package models

import "time"

// Region is an Indian state used to group and filter the catalog.
type Region struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;size:100;not null;uniqueIndex"`
	Slug        string    `gorm:"column:slug;size:100;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null"`
	Products    []Product `gorm:"foreignKey:RegionID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Region) TableName() string { return "regions" }
