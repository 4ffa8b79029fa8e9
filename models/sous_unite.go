package models

import (
	"time"

	"gorm.io/gorm"
)

// SousUnite is a sub-unit of a Unite holding military personnel
type SousUnite struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Nom         string `gorm:"not null" json:"nom"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Description string `gorm:"type:text" json:"description"`
	UniteID     string `gorm:"type:uuid;not null;index" json:"uniteId"`

	Unite *Unite `gorm:"foreignKey:UniteID" json:"unite,omitempty"`
}

// BeforeCreate hook to generate UUID
func (s *SousUnite) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// TableName specifies the table name for SousUnite model
func (SousUnite) TableName() string {
	return "sous_unites"
}
