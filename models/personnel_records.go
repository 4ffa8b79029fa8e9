package models

import (
	"time"

	"gorm.io/gorm"
)

// Diplome is a qualification held by a Personnel
type Diplome struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	PersonnelID   string `gorm:"type:uuid;not null;index" json:"personnelId"`
	Intitule      string `gorm:"not null" json:"intitule"`
	Etablissement string `json:"etablissement"`
	Annee         int    `json:"annee"`
	Niveau        string `json:"niveau"`
}

func (d *Diplome) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func (Diplome) TableName() string { return "diplomes" }

// Document is the metadata of an administrative document filed for a Personnel.
// File content is stored outside this service.
type Document struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	PersonnelID  string     `gorm:"type:uuid;not null;index" json:"personnelId"`
	Titre        string     `gorm:"not null" json:"titre"`
	TypeDocument string     `gorm:"index" json:"typeDocument"`
	Reference    string     `json:"reference"`
	DateDocument *time.Time `json:"dateDocument"`
	Description  string     `gorm:"type:text" json:"description"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func (Document) TableName() string { return "documents" }
