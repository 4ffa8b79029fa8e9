package models

import (
	"time"

	"gorm.io/gorm"
)

// Fonction is a job title held by a Militaire
type Fonction struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Titre       string    `gorm:"uniqueIndex;not null" json:"titre"`
	Description string    `gorm:"type:text" json:"description"`
}

func (f *Fonction) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

func (Fonction) TableName() string { return "fonctions" }

// Arme is a military branch
type Arme struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Nom         string    `gorm:"uniqueIndex;not null" json:"nom"`
	Code        string    `json:"code"`
	Description string    `gorm:"type:text" json:"description"`

	Specialites []Specialite `gorm:"foreignKey:ArmeID" json:"specialites,omitempty"`
}

func (a *Arme) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (Arme) TableName() string { return "armes" }

// Specialite is a specialty within an Arme. Nom is unique per Arme.
type Specialite struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Nom         string    `gorm:"not null;uniqueIndex:idx_specialite_arme_nom" json:"nom"`
	ArmeID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_specialite_arme_nom" json:"armeId"`
	Description string    `gorm:"type:text" json:"description"`

	Arme *Arme `gorm:"foreignKey:ArmeID" json:"arme,omitempty"`
}

func (s *Specialite) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (Specialite) TableName() string { return "specialites" }

// Position is a posting state (e.g. active duty, reserve)
type Position struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Nom         string    `gorm:"uniqueIndex;not null" json:"nom"`
	Description string    `gorm:"type:text" json:"description"`
}

func (p *Position) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (Position) TableName() string { return "positions" }
