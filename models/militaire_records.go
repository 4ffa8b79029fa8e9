package models

import (
	"time"

	"gorm.io/gorm"
)

// Decoration is an award received by a Militaire
type Decoration struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	MilitaireID   string     `gorm:"type:uuid;not null;index" json:"militaireId"`
	Nom           string     `gorm:"not null" json:"nom"`
	DateObtention *time.Time `json:"dateObtention"`
	Motif         string     `gorm:"type:text" json:"motif"`
	Autorite      string     `json:"autorite"`
}

func (d *Decoration) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func (Decoration) TableName() string { return "decorations" }

// Notation is a yearly evaluation, scored out of 20
type Notation struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	MilitaireID  string  `gorm:"type:uuid;not null;index" json:"militaireId"`
	Annee        int     `gorm:"not null" json:"annee"`
	Note         float64 `gorm:"not null" json:"note"`
	Appreciation string  `gorm:"type:text" json:"appreciation"`
	Notateur     string  `json:"notateur"`
}

func (n *Notation) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.ID)
	return nil
}

func (Notation) TableName() string { return "notations" }

// StageMilitaire is a training course followed by a Militaire
type StageMilitaire struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	MilitaireID string     `gorm:"type:uuid;not null;index" json:"militaireId"`
	Intitule    string     `gorm:"not null" json:"intitule"`
	Lieu        string     `json:"lieu"`
	DateDebut   *time.Time `json:"dateDebut"`
	DateFin     *time.Time `json:"dateFin"`
	Resultat    string     `json:"resultat"`
}

func (s *StageMilitaire) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (StageMilitaire) TableName() string { return "stages_militaires" }

// SituationHistorique records one situation transition of a Militaire
type SituationHistorique struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	MilitaireID       string     `gorm:"type:uuid;not null;index" json:"militaireId"`
	AncienneSituation Situation  `json:"ancienneSituation"`
	NouvelleSituation Situation  `gorm:"not null" json:"nouvelleSituation"`
	Motif             string     `gorm:"type:text" json:"motif"`
	DateDebut         *time.Time `json:"dateDebut"`
	DateFin           *time.Time `json:"dateFin"`
}

func (s *SituationHistorique) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (SituationHistorique) TableName() string { return "situation_historiques" }
