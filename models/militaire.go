package models

import (
	"time"

	"gorm.io/gorm"
)

// Situation is the current administrative status of a Militaire
type Situation string

const (
	SituationPresent    Situation = "PRESENT"
	SituationMission    Situation = "MISSION"
	SituationConge      Situation = "CONGE"
	SituationPermission Situation = "PERMISSION"
	SituationMaladie    Situation = "MALADIE"
	SituationStage      Situation = "STAGE"
	SituationDetache    Situation = "DETACHE"
	SituationAbsent     Situation = "ABSENT"
)

// Situations lists every valid Situation
var Situations = []Situation{
	SituationPresent,
	SituationMission,
	SituationConge,
	SituationPermission,
	SituationMaladie,
	SituationStage,
	SituationDetache,
	SituationAbsent,
}

// IsValid reports whether s is a known situation
func (s Situation) IsValid() bool {
	for _, v := range Situations {
		if v == s {
			return true
		}
	}
	return false
}

// Militaire holds the military-specific detail of a Personnel
type Militaire struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PersonnelID   string        `gorm:"type:uuid;uniqueIndex;not null" json:"personnelId"`
	Matricule     string        `gorm:"uniqueIndex;not null" json:"matricule"`
	Grade         Grade         `gorm:"not null;index" json:"grade"`
	Categorie     Categorie     `gorm:"not null;index" json:"categorie"`
	SousCategorie SousCategorie `json:"sousCategorie"`
	Situation     Situation     `gorm:"not null;default:PRESENT;index" json:"situation"`
	GroupeSanguin string        `json:"groupeSanguin"`

	ArmeID       *string `gorm:"type:uuid;index" json:"armeId"`
	SpecialiteID *string `gorm:"type:uuid;index" json:"specialiteId"`
	FonctionID   *string `gorm:"type:uuid;index" json:"fonctionId"`
	PositionID   *string `gorm:"type:uuid;index" json:"positionId"`
	SousUniteID  *string `gorm:"type:uuid;index" json:"sousUniteId"`

	DateRecrutement       *time.Time `json:"dateRecrutement"`
	DateDernierePromotion *time.Time `json:"dateDernierePromotion"`

	Personnel  *Personnel  `gorm:"foreignKey:PersonnelID" json:"personnel,omitempty"`
	Arme       *Arme       `gorm:"foreignKey:ArmeID" json:"arme,omitempty"`
	Specialite *Specialite `gorm:"foreignKey:SpecialiteID" json:"specialite,omitempty"`
	Fonction   *Fonction   `gorm:"foreignKey:FonctionID" json:"fonction,omitempty"`
	Position   *Position   `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	SousUnite  *SousUnite  `gorm:"foreignKey:SousUniteID" json:"sousUnite,omitempty"`

	Decorations         []Decoration          `gorm:"foreignKey:MilitaireID" json:"decorations,omitempty"`
	Notations           []Notation            `gorm:"foreignKey:MilitaireID" json:"notations,omitempty"`
	StagesMilitaires    []StageMilitaire      `gorm:"foreignKey:MilitaireID" json:"stagesMilitaires,omitempty"`
	SituationHistorique []SituationHistorique `gorm:"foreignKey:MilitaireID" json:"situationHistorique,omitempty"`
}

func (m *Militaire) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (Militaire) TableName() string { return "militaires" }

func (*Militaire) TypePersonnel() TypePersonnel { return TypeMilitaire }

func (m *Militaire) SetPersonnelID(id string) { m.PersonnelID = id }

func (*Militaire) isPersonnelDetail() {}

// ApplyGrade sets the grade and the derived category in one step
func (m *Militaire) ApplyGrade(g Grade) error {
	cat, sous, err := CategorieForGrade(g)
	if err != nil {
		return err
	}
	m.Grade = g
	m.Categorie = cat
	m.SousCategorie = sous
	return nil
}
