package models

import (
	"time"

	"gorm.io/gorm"
)

// UniteType is the discriminant of a Unite. It selects which detail record exists.
type UniteType string

const (
	UniteTypeInstitut UniteType = "INSTITUT"
	UniteTypeDCT      UniteType = "DCT"
	UniteTypePC       UniteType = "PC"
)

// UniteTypes lists every valid UniteType
var UniteTypes = []UniteType{UniteTypeInstitut, UniteTypeDCT, UniteTypePC}

// IsValid reports whether t is one of the known unit types
func (t UniteType) IsValid() bool {
	switch t {
	case UniteTypeInstitut, UniteTypeDCT, UniteTypePC:
		return true
	}
	return false
}

// Unite is a top-level organizational unit
type Unite struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Nom         string    `gorm:"not null" json:"nom"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	Type        UniteType `gorm:"not null;index" json:"type"`
	DirecteurID *string   `gorm:"type:uuid;index" json:"directeurId"`

	// Exactly one of these is set, matching Type
	Institut *Institut `gorm:"foreignKey:UniteID" json:"institut"`
	DCT      *DCT      `gorm:"foreignKey:UniteID" json:"dct"`
	PC       *PC       `gorm:"foreignKey:UniteID" json:"pc"`

	Directeur  *User       `gorm:"foreignKey:DirecteurID" json:"directeur,omitempty"`
	SousUnites []SousUnite `gorm:"foreignKey:UniteID" json:"sousUnites,omitempty"`
	Personnels []Personnel `gorm:"foreignKey:UniteID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (u *Unite) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// TableName specifies the table name for Unite model
func (Unite) TableName() string {
	return "unites"
}

// Detail returns the detail record matching the unit type, or nil when not loaded
func (u *Unite) Detail() UniteDetail {
	switch u.Type {
	case UniteTypeInstitut:
		if u.Institut != nil {
			return u.Institut
		}
	case UniteTypeDCT:
		if u.DCT != nil {
			return u.DCT
		}
	case UniteTypePC:
		if u.PC != nil {
			return u.PC
		}
	}
	return nil
}

// UniteDetail is the closed set of per-type detail records of a Unite:
// *Institut, *DCT and *PC.
type UniteDetail interface {
	UniteType() UniteType
	SetUniteID(id string)
	isUniteDetail()
}

// Institut holds the fields specific to INSTITUT units
type Institut struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UniteID     string `gorm:"type:uuid;uniqueIndex;not null" json:"uniteId"`
	Emplacement string `json:"emplacement"`
	AnneeEtude  string `json:"anneeEtude"`
	Specialite  string `json:"specialite"`
}

func (i *Institut) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (Institut) TableName() string { return "instituts" }

func (*Institut) UniteType() UniteType { return UniteTypeInstitut }

func (i *Institut) SetUniteID(id string) { i.UniteID = id }

func (*Institut) isUniteDetail() {}

// DCT holds the fields specific to central directorates
type DCT struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UniteID string `gorm:"type:uuid;uniqueIndex;not null" json:"uniteId"`
	Domaine string `json:"domaine"`
	Niveau  string `json:"niveau"`
}

func (d *DCT) BeforeCreate(tx *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func (DCT) TableName() string { return "dcts" }

func (*DCT) UniteType() UniteType { return UniteTypeDCT }

func (d *DCT) SetUniteID(id string) { d.UniteID = id }

func (*DCT) isUniteDetail() {}

// PC holds the fields specific to command posts
type PC struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UniteID       string `gorm:"type:uuid;uniqueIndex;not null" json:"uniteId"`
	TypePC        string `gorm:"column:type_pc" json:"typePC"`
	ZoneOperation string `json:"zoneOperation"`
	Niveau        string `json:"niveau"`
}

func (p *PC) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (PC) TableName() string { return "pcs" }

func (*PC) UniteType() UniteType { return UniteTypePC }

func (p *PC) SetUniteID(id string) { p.UniteID = id }

func (*PC) isUniteDetail() {}
