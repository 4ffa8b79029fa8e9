package models

import (
	"time"

	"gorm.io/gorm"
)

// TypePersonnel is the discriminant of a Personnel record
type TypePersonnel string

const (
	TypeMilitaire       TypePersonnel = "MILITAIRE"
	TypeCivilProfesseur TypePersonnel = "CIVIL_PROFESSEUR"
	TypeCivilEtudiant   TypePersonnel = "CIVIL_ETUDIANT"
	TypeCivilEmploye    TypePersonnel = "CIVIL_EMPLOYE"
)

// TypesPersonnel lists every valid TypePersonnel
var TypesPersonnel = []TypePersonnel{TypeMilitaire, TypeCivilProfesseur, TypeCivilEtudiant, TypeCivilEmploye}

// IsValid reports whether t is one of the known personnel types
func (t TypePersonnel) IsValid() bool {
	switch t {
	case TypeMilitaire, TypeCivilProfesseur, TypeCivilEtudiant, TypeCivilEmploye:
		return true
	}
	return false
}

// Personnel is any person attached to a Unite
type Personnel struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Nom           string        `gorm:"not null;index" json:"nom"`
	Prenom        string        `gorm:"not null" json:"prenom"`
	NNI           string        `gorm:"column:nni;uniqueIndex;not null" json:"nni"` // National identification number
	TypePersonnel TypePersonnel `gorm:"not null;index" json:"typePersonnel"`
	UniteID       string        `gorm:"type:uuid;not null;index" json:"uniteId"`
	DateNaissance *time.Time    `json:"dateNaissance"`
	LieuNaissance string        `json:"lieuNaissance"`
	Sexe          string        `json:"sexe"`
	Telephone     string        `json:"telephone"`
	Email         string        `json:"email"`
	Adresse       string        `json:"adresse"`

	Unite *Unite `gorm:"foreignKey:UniteID" json:"unite,omitempty"`

	// Exactly one of these is set, matching TypePersonnel
	Militaire  *Militaire  `gorm:"foreignKey:PersonnelID" json:"militaire"`
	Professeur *Professeur `gorm:"foreignKey:PersonnelID" json:"professeur"`
	Etudiant   *Etudiant   `gorm:"foreignKey:PersonnelID" json:"etudiant"`
	Employe    *Employe    `gorm:"foreignKey:PersonnelID" json:"employe"`

	Documents []Document `gorm:"foreignKey:PersonnelID" json:"documents,omitempty"`
	Diplomes  []Diplome  `gorm:"foreignKey:PersonnelID" json:"diplomes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *Personnel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// TableName specifies the table name for Personnel model
func (Personnel) TableName() string {
	return "personnels"
}

// NomComplet returns "Prenom Nom"
func (p *Personnel) NomComplet() string {
	return p.Prenom + " " + p.Nom
}

// Detail returns the detail record matching the personnel type, or nil when not loaded
func (p *Personnel) Detail() PersonnelDetail {
	switch p.TypePersonnel {
	case TypeMilitaire:
		if p.Militaire != nil {
			return p.Militaire
		}
	case TypeCivilProfesseur:
		if p.Professeur != nil {
			return p.Professeur
		}
	case TypeCivilEtudiant:
		if p.Etudiant != nil {
			return p.Etudiant
		}
	case TypeCivilEmploye:
		if p.Employe != nil {
			return p.Employe
		}
	}
	return nil
}

// PersonnelDetail is the closed set of per-role detail records of a Personnel:
// *Militaire, *Professeur, *Etudiant and *Employe.
type PersonnelDetail interface {
	TypePersonnel() TypePersonnel
	SetPersonnelID(id string)
	isPersonnelDetail()
}

// Professeur holds the fields specific to civilian teaching staff
type Professeur struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PersonnelID     string     `gorm:"type:uuid;uniqueIndex;not null" json:"personnelId"`
	GradeAcademique string     `json:"gradeAcademique"`
	Specialite      string     `json:"specialite"`
	DateRecrutement *time.Time `json:"dateRecrutement"`
}

func (p *Professeur) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (Professeur) TableName() string { return "professeurs" }

func (*Professeur) TypePersonnel() TypePersonnel { return TypeCivilProfesseur }

func (p *Professeur) SetPersonnelID(id string) { p.PersonnelID = id }

func (*Professeur) isPersonnelDetail() {}

// Etudiant holds the fields specific to students
type Etudiant struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PersonnelID      string `gorm:"type:uuid;uniqueIndex;not null" json:"personnelId"`
	NumeroEtudiant   string `gorm:"index" json:"numeroEtudiant"`
	Niveau           string `json:"niveau"`
	Filiere          string `json:"filiere"`
	AnneeInscription string `json:"anneeInscription"`
}

func (e *Etudiant) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (Etudiant) TableName() string { return "etudiants" }

func (*Etudiant) TypePersonnel() TypePersonnel { return TypeCivilEtudiant }

func (e *Etudiant) SetPersonnelID(id string) { e.PersonnelID = id }

func (*Etudiant) isPersonnelDetail() {}

// Employe holds the fields specific to civilian employees
type Employe struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PersonnelID  string     `gorm:"type:uuid;uniqueIndex;not null" json:"personnelId"`
	Poste        string     `json:"poste"`
	Service      string     `json:"service"`
	DateEmbauche *time.Time `json:"dateEmbauche"`
}

func (e *Employe) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (Employe) TableName() string { return "employes" }

func (*Employe) TypePersonnel() TypePersonnel { return TypeCivilEmploye }

func (e *Employe) SetPersonnelID(id string) { e.PersonnelID = id }

func (*Employe) isPersonnelDetail() {}
