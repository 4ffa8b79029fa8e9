package services

import (
	"fmt"
	"strings"

	"personnel_app_go/models"

	"gorm.io/gorm"
)

// MilitaireQuery holds the listing options of military personnel
type MilitaireQuery struct {
	PageQuery
	Search      string
	Grade       string
	Categorie   string
	Situation   string
	UniteID     string
	SousUniteID string
}

func preloadMilitaireRefs(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Personnel").
		Preload("Personnel.Unite").
		Preload("Arme").
		Preload("Specialite").
		Preload("Fonction").
		Preload("Position").
		Preload("SousUnite")
}

// GetMilitaires returns one page of military personnel ordered by matricule
func GetMilitaires(db *gorm.DB, q MilitaireQuery) (*Page[models.Militaire], error) {
	var grade models.Grade
	if q.Grade != "" {
		grade = models.Grade(strings.ToUpper(q.Grade))
		if !grade.IsValid() {
			return nil, ValidationError("Grade invalide: %q", q.Grade)
		}
	}
	var categorie models.Categorie
	if q.Categorie != "" {
		categorie = models.Categorie(strings.ToUpper(q.Categorie))
		if !models.IsValidCategorie(categorie) {
			return nil, ValidationError("Catégorie invalide: %q", q.Categorie)
		}
	}
	var situation models.Situation
	if q.Situation != "" {
		s, err := parseSituation(q.Situation)
		if err != nil {
			return nil, err
		}
		situation = s
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		if grade != "" {
			tx = tx.Where("militaires.grade = ?", grade)
		}
		if categorie != "" {
			tx = tx.Where("militaires.categorie = ?", categorie)
		}
		if situation != "" {
			tx = tx.Where("militaires.situation = ?", situation)
		}
		if q.SousUniteID != "" {
			tx = tx.Where("militaires.sous_unite_id = ?", q.SousUniteID)
		}
		if q.UniteID != "" {
			members := tx.Session(&gorm.Session{NewDB: true}).Model(&models.Personnel{}).
				Select("id").Where("unite_id = ?", q.UniteID)
			tx = tx.Where("militaires.personnel_id IN (?)", members)
		}
		if q.Search != "" {
			p := likePattern(q.Search)
			named := tx.Session(&gorm.Session{NewDB: true}).Model(&models.Personnel{}).
				Select("id").
				Where("(LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(nni) LIKE ?)", p, p, p)
			tx = tx.Where("(militaires.personnel_id IN (?) OR LOWER(militaires.matricule) LIKE ?)", named, p)
		}
		return tx
	}

	return paginate[models.Militaire](db, q.PageQuery, "militaires.matricule ASC", filter, preloadMilitaireRefs)
}

// GetMilitaireByID retrieves a militaire with references and history collections
func GetMilitaireByID(db *gorm.DB, id string) (*models.Militaire, error) {
	var m models.Militaire
	err := preloadMilitaireRefs(db).
		Preload("Decorations", func(tx *gorm.DB) *gorm.DB { return tx.Order("date_obtention DESC") }).
		Preload("Notations", func(tx *gorm.DB) *gorm.DB { return tx.Order("annee DESC") }).
		Preload("StagesMilitaires", func(tx *gorm.DB) *gorm.DB { return tx.Order("date_debut DESC") }).
		Preload("SituationHistorique", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "Le militaire avec l'ID %s n'existe pas", id)
	}
	return &m, nil
}

func ensureMilitaireExists(tx *gorm.DB, id string) error {
	ok, err := exists(tx, &models.Militaire{}, id)
	if err != nil {
		return fmt.Errorf("failed to check militaire: %w", err)
	}
	if !ok {
		return NotFoundError("Le militaire avec l'ID %s n'existe pas", id)
	}
	return nil
}

func ensurePersonnelExists(tx *gorm.DB, id string) error {
	ok, err := exists(tx, &models.Personnel{}, id)
	if err != nil {
		return fmt.Errorf("failed to check personnel: %w", err)
	}
	if !ok {
		return NotFoundError("Le personnel avec l'ID %s n'existe pas", id)
	}
	return nil
}

// DecorationInput is the payload of AddDecoration
type DecorationInput struct {
	Nom           string  `json:"nom" validate:"required"`
	DateObtention *string `json:"dateObtention"`
	Motif         string  `json:"motif"`
	Autorite      string  `json:"autorite"`
}

// AddDecoration appends a decoration to a militaire
func AddDecoration(db *gorm.DB, militaireID string, in DecorationInput) (*models.Decoration, error) {
	nom := sanitizeText(in.Nom)
	if nom == "" {
		return nil, ValidationError("Le nom de la décoration est requis")
	}
	date, err := parseOptionalDate("dateObtention", in.DateObtention)
	if err != nil {
		return nil, err
	}

	decoration := &models.Decoration{
		MilitaireID:   militaireID,
		Nom:           nom,
		DateObtention: date,
		Motif:         sanitizeText(in.Motif),
		Autorite:      sanitizeText(in.Autorite),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureMilitaireExists(tx, militaireID); err != nil {
			return err
		}
		return tx.Create(decoration).Error
	})
	if err != nil {
		return nil, err
	}
	return decoration, nil
}

// GetDecorations lists the decorations of a militaire, most recent first
func GetDecorations(db *gorm.DB, militaireID string) ([]models.Decoration, error) {
	if err := ensureMilitaireExists(db, militaireID); err != nil {
		return nil, err
	}
	decorations := make([]models.Decoration, 0)
	err := db.Where("militaire_id = ?", militaireID).Order("date_obtention DESC").Find(&decorations).Error
	return decorations, err
}

// NotationInput is the payload of AddNotation
type NotationInput struct {
	Annee        int     `json:"annee" validate:"required"`
	Note         float64 `json:"note"`
	Appreciation string  `json:"appreciation"`
	Notateur     string  `json:"notateur"`
}

// AddNotation appends a yearly notation to a militaire. The note is out of 20.
func AddNotation(db *gorm.DB, militaireID string, in NotationInput) (*models.Notation, error) {
	if in.Annee < 1900 || in.Annee > 2100 {
		return nil, ValidationError("Année de notation invalide: %d", in.Annee)
	}
	if in.Note < 0 || in.Note > 20 {
		return nil, ValidationError("La note doit être comprise entre 0 et 20")
	}

	notation := &models.Notation{
		MilitaireID:  militaireID,
		Annee:        in.Annee,
		Note:         in.Note,
		Appreciation: sanitizeText(in.Appreciation),
		Notateur:     sanitizeText(in.Notateur),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureMilitaireExists(tx, militaireID); err != nil {
			return err
		}
		return tx.Create(notation).Error
	})
	if err != nil {
		return nil, err
	}
	return notation, nil
}

// GetNotations lists the notations of a militaire, latest year first
func GetNotations(db *gorm.DB, militaireID string) ([]models.Notation, error) {
	if err := ensureMilitaireExists(db, militaireID); err != nil {
		return nil, err
	}
	notations := make([]models.Notation, 0)
	err := db.Where("militaire_id = ?", militaireID).Order("annee DESC").Find(&notations).Error
	return notations, err
}

// StageInput is the payload of AddStageMilitaire
type StageInput struct {
	Intitule  string  `json:"intitule" validate:"required"`
	Lieu      string  `json:"lieu"`
	DateDebut *string `json:"dateDebut"`
	DateFin   *string `json:"dateFin"`
	Resultat  string  `json:"resultat"`
}

// AddStageMilitaire appends a training course to a militaire
func AddStageMilitaire(db *gorm.DB, militaireID string, in StageInput) (*models.StageMilitaire, error) {
	intitule := sanitizeText(in.Intitule)
	if intitule == "" {
		return nil, ValidationError("L'intitulé du stage est requis")
	}
	debut, err := parseOptionalDate("dateDebut", in.DateDebut)
	if err != nil {
		return nil, err
	}
	fin, err := parseOptionalDate("dateFin", in.DateFin)
	if err != nil {
		return nil, err
	}
	if debut != nil && fin != nil && fin.Before(*debut) {
		return nil, ValidationError("La date de fin du stage précède la date de début")
	}

	stage := &models.StageMilitaire{
		MilitaireID: militaireID,
		Intitule:    intitule,
		Lieu:        sanitizeText(in.Lieu),
		DateDebut:   debut,
		DateFin:     fin,
		Resultat:    sanitizeText(in.Resultat),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureMilitaireExists(tx, militaireID); err != nil {
			return err
		}
		return tx.Create(stage).Error
	})
	if err != nil {
		return nil, err
	}
	return stage, nil
}

// GetStagesMilitaires lists the training courses of a militaire
func GetStagesMilitaires(db *gorm.DB, militaireID string) ([]models.StageMilitaire, error) {
	if err := ensureMilitaireExists(db, militaireID); err != nil {
		return nil, err
	}
	stages := make([]models.StageMilitaire, 0)
	err := db.Where("militaire_id = ?", militaireID).Order("date_debut DESC").Find(&stages).Error
	return stages, err
}

// SituationChangeInput is the payload of ChangeSituation
type SituationChangeInput struct {
	Situation string  `json:"situation" validate:"required"`
	Motif     string  `json:"motif"`
	DateDebut *string `json:"dateDebut"`
	DateFin   *string `json:"dateFin"`
}

// ChangeSituation moves a militaire to a new situation and records the transition
func ChangeSituation(db *gorm.DB, militaireID string, in SituationChangeInput) (*models.SituationHistorique, error) {
	situation, err := parseSituation(in.Situation)
	if err != nil {
		return nil, err
	}
	debut, err := parseOptionalDate("dateDebut", in.DateDebut)
	if err != nil {
		return nil, err
	}
	fin, err := parseOptionalDate("dateFin", in.DateFin)
	if err != nil {
		return nil, err
	}
	if debut != nil && fin != nil && fin.Before(*debut) {
		return nil, ValidationError("La date de fin précède la date de début")
	}

	var entry *models.SituationHistorique
	err = db.Transaction(func(tx *gorm.DB) error {
		var m models.Militaire
		if err := lockForUpdate(tx).First(&m, "id = ?", militaireID).Error; err != nil {
			return notFoundOr(err, "Le militaire avec l'ID %s n'existe pas", militaireID)
		}
		if m.Situation == situation {
			return ValidationError("Le militaire est déjà en situation %s", situation)
		}

		entry, err = recordSituationChange(tx, &m, situation, sanitizeText(in.Motif), debut, fin)
		if err != nil {
			return err
		}
		return tx.Model(&m).Update("situation", m.Situation).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetSituationHistorique lists the situation transitions of a militaire, newest first
func GetSituationHistorique(db *gorm.DB, militaireID string) ([]models.SituationHistorique, error) {
	if err := ensureMilitaireExists(db, militaireID); err != nil {
		return nil, err
	}
	history := make([]models.SituationHistorique, 0)
	err := db.Where("militaire_id = ?", militaireID).Order("created_at DESC").Find(&history).Error
	return history, err
}

// DiplomeInput is the payload of AddDiplome
type DiplomeInput struct {
	Intitule      string `json:"intitule" validate:"required"`
	Etablissement string `json:"etablissement"`
	Annee         int    `json:"annee"`
	Niveau        string `json:"niveau"`
}

// AddDiplome appends a diploma to a person
func AddDiplome(db *gorm.DB, personnelID string, in DiplomeInput) (*models.Diplome, error) {
	intitule := sanitizeText(in.Intitule)
	if intitule == "" {
		return nil, ValidationError("L'intitulé du diplôme est requis")
	}
	if in.Annee != 0 && (in.Annee < 1900 || in.Annee > 2100) {
		return nil, ValidationError("Année du diplôme invalide: %d", in.Annee)
	}

	diplome := &models.Diplome{
		PersonnelID:   personnelID,
		Intitule:      intitule,
		Etablissement: sanitizeText(in.Etablissement),
		Annee:         in.Annee,
		Niveau:        sanitizeText(in.Niveau),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensurePersonnelExists(tx, personnelID); err != nil {
			return err
		}
		return tx.Create(diplome).Error
	})
	if err != nil {
		return nil, err
	}
	return diplome, nil
}

// GetDiplomes lists the diplomas of a person
func GetDiplomes(db *gorm.DB, personnelID string) ([]models.Diplome, error) {
	if err := ensurePersonnelExists(db, personnelID); err != nil {
		return nil, err
	}
	diplomes := make([]models.Diplome, 0)
	err := db.Where("personnel_id = ?", personnelID).Order("annee DESC").Find(&diplomes).Error
	return diplomes, err
}

// DocumentInput is the payload of AddDocument
type DocumentInput struct {
	Titre        string  `json:"titre" validate:"required"`
	TypeDocument string  `json:"typeDocument"`
	Reference    string  `json:"reference"`
	DateDocument *string `json:"dateDocument"`
	Description  string  `json:"description"`
}

// AddDocument files the metadata of a document for a person
func AddDocument(db *gorm.DB, personnelID string, in DocumentInput) (*models.Document, error) {
	titre := sanitizeText(in.Titre)
	if titre == "" {
		return nil, ValidationError("Le titre du document est requis")
	}
	date, err := parseOptionalDate("dateDocument", in.DateDocument)
	if err != nil {
		return nil, err
	}

	document := &models.Document{
		PersonnelID:  personnelID,
		Titre:        titre,
		TypeDocument: sanitizeText(in.TypeDocument),
		Reference:    sanitizeText(in.Reference),
		DateDocument: date,
		Description:  sanitizeText(in.Description),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensurePersonnelExists(tx, personnelID); err != nil {
			return err
		}
		return tx.Create(document).Error
	})
	if err != nil {
		return nil, err
	}
	return document, nil
}

// GetDocuments lists the documents of a person, newest first
func GetDocuments(db *gorm.DB, personnelID string) ([]models.Document, error) {
	if err := ensurePersonnelExists(db, personnelID); err != nil {
		return nil, err
	}
	documents := make([]models.Document, 0)
	err := db.Where("personnel_id = ?", personnelID).Order("created_at DESC").Find(&documents).Error
	return documents, err
}
