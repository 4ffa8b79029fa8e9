package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"personnel_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MilitaireInput is the military detail of a personnel payload
type MilitaireInput struct {
	Matricule             *string `json:"matricule"`
	Grade                 *string `json:"grade"`
	Categorie             *string `json:"categorie"` // Optional, must agree with the grade
	Situation             *string `json:"situation"`
	MotifSituation        *string `json:"motifSituation"`
	GroupeSanguin         *string `json:"groupeSanguin"`
	ArmeID                *string `json:"armeId"`
	SpecialiteID          *string `json:"specialiteId"`
	FonctionID            *string `json:"fonctionId"`
	PositionID            *string `json:"positionId"`
	SousUniteID           *string `json:"sousUniteId"`
	DateRecrutement       *string `json:"dateRecrutement"`
	DateDernierePromotion *string `json:"dateDernierePromotion"`
}

type ProfesseurInput struct {
	GradeAcademique *string `json:"gradeAcademique"`
	Specialite      *string `json:"specialite"`
	DateRecrutement *string `json:"dateRecrutement"`
}

type EtudiantInput struct {
	NumeroEtudiant   *string `json:"numeroEtudiant"`
	Niveau           *string `json:"niveau"`
	Filiere          *string `json:"filiere"`
	AnneeInscription *string `json:"anneeInscription"`
}

type EmployeInput struct {
	Poste        *string `json:"poste"`
	Service      *string `json:"service"`
	DateEmbauche *string `json:"dateEmbauche"`
}

// PersonnelInput is the create/update payload of a person. Only the detail
// object matching the stored type is read.
type PersonnelInput struct {
	Nom           *string `json:"nom"`
	Prenom        *string `json:"prenom"`
	NNI           *string `json:"nni"`
	TypePersonnel *string `json:"typePersonnel"`
	UniteID       *string `json:"uniteId"`
	DateNaissance *string `json:"dateNaissance"`
	LieuNaissance *string `json:"lieuNaissance"`
	Sexe          *string `json:"sexe"`
	Telephone     *string `json:"telephone"`
	Email         *string `json:"email"`
	Adresse       *string `json:"adresse"`

	Militaire  *MilitaireInput  `json:"militaire"`
	Professeur *ProfesseurInput `json:"professeur"`
	Etudiant   *EtudiantInput   `json:"etudiant"`
	Employe    *EmployeInput    `json:"employe"`
}

// PersonnelQuery holds the listing options of personnel
type PersonnelQuery struct {
	PageQuery
	Search        string
	TypePersonnel string
	UniteID       string
}

// personnelBranch is the per-type behaviour of a person's detail record
type personnelBranch struct {
	create func(tx *gorm.DB, p *models.Personnel, in PersonnelInput) error
	update func(tx *gorm.DB, p *models.Personnel, in PersonnelInput) error
	remove func(tx *gorm.DB, personnelID string) error
}

var personnelBranches = map[models.TypePersonnel]personnelBranch{
	models.TypeMilitaire: {
		create: createMilitaire,
		update: updateMilitaire,
		remove: removeMilitaire,
	},
	models.TypeCivilProfesseur: civilBranch(
		func() models.PersonnelDetail { return &models.Professeur{} },
		func(in PersonnelInput) (models.PersonnelDetail, error) {
			d := in.Professeur
			if d == nil {
				d = &ProfesseurInput{}
			}
			recrutement, err := parseOptionalDate("dateRecrutement", d.DateRecrutement)
			if err != nil {
				return nil, err
			}
			return &models.Professeur{
				GradeAcademique: sanitizePtr(d.GradeAcademique),
				Specialite:      sanitizePtr(d.Specialite),
				DateRecrutement: recrutement,
			}, nil
		},
		func(in PersonnelInput) (map[string]interface{}, error) {
			m := map[string]interface{}{}
			if in.Professeur == nil {
				return m, nil
			}
			setText(m, "grade_academique", in.Professeur.GradeAcademique)
			setText(m, "specialite", in.Professeur.Specialite)
			return m, setDate(m, "date_recrutement", "dateRecrutement", in.Professeur.DateRecrutement)
		},
	),
	models.TypeCivilEtudiant: civilBranch(
		func() models.PersonnelDetail { return &models.Etudiant{} },
		func(in PersonnelInput) (models.PersonnelDetail, error) {
			d := in.Etudiant
			if d == nil {
				d = &EtudiantInput{}
			}
			return &models.Etudiant{
				NumeroEtudiant:   sanitizePtr(d.NumeroEtudiant),
				Niveau:           sanitizePtr(d.Niveau),
				Filiere:          sanitizePtr(d.Filiere),
				AnneeInscription: sanitizePtr(d.AnneeInscription),
			}, nil
		},
		func(in PersonnelInput) (map[string]interface{}, error) {
			m := map[string]interface{}{}
			if in.Etudiant == nil {
				return m, nil
			}
			setText(m, "numero_etudiant", in.Etudiant.NumeroEtudiant)
			setText(m, "niveau", in.Etudiant.Niveau)
			setText(m, "filiere", in.Etudiant.Filiere)
			setText(m, "annee_inscription", in.Etudiant.AnneeInscription)
			return m, nil
		},
	),
	models.TypeCivilEmploye: civilBranch(
		func() models.PersonnelDetail { return &models.Employe{} },
		func(in PersonnelInput) (models.PersonnelDetail, error) {
			d := in.Employe
			if d == nil {
				d = &EmployeInput{}
			}
			embauche, err := parseOptionalDate("dateEmbauche", d.DateEmbauche)
			if err != nil {
				return nil, err
			}
			return &models.Employe{
				Poste:        sanitizePtr(d.Poste),
				Service:      sanitizePtr(d.Service),
				DateEmbauche: embauche,
			}, nil
		},
		func(in PersonnelInput) (map[string]interface{}, error) {
			m := map[string]interface{}{}
			if in.Employe == nil {
				return m, nil
			}
			setText(m, "poste", in.Employe.Poste)
			setText(m, "service", in.Employe.Service)
			return m, setDate(m, "date_embauche", "dateEmbauche", in.Employe.DateEmbauche)
		},
	),
}

// civilBranch builds the branch of a civilian type, whose detail owns no other rows
func civilBranch(
	model func() models.PersonnelDetail,
	build func(in PersonnelInput) (models.PersonnelDetail, error),
	updates func(in PersonnelInput) (map[string]interface{}, error),
) personnelBranch {
	create := func(tx *gorm.DB, p *models.Personnel, in PersonnelInput) error {
		detail, err := build(in)
		if err != nil {
			return err
		}
		detail.SetPersonnelID(p.ID)
		if err := tx.Create(detail).Error; err != nil {
			return fmt.Errorf("failed to create %s detail: %w", p.TypePersonnel, err)
		}
		return nil
	}

	return personnelBranch{
		create: create,
		update: func(tx *gorm.DB, p *models.Personnel, in PersonnelInput) error {
			m, err := updates(in)
			if err != nil {
				return err
			}
			if len(m) == 0 {
				return nil
			}
			result := tx.Model(model()).Where("personnel_id = ?", p.ID).Updates(m)
			if result.Error != nil {
				return fmt.Errorf("failed to update %s detail: %w", p.TypePersonnel, result.Error)
			}
			if result.RowsAffected == 0 {
				return create(tx, p, in)
			}
			return nil
		},
		remove: func(tx *gorm.DB, personnelID string) error {
			return tx.Where("personnel_id = ?", personnelID).Delete(model()).Error
		},
	}
}

func branchForPersonnel(t models.TypePersonnel) (personnelBranch, error) {
	b, ok := personnelBranches[t]
	if !ok {
		return personnelBranch{}, ValidationError(
			"Type de personnel invalide: %q (attendu: MILITAIRE, CIVIL_PROFESSEUR, CIVIL_ETUDIANT ou CIVIL_EMPLOYE)", string(t))
	}
	return b, nil
}

// setDate adds column=date to updates when the field was supplied; blank clears it
func setDate(updates map[string]interface{}, column, field string, value *string) error {
	if value == nil {
		return nil
	}
	d, err := parseOptionalDate(field, value)
	if err != nil {
		return err
	}
	updates[column] = d
	return nil
}

func preloadPersonnelDetail(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Militaire").
		Preload("Militaire.Arme").
		Preload("Militaire.Fonction").
		Preload("Militaire.SousUnite").
		Preload("Professeur").
		Preload("Etudiant").
		Preload("Employe")
}

// searchPersonnel matches nom, prenom, nni or the matricule of the military detail
func searchPersonnel(tx *gorm.DB, search string) *gorm.DB {
	p := likePattern(search)
	matricules := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.Militaire{}).
		Select("personnel_id").
		Where("LOWER(matricule) LIKE ?", p)
	return tx.Where(
		"(LOWER(personnels.nom) LIKE ? OR LOWER(personnels.prenom) LIKE ? OR LOWER(personnels.nni) LIKE ? OR personnels.id IN (?))",
		p, p, p, matricules,
	)
}

func ensureUniqueNNI(tx *gorm.DB, nni, excludeID string) error {
	query := tx.Model(&models.Personnel{}).Where("nni = ?", nni)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check nni: %w", err)
	}
	if count > 0 {
		return ConflictError("Un personnel avec le NNI %s existe déjà", nni)
	}
	return nil
}

func ensureUniqueMatricule(tx *gorm.DB, matricule, excludeID string) error {
	query := tx.Model(&models.Militaire{}).Where("matricule = ?", matricule)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check matricule: %w", err)
	}
	if count > 0 {
		return ConflictError("Un militaire avec le matricule %s existe déjà", matricule)
	}
	return nil
}

func ensureUniteExists(tx *gorm.DB, uniteID string) error {
	ok, err := exists(tx, &models.Unite{}, uniteID)
	if err != nil {
		return fmt.Errorf("failed to check unite: %w", err)
	}
	if !ok {
		return NotFoundError("L'unité avec l'ID %s n'existe pas", uniteID)
	}
	return nil
}

// applyGradeInput sets the grade and re-derives the category. A supplied
// category must match the derived one.
func applyGradeInput(m *models.Militaire, grade, categorie *string) error {
	if grade != nil {
		g := models.Grade(strings.ToUpper(strings.TrimSpace(*grade)))
		if err := m.ApplyGrade(g); err != nil {
			return ValidationError("Grade invalide: %q", *grade)
		}
	}
	if m.Grade == "" {
		return ValidationError("Le grade est requis")
	}

	if categorie != nil && strings.TrimSpace(*categorie) != "" {
		c := models.Categorie(strings.ToUpper(strings.TrimSpace(*categorie)))
		if c != m.Categorie {
			return ValidationError("La catégorie %s ne correspond pas au grade %s (attendu: %s)", c, m.Grade, m.Categorie)
		}
	}
	return nil
}

func parseSituation(s string) (models.Situation, error) {
	situation := models.Situation(strings.ToUpper(strings.TrimSpace(s)))
	if !situation.IsValid() {
		return "", ValidationError("Situation invalide: %q", s)
	}
	return situation, nil
}

// refExists turns a missing optional reference into a ValidationError
func refExists(tx *gorm.DB, model interface{}, id *string, label string) error {
	if id == nil {
		return nil
	}
	ok, err := exists(tx, model, *id)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", label, err)
	}
	if !ok {
		return ValidationError("%s avec l'ID %s n'existe pas", label, *id)
	}
	return nil
}

// validateMilitaireRefs checks every reference of m, that the specialty belongs
// to the arme and that the sub-unit belongs to the person's unit
func validateMilitaireRefs(tx *gorm.DB, uniteID string, m *models.Militaire) error {
	if err := refExists(tx, &models.Arme{}, m.ArmeID, "L'arme"); err != nil {
		return err
	}
	if err := refExists(tx, &models.Fonction{}, m.FonctionID, "La fonction"); err != nil {
		return err
	}
	if err := refExists(tx, &models.Position{}, m.PositionID, "La position"); err != nil {
		return err
	}

	if m.SpecialiteID != nil {
		var specialite models.Specialite
		if err := tx.First(&specialite, "id = ?", *m.SpecialiteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ValidationError("La spécialité avec l'ID %s n'existe pas", *m.SpecialiteID)
			}
			return fmt.Errorf("failed to load specialite: %w", err)
		}
		if m.ArmeID != nil && specialite.ArmeID != *m.ArmeID {
			return ValidationError("La spécialité %s n'appartient pas à l'arme sélectionnée", specialite.Nom)
		}
	}

	if m.SousUniteID != nil {
		var sousUnite models.SousUnite
		if err := tx.First(&sousUnite, "id = ?", *m.SousUniteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ValidationError("La sous-unité avec l'ID %s n'existe pas", *m.SousUniteID)
			}
			return fmt.Errorf("failed to load sous-unite: %w", err)
		}
		if sousUnite.UniteID != uniteID {
			return ValidationError("La sous-unité %s n'appartient pas à l'unité du personnel", sousUnite.Code)
		}
	}
	return nil
}

func applyMilitaireRefs(m *models.Militaire, in *MilitaireInput) {
	if in.ArmeID != nil {
		m.ArmeID = trimmedPtr(in.ArmeID)
	}
	if in.SpecialiteID != nil {
		m.SpecialiteID = trimmedPtr(in.SpecialiteID)
	}
	if in.FonctionID != nil {
		m.FonctionID = trimmedPtr(in.FonctionID)
	}
	if in.PositionID != nil {
		m.PositionID = trimmedPtr(in.PositionID)
	}
	if in.SousUniteID != nil {
		m.SousUniteID = trimmedPtr(in.SousUniteID)
	}
}

func applyMilitaireDates(m *models.Militaire, in *MilitaireInput) error {
	if in.DateRecrutement != nil {
		d, err := parseOptionalDate("dateRecrutement", in.DateRecrutement)
		if err != nil {
			return err
		}
		m.DateRecrutement = d
	}
	if in.DateDernierePromotion != nil {
		d, err := parseOptionalDate("dateDernierePromotion", in.DateDernierePromotion)
		if err != nil {
			return err
		}
		m.DateDernierePromotion = d
	}
	return nil
}

func createMilitaire(tx *gorm.DB, p *models.Personnel, in PersonnelInput) error {
	mi := in.Militaire
	if mi == nil {
		return ValidationError("Les informations militaires sont requises pour un personnel MILITAIRE")
	}

	matricule := strings.TrimSpace(deref(mi.Matricule))
	if matricule == "" {
		return ValidationError("Le matricule est requis")
	}
	if err := ensureUniqueMatricule(tx, matricule, ""); err != nil {
		return err
	}

	m := &models.Militaire{
		PersonnelID:   p.ID,
		Matricule:     matricule,
		Situation:     models.SituationPresent,
		GroupeSanguin: sanitizePtr(mi.GroupeSanguin),
	}
	if err := applyGradeInput(m, mi.Grade, mi.Categorie); err != nil {
		return err
	}
	if mi.Situation != nil && strings.TrimSpace(*mi.Situation) != "" {
		situation, err := parseSituation(*mi.Situation)
		if err != nil {
			return err
		}
		m.Situation = situation
	}
	applyMilitaireRefs(m, mi)
	if err := applyMilitaireDates(m, mi); err != nil {
		return err
	}
	if err := validateMilitaireRefs(tx, p.UniteID, m); err != nil {
		return err
	}

	if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
		return conflictOr(err, "Un militaire avec le matricule %s existe déjà", matricule)
	}
	return nil
}

func updateMilitaire(tx *gorm.DB, p *models.Personnel, in PersonnelInput) error {
	mi := in.Militaire

	var m models.Militaire
	err := tx.First(&m, "personnel_id = ?", p.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if mi == nil {
			return nil
		}
		return createMilitaire(tx, p, in)
	}
	if err != nil {
		return fmt.Errorf("failed to load militaire: %w", err)
	}

	if mi == nil {
		// The unit may have changed under an assigned sub-unit
		return validateMilitaireRefs(tx, p.UniteID, &m)
	}

	if mi.Matricule != nil {
		matricule := strings.TrimSpace(*mi.Matricule)
		if matricule == "" {
			return ValidationError("Le matricule ne peut pas être vide")
		}
		if err := ensureUniqueMatricule(tx, matricule, m.ID); err != nil {
			return err
		}
		m.Matricule = matricule
	}
	if err := applyGradeInput(&m, mi.Grade, mi.Categorie); err != nil {
		return err
	}
	if mi.GroupeSanguin != nil {
		m.GroupeSanguin = sanitizeText(*mi.GroupeSanguin)
	}
	applyMilitaireRefs(&m, mi)
	if err := applyMilitaireDates(&m, mi); err != nil {
		return err
	}
	if err := validateMilitaireRefs(tx, p.UniteID, &m); err != nil {
		return err
	}

	if mi.Situation != nil && strings.TrimSpace(*mi.Situation) != "" {
		situation, err := parseSituation(*mi.Situation)
		if err != nil {
			return err
		}
		if situation != m.Situation {
			if _, err := recordSituationChange(tx, &m, situation, sanitizePtr(mi.MotifSituation), nil, nil); err != nil {
				return err
			}
		}
	}

	if err := tx.Omit(clause.Associations).Save(&m).Error; err != nil {
		return conflictOr(err, "Un militaire avec le matricule %s existe déjà", m.Matricule)
	}
	return nil
}

func removeMilitaire(tx *gorm.DB, personnelID string) error {
	var ids []string
	if err := tx.Model(&models.Militaire{}).Where("personnel_id = ?", personnelID).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to load militaire: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	owned := []interface{}{
		&models.Decoration{},
		&models.Notation{},
		&models.StageMilitaire{},
		&models.SituationHistorique{},
	}
	for _, model := range owned {
		if err := tx.Where("militaire_id IN ?", ids).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to delete militaire records: %w", err)
		}
	}
	return tx.Where("id IN ?", ids).Delete(&models.Militaire{}).Error
}

// recordSituationChange appends a history entry and moves m to the new situation.
// The caller persists m.
func recordSituationChange(tx *gorm.DB, m *models.Militaire, to models.Situation, motif string, debut, fin *time.Time) (*models.SituationHistorique, error) {
	entry := &models.SituationHistorique{
		MilitaireID:       m.ID,
		AncienneSituation: m.Situation,
		NouvelleSituation: to,
		Motif:             motif,
		DateDebut:         debut,
		DateFin:           fin,
	}
	if entry.DateDebut == nil {
		now := time.Now()
		entry.DateDebut = &now
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record situation change: %w", err)
	}
	m.Situation = to
	return entry, nil
}

// GetPersonnels returns one page of personnel with their unit and detail
func GetPersonnels(db *gorm.DB, q PersonnelQuery) (*Page[models.Personnel], error) {
	var typePersonnel models.TypePersonnel
	if q.TypePersonnel != "" {
		typePersonnel = models.TypePersonnel(strings.ToUpper(q.TypePersonnel))
		if !typePersonnel.IsValid() {
			return nil, ValidationError("Type de personnel invalide: %q", q.TypePersonnel)
		}
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		if typePersonnel != "" {
			tx = tx.Where("personnels.type_personnel = ?", typePersonnel)
		}
		if q.UniteID != "" {
			tx = tx.Where("personnels.unite_id = ?", q.UniteID)
		}
		if q.Search != "" {
			tx = searchPersonnel(tx, q.Search)
		}
		return tx
	}
	withUnite := func(tx *gorm.DB) *gorm.DB { return tx.Preload("Unite") }

	return paginate[models.Personnel](db, q.PageQuery, "personnels.nom ASC, personnels.prenom ASC", filter, preloadPersonnelDetail, withUnite)
}

// GetPersonnelByID retrieves a person with unit, detail, documents and diplomas
func GetPersonnelByID(db *gorm.DB, id string) (*models.Personnel, error) {
	var p models.Personnel
	err := preloadPersonnelDetail(db).
		Preload("Militaire.Specialite").
		Preload("Militaire.Position").
		Preload("Unite").
		Preload("Documents", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Diplomes", func(tx *gorm.DB) *gorm.DB { return tx.Order("annee DESC") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "Le personnel avec l'ID %s n'existe pas", id)
	}
	return &p, nil
}

// CreatePersonnel creates a person and the detail record matching its type in one transaction
func CreatePersonnel(db *gorm.DB, in PersonnelInput) (*models.Personnel, error) {
	typePersonnel := models.TypePersonnel(strings.ToUpper(strings.TrimSpace(deref(in.TypePersonnel))))
	branch, err := branchForPersonnel(typePersonnel)
	if err != nil {
		return nil, err
	}

	nom := sanitizePtr(in.Nom)
	prenom := sanitizePtr(in.Prenom)
	nni := strings.TrimSpace(deref(in.NNI))
	if nom == "" || prenom == "" || nni == "" {
		return nil, ValidationError("Le nom, le prénom et le NNI sont requis")
	}
	uniteID := strings.TrimSpace(deref(in.UniteID))
	if uniteID == "" {
		return nil, ValidationError("L'unité est requise")
	}
	dateNaissance, err := parseOptionalDate("dateNaissance", in.DateNaissance)
	if err != nil {
		return nil, err
	}

	var personnelID string
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniteExists(tx, uniteID); err != nil {
			return err
		}
		if err := ensureUniqueNNI(tx, nni, ""); err != nil {
			return err
		}

		p := models.Personnel{
			Nom:           nom,
			Prenom:        prenom,
			NNI:           nni,
			TypePersonnel: typePersonnel,
			UniteID:       uniteID,
			DateNaissance: dateNaissance,
			LieuNaissance: sanitizePtr(in.LieuNaissance),
			Sexe:          sanitizePtr(in.Sexe),
			Telephone:     sanitizePtr(in.Telephone),
			Email:         strings.TrimSpace(deref(in.Email)),
			Adresse:       sanitizePtr(in.Adresse),
		}
		if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
			return conflictOr(err, "Un personnel avec le NNI %s existe déjà", nni)
		}

		if err := branch.create(tx, &p, in); err != nil {
			return err
		}
		personnelID = p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Personnel created", zap.String("personnel_id", personnelID), zap.String("type", string(typePersonnel)))
	return GetPersonnelByID(db, personnelID)
}

// UpdatePersonnel updates a person and the detail of its stored type.
// The type is immutable and detail objects of other types are ignored.
func UpdatePersonnel(db *gorm.DB, id string, in PersonnelInput) (*models.Personnel, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var p models.Personnel
		if err := lockForUpdate(tx).First(&p, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "Le personnel avec l'ID %s n'existe pas", id)
		}

		if in.TypePersonnel != nil && !strings.EqualFold(strings.TrimSpace(*in.TypePersonnel), string(p.TypePersonnel)) {
			return ValidationError("Le type de personnel ne peut pas être modifié")
		}

		updates := map[string]interface{}{}
		for column, value := range map[string]*string{"nom": in.Nom, "prenom": in.Prenom} {
			if value == nil {
				continue
			}
			v := sanitizeText(*value)
			if v == "" {
				return ValidationError("Le champ %s ne peut pas être vide", column)
			}
			updates[column] = v
		}
		if in.NNI != nil {
			nni := strings.TrimSpace(*in.NNI)
			if nni == "" {
				return ValidationError("Le NNI ne peut pas être vide")
			}
			if err := ensureUniqueNNI(tx, nni, id); err != nil {
				return err
			}
			updates["nni"] = nni
		}
		if in.UniteID != nil {
			uniteID := strings.TrimSpace(*in.UniteID)
			if err := ensureUniteExists(tx, uniteID); err != nil {
				return err
			}
			updates["unite_id"] = uniteID
			p.UniteID = uniteID
		}
		if err := setDate(updates, "date_naissance", "dateNaissance", in.DateNaissance); err != nil {
			return err
		}
		setText(updates, "lieu_naissance", in.LieuNaissance)
		setText(updates, "sexe", in.Sexe)
		setText(updates, "telephone", in.Telephone)
		setText(updates, "adresse", in.Adresse)
		if in.Email != nil {
			updates["email"] = strings.TrimSpace(*in.Email)
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Personnel{ID: id}).Updates(updates).Error; err != nil {
				return conflictOr(err, "Un personnel avec le NNI %v existe déjà", updates["nni"])
			}
		}

		branch, err := branchForPersonnel(p.TypePersonnel)
		if err != nil {
			return err
		}
		return branch.update(tx, &p, in)
	})
	if err != nil {
		return nil, err
	}

	return GetPersonnelByID(db, id)
}

// DeletePersonnel deletes a person with its detail and every record it owns
func DeletePersonnel(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p models.Personnel
		if err := lockForUpdate(tx).First(&p, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "Le personnel avec l'ID %s n'existe pas", id)
		}

		branch, err := branchForPersonnel(p.TypePersonnel)
		if err != nil {
			return err
		}
		if err := branch.remove(tx, id); err != nil {
			return fmt.Errorf("failed to delete %s detail: %w", p.TypePersonnel, err)
		}
		if err := tx.Where("personnel_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return fmt.Errorf("failed to delete documents: %w", err)
		}
		if err := tx.Where("personnel_id = ?", id).Delete(&models.Diplome{}).Error; err != nil {
			return fmt.Errorf("failed to delete diplomes: %w", err)
		}
		if err := tx.Delete(&p).Error; err != nil {
			return fmt.Errorf("failed to delete personnel: %w", err)
		}

		zap.L().Info("Personnel deleted", zap.String("personnel_id", id), zap.String("type", string(p.TypePersonnel)))
		return nil
	})
}
