package services

import (
	"bytes"
	"fmt"
	"time"

	"personnel_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	sheetPersonnel  = "Personnel"
	sheetMilitaires = "Militaires"
)

var personnelHeaders = []string{"Nom", "Prénom", "NNI", "Type", "Sexe", "Date de naissance", "Téléphone", "Email", "Détail"}

var militaireHeaders = []string{"Matricule", "Nom", "Prénom", "Grade", "Catégorie", "Situation", "Arme", "Spécialité", "Fonction", "Sous-unité"}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func refName[T any](ref *T, name func(*T) string) string {
	if ref == nil {
		return ""
	}
	return name(ref)
}

// personnelDetailLabel summarizes the type-specific record in one cell
func personnelDetailLabel(p *models.Personnel) string {
	switch d := p.Detail().(type) {
	case *models.Militaire:
		return fmt.Sprintf("%s %s", d.Grade, d.Matricule)
	case *models.Professeur:
		return d.GradeAcademique + " " + d.Specialite
	case *models.Etudiant:
		return d.NumeroEtudiant + " " + d.Niveau
	case *models.Employe:
		return d.Poste + " " + d.Service
	}
	return ""
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, header)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// ExportUnitePersonnel builds the XLSX roster of a unit: every personnel on
// one sheet, militaires with their grade and assignment on a second one.
// It returns the workbook and a suggested file name.
func ExportUnitePersonnel(db *gorm.DB, uniteID string) (*bytes.Buffer, string, error) {
	var unite models.Unite
	if err := db.First(&unite, "id = ?", uniteID).Error; err != nil {
		return nil, "", notFoundOr(err, "L'unité avec l'ID %s n'existe pas", uniteID)
	}

	personnels := make([]models.Personnel, 0)
	err := db.Where("unite_id = ?", uniteID).
		Scopes(preloadPersonnelDetail).
		Preload("Militaire.Specialite").
		Order("nom ASC, prenom ASC").
		Find(&personnels).Error
	if err != nil {
		return nil, "", fmt.Errorf("failed to load personnel: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetPersonnel)
	if _, err := f.NewSheet(sheetMilitaires); err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1E3A8A"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create style: %w", err)
	}
	if err := writeHeader(f, sheetPersonnel, personnelHeaders, headerStyle); err != nil {
		return nil, "", err
	}
	if err := writeHeader(f, sheetMilitaires, militaireHeaders, headerStyle); err != nil {
		return nil, "", err
	}

	militaireRow := 2
	for i := range personnels {
		p := &personnels[i]
		err := writeRow(f, sheetPersonnel, i+2, []interface{}{
			p.Nom, p.Prenom, p.NNI, string(p.TypePersonnel), p.Sexe,
			formatDate(p.DateNaissance), p.Telephone, p.Email, personnelDetailLabel(p),
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to write row: %w", err)
		}

		m := p.Militaire
		if p.TypePersonnel != models.TypeMilitaire || m == nil {
			continue
		}
		err = writeRow(f, sheetMilitaires, militaireRow, []interface{}{
			m.Matricule, p.Nom, p.Prenom, string(m.Grade), string(m.Categorie), string(m.Situation),
			refName(m.Arme, func(a *models.Arme) string { return a.Nom }),
			refName(m.Specialite, func(s *models.Specialite) string { return s.Nom }),
			refName(m.Fonction, func(fn *models.Fonction) string { return fn.Titre }),
			refName(m.SousUnite, func(s *models.SousUnite) string { return s.Code }),
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to write row: %w", err)
		}
		militaireRow++
	}

	f.SetColWidth(sheetPersonnel, "A", "I", 20)
	f.SetColWidth(sheetMilitaires, "A", "J", 18)
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("personnel_%s_%s.xlsx", unite.Code, time.Now().Format("20060102"))
	return buf, filename, nil
}
