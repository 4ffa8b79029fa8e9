package models

import "fmt"

// Grade is a military rank
type Grade string

const (
	GradeSoldat2eClasse    Grade = "SOLDAT_2E_CLASSE"
	GradeSoldat1reClasse   Grade = "SOLDAT_1RE_CLASSE"
	GradeCaporal           Grade = "CAPORAL"
	GradeCaporalChef       Grade = "CAPORAL_CHEF"
	GradeSergent           Grade = "SERGENT"
	GradeSergentChef       Grade = "SERGENT_CHEF"
	GradeAdjudant          Grade = "ADJUDANT"
	GradeAdjudantChef      Grade = "ADJUDANT_CHEF"
	GradeAspirant          Grade = "ASPIRANT"
	GradeSousLieutenant    Grade = "SOUS_LIEUTENANT"
	GradeLieutenant        Grade = "LIEUTENANT"
	GradeCapitaine         Grade = "CAPITAINE"
	GradeCommandant        Grade = "COMMANDANT"
	GradeLieutenantColonel Grade = "LIEUTENANT_COLONEL"
	GradeColonel           Grade = "COLONEL"
	GradeGeneralDeBrigade  Grade = "GENERAL_DE_BRIGADE"
	GradeGeneralDeDivision Grade = "GENERAL_DE_DIVISION"
)

// Categorie is the rank family derived from a Grade
type Categorie string

const (
	CategorieOfficier     Categorie = "OFFICIER"
	CategorieSousOfficier Categorie = "SOUS_OFFICIER"
	CategorieSoldat       Categorie = "SOLDAT"
)

// SousCategorie refines OFFICIER and SOUS_OFFICIER
type SousCategorie string

const (
	SousCategorieAucune                 SousCategorie = ""
	SousCategorieOfficierSubalterne     SousCategorie = "OFFICIER_SUBALTERNE"
	SousCategorieOfficierSuperieur      SousCategorie = "OFFICIER_SUPERIEUR"
	SousCategorieOfficierGeneral        SousCategorie = "OFFICIER_GENERAL"
	SousCategorieSousOfficierSubalterne SousCategorie = "SOUS_OFFICIER_SUBALTERNE"
	SousCategorieSousOfficierSuperieur  SousCategorie = "SOUS_OFFICIER_SUPERIEUR"
)

// GradeInfo is one row of the grade table
type GradeInfo struct {
	Grade         Grade         `json:"grade"`
	Rang          int           `json:"rang"`
	Libelle       string        `json:"libelle"`
	Categorie     Categorie     `json:"categorie"`
	SousCategorie SousCategorie `json:"sousCategorie,omitempty"`
}

// gradeTable is ordered by rank, lowest first
var gradeTable = []GradeInfo{
	{GradeSoldat2eClasse, 1, "Soldat de 2e classe", CategorieSoldat, SousCategorieAucune},
	{GradeSoldat1reClasse, 2, "Soldat de 1re classe", CategorieSoldat, SousCategorieAucune},
	{GradeCaporal, 3, "Caporal", CategorieSoldat, SousCategorieAucune},
	{GradeCaporalChef, 4, "Caporal-chef", CategorieSoldat, SousCategorieAucune},
	{GradeSergent, 5, "Sergent", CategorieSousOfficier, SousCategorieSousOfficierSubalterne},
	{GradeSergentChef, 6, "Sergent-chef", CategorieSousOfficier, SousCategorieSousOfficierSubalterne},
	{GradeAdjudant, 7, "Adjudant", CategorieSousOfficier, SousCategorieSousOfficierSuperieur},
	{GradeAdjudantChef, 8, "Adjudant-chef", CategorieSousOfficier, SousCategorieSousOfficierSuperieur},
	{GradeAspirant, 9, "Aspirant", CategorieOfficier, SousCategorieOfficierSubalterne},
	{GradeSousLieutenant, 10, "Sous-lieutenant", CategorieOfficier, SousCategorieOfficierSubalterne},
	{GradeLieutenant, 11, "Lieutenant", CategorieOfficier, SousCategorieOfficierSubalterne},
	{GradeCapitaine, 12, "Capitaine", CategorieOfficier, SousCategorieOfficierSubalterne},
	{GradeCommandant, 13, "Commandant", CategorieOfficier, SousCategorieOfficierSuperieur},
	{GradeLieutenantColonel, 14, "Lieutenant-colonel", CategorieOfficier, SousCategorieOfficierSuperieur},
	{GradeColonel, 15, "Colonel", CategorieOfficier, SousCategorieOfficierSuperieur},
	{GradeGeneralDeBrigade, 16, "Général de brigade", CategorieOfficier, SousCategorieOfficierGeneral},
	{GradeGeneralDeDivision, 17, "Général de division", CategorieOfficier, SousCategorieOfficierGeneral},
}

var gradeIndex = func() map[Grade]GradeInfo {
	m := make(map[Grade]GradeInfo, len(gradeTable))
	for _, g := range gradeTable {
		m[g.Grade] = g
	}
	return m
}()

// GradeTable returns a copy of the full grade table, ordered by rank.
// Clients use it to pre-fill the category; the server re-derives it on every write.
func GradeTable() []GradeInfo {
	out := make([]GradeInfo, len(gradeTable))
	copy(out, gradeTable)
	return out
}

// IsValid reports whether g is a known grade
func (g Grade) IsValid() bool {
	_, ok := gradeIndex[g]
	return ok
}

// Rang returns the rank order of the grade, 0 when unknown
func (g Grade) Rang() int {
	return gradeIndex[g].Rang
}

// CategorieForGrade derives the category and sub-category of a grade
func CategorieForGrade(g Grade) (Categorie, SousCategorie, error) {
	info, ok := gradeIndex[g]
	if !ok {
		return "", "", fmt.Errorf("unknown grade: %s", g)
	}
	return info.Categorie, info.SousCategorie, nil
}

// IsValidCategorie checks a category value
func IsValidCategorie(c Categorie) bool {
	switch c {
	case CategorieOfficier, CategorieSousOfficier, CategorieSoldat:
		return true
	}
	return false
}
