package services

import (
	"fmt"

	"personnel_app_go/config"
	"personnel_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func uniteSeed(code, nom string, t models.UniteType, detail UniteDetailInput) UniteInput {
	return UniteInput{
		Nom:              strPtr(nom),
		Code:             strPtr(code),
		Type:             strPtr(string(t)),
		UniteDetailInput: detail,
	}
}

// defaultUnites are the institutes, central directorates and command post every deployment starts with
var defaultUnites = []UniteInput{
	uniteSeed("EMIA", "École Militaire Interarmes", models.UniteTypeInstitut, UniteDetailInput{
		Emplacement: strPtr("Atar"), AnneeEtude: strPtr("3"), Specialite: strPtr("Formation des officiers"),
	}),
	uniteSeed("ESS", "École de Santé des Armées", models.UniteTypeInstitut, UniteDetailInput{
		Emplacement: strPtr("Nouakchott"), AnneeEtude: strPtr("5"), Specialite: strPtr("Santé militaire"),
	}),
	uniteSeed("ETS", "École Technique Supérieure", models.UniteTypeInstitut, UniteDetailInput{
		Emplacement: strPtr("Nouakchott"), AnneeEtude: strPtr("3"), Specialite: strPtr("Génie et transmissions"),
	}),
	uniteSeed("DCRH", "Direction Centrale des Ressources Humaines", models.UniteTypeDCT, UniteDetailInput{
		Domaine: strPtr("Ressources humaines"), Niveau: strPtr("Central"),
	}),
	uniteSeed("DCL", "Direction Centrale de la Logistique", models.UniteTypeDCT, UniteDetailInput{
		Domaine: strPtr("Logistique"), Niveau: strPtr("Central"),
	}),
	uniteSeed("DCSS", "Direction Centrale du Service de Santé", models.UniteTypeDCT, UniteDetailInput{
		Domaine: strPtr("Santé"), Niveau: strPtr("Central"),
	}),
	uniteSeed("PC-EM", "Poste de Commandement de l'État-Major", models.UniteTypePC, UniteDetailInput{
		TypePC: strPtr("PRINCIPAL"), ZoneOperation: strPtr("Nationale"), Niveau: strPtr("Stratégique"),
	}),
}

var defaultArmes = []struct {
	Arme        models.Arme
	Specialites []string
}{
	{models.Arme{Nom: "Infanterie", Code: "INF"}, []string{"Fantassin", "Tireur d'élite", "Mortier"}},
	{models.Arme{Nom: "Arme Blindée Cavalerie", Code: "ABC"}, []string{"Pilote de char", "Tireur de char"}},
	{models.Arme{Nom: "Artillerie", Code: "ART"}, []string{"Artillerie sol-sol", "Artillerie sol-air"}},
	{models.Arme{Nom: "Génie", Code: "GEN"}, []string{"Combat", "Travaux"}},
	{models.Arme{Nom: "Transmissions", Code: "TRS"}, []string{"Radio", "Informatique"}},
	{models.Arme{Nom: "Service de Santé", Code: "SAN"}, []string{"Médecin", "Infirmier"}},
	{models.Arme{Nom: "Matériel", Code: "MAT"}, []string{"Mécanicien auto", "Armurier"}},
}

var defaultFonctions = []string{
	"Chef de corps", "Commandant en second", "Chef de bureau", "Chef de section",
	"Instructeur", "Secrétaire", "Chauffeur",
}

var defaultPositions = []string{
	"En activité", "En détachement", "En disponibilité", "En non-activité", "Hors cadre",
}

// SeedUnites creates the default units that do not exist yet
func SeedUnites(db *gorm.DB) error {
	for _, in := range defaultUnites {
		code := *in.Code
		count, err := countWhere(db, &models.Unite{}, "code = ?", code)
		if err != nil {
			return fmt.Errorf("failed to check unite %s: %w", code, err)
		}
		if count > 0 {
			continue
		}
		if _, err := CreateUnite(db, in); err != nil {
			return fmt.Errorf("failed to create unite %s: %w", code, err)
		}
		zap.L().Info("[SEED] Created unite", zap.String("code", code))
	}
	return nil
}

// SeedReferenceData creates the default armes with their specialites, fonctions and positions
func SeedReferenceData(db *gorm.DB) error {
	for _, entry := range defaultArmes {
		arme := entry.Arme
		if err := db.Where("nom = ?", arme.Nom).FirstOrCreate(&arme).Error; err != nil {
			return fmt.Errorf("failed to seed arme %s: %w", arme.Nom, err)
		}
		for _, nom := range entry.Specialites {
			specialite := models.Specialite{Nom: nom, ArmeID: arme.ID}
			if err := db.Where("arme_id = ? AND nom = ?", arme.ID, nom).FirstOrCreate(&specialite).Error; err != nil {
				return fmt.Errorf("failed to seed specialite %s: %w", nom, err)
			}
		}
	}

	for _, titre := range defaultFonctions {
		fonction := models.Fonction{Titre: titre}
		if err := db.Where("titre = ?", titre).FirstOrCreate(&fonction).Error; err != nil {
			return fmt.Errorf("failed to seed fonction %s: %w", titre, err)
		}
	}

	for _, nom := range defaultPositions {
		position := models.Position{Nom: nom}
		if err := db.Where("nom = ?", nom).FirstOrCreate(&position).Error; err != nil {
			return fmt.Errorf("failed to seed position %s: %w", nom, err)
		}
	}
	return nil
}

// SeedAdmin creates the admin account from configuration.
// Only runs if ADMIN_PASSWORD is set and no user with ADMIN_EMAIL exists yet.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	email := normalizeEmail(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		zap.L().Warn("[SEED] ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	count, err := countWhere(db, &models.User{}, "email = ?", email)
	if err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("[SEED] Admin user already exists, skipping", zap.String("email", email))
		return nil
	}

	if err := ValidatePassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("ADMIN_PASSWORD rejected: %w", err)
	}
	hashed, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "Administrateur",
		LastName:  "Système",
		Role:      models.RoleAdmin,
		Language:  models.LanguageFrench,
		IsActive:  true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	zap.L().Info("[SEED] Created admin user", zap.String("email", email))
	return nil
}

// SeedAll runs every seed step. Each step is idempotent.
func SeedAll(db *gorm.DB, cfg *config.Config) error {
	if err := SeedUnites(db); err != nil {
		return err
	}
	if err := SeedReferenceData(db); err != nil {
		return err
	}
	return SeedAdmin(db, cfg)
}
