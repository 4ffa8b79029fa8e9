package models

import "github.com/google/uuid"

// All returns every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Unite{},
		&Institut{},
		&DCT{},
		&PC{},
		&SousUnite{},
		&Fonction{},
		&Arme{},
		&Specialite{},
		&Position{},
		&Personnel{},
		&Militaire{},
		&Professeur{},
		&Etudiant{},
		&Employe{},
		&Decoration{},
		&Notation{},
		&StageMilitaire{},
		&SituationHistorique{},
		&Diplome{},
		&Document{},
		&DailySituation{},
		&AuditLog{},
	}
}

// ensureID assigns a fresh UUID when the primary key is empty
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
