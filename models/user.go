package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Language values
const (
	LanguageFrench  = "FRENCH"
	LanguageArabic  = "ARABIC"
	LanguageEnglish = "ENGLISH"
)

type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `gorm:"not null" json:"firstName"`
	LastName    string     `gorm:"not null" json:"lastName"`
	Role        string     `gorm:"not null;default:USER" json:"role"`
	Language    string     `gorm:"not null;default:FRENCH" json:"language"`
	InstituteID *string    `gorm:"type:uuid;index" json:"instituteId"` // Unite the user is attached to, if any
	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// FullName returns "FirstName LastName"
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsValidRole checks a role value
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// IsValidLanguage checks a language value
func IsValidLanguage(lang string) bool {
	switch lang {
	case LanguageFrench, LanguageArabic, LanguageEnglish:
		return true
	}
	return false
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
