package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"personnel_app_go/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

// Authentication messages shown to the client
const (
	MsgInvalidCredentials = "Email ou mot de passe incorrect"
	MsgAccountDisabled    = "Compte désactivé"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// Login authenticates a user by email and password and issues an access token.
// An inactive account is refused before the password is checked.
func Login(db *gorm.DB, tokens *TokenService, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			LogSecurityEvent(db, "LOGIN_FAILED", "", "unknown email: "+email)
			return nil, AuthenticationError(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsActive {
		LogSecurityEvent(db, "LOGIN_BLOCKED", user.ID, "inactive account")
		return nil, AuthenticationError(MsgAccountDisabled)
	}

	if !VerifyPassword(user.Password, password) {
		LogSecurityEvent(db, "LOGIN_FAILED", user.ID, "wrong password")
		return nil, AuthenticationError(MsgInvalidCredentials)
	}

	token, expiresAt, err := tokens.GenerateAccessToken(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	now := time.Now()
	if err := db.Model(&user).Update("last_login_at", now).Error; err != nil {
		zap.L().Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: &user}, nil
}

// RegisterInput is the payload of Register
type RegisterInput struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required"`
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    string  `json:"lastName" validate:"required"`
	InstituteID *string `json:"instituteId"`
}

// Register creates a USER account with the FRENCH language
func Register(db *gorm.DB, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	firstName := sanitizeText(in.FirstName)
	lastName := sanitizeText(in.LastName)
	if email == "" || firstName == "" || lastName == "" {
		return nil, ValidationError("L'email, le prénom et le nom sont requis")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:       email,
		Password:    hashed,
		FirstName:   firstName,
		LastName:    lastName,
		Role:        models.RoleUser,
		Language:    models.LanguageFrench,
		InstituteID: trimmedPtr(in.InstituteID),
		IsActive:    true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ConflictError("Un utilisateur avec cet email existe déjà")
		}
		if user.InstituteID != nil {
			if err := ensureUniteExists(tx, *user.InstituteID); err != nil {
				if KindOf(err) == KindNotFound {
					return ValidationError("L'institut avec l'ID %s n'existe pas", *user.InstituteID)
				}
				return err
			}
		}
		return conflictOr(tx.Create(user).Error, "Un utilisateur avec cet email existe déjà")
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("User registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// GetUserByID retrieves a user
func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "L'utilisateur avec l'ID %s n'existe pas", id)
	}
	return &user, nil
}

// ChangePassword replaces the password of a user after re-verifying the current one
func ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error {
	user, err := GetUserByID(db, userID)
	if err != nil {
		return err
	}

	if !VerifyPassword(user.Password, currentPassword) {
		LogSecurityEvent(db, "PASSWORD_CHANGE_FAILED", user.ID, "wrong current password")
		return AuthenticationError("Mot de passe actuel incorrect")
	}
	if currentPassword == newPassword {
		return ValidationError("Le nouveau mot de passe doit être différent de l'ancien")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := db.Model(user).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	LogSecurityEvent(db, "PASSWORD_CHANGED", user.ID, "password changed by user")
	return nil
}
