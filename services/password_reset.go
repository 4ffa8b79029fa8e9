package services

import (
	"errors"
	"fmt"
	"time"

	"personnel_app_go/config"
	"personnel_app_go/models"

	"gorm.io/gorm"
)

// MsgResetRequested is returned whether or not the email matched an account
const MsgResetRequested = "Si un compte actif correspond à cet email, un lien de réinitialisation a été envoyé"

// ResetRequest is the outcome of RequestPasswordReset. Token is empty when
// no email was sent.
type ResetRequest struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// RequestPasswordReset issues a password-reset token for an active user and
// mails the reset link. Unknown or inactive emails are not revealed.
func RequestPasswordReset(db *gorm.DB, cfg *config.Config, tokens *TokenService, email string) (*ResetRequest, error) {
	email = normalizeEmail(email)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			LogSecurityEvent(db, "PASSWORD_RESET_UNKNOWN_EMAIL", "", email)
			return &ResetRequest{}, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsActive {
		LogSecurityEvent(db, "PASSWORD_RESET_INACTIVE", user.ID, email)
		return &ResetRequest{}, nil
	}

	token, expiresAt, err := tokens.GeneratePasswordResetToken(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", cfg.AppURL, token)
	SendEmailAsync(cfg, BuildPasswordResetEmail(user.Email, user.FullName(), resetLink, expiresAt))

	LogSecurityEvent(db, "PASSWORD_RESET_REQUESTED", user.ID, "reset link sent")
	return &ResetRequest{Token: token, ExpiresAt: expiresAt, User: &user}, nil
}

// ValidateResetToken checks a reset token and returns the user it was issued for
func ValidateResetToken(db *gorm.DB, tokens *TokenService, token string) (*models.User, error) {
	claims, err := tokens.ParseToken(token, TokenTypePasswordReset)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, ValidationError("Le lien de réinitialisation a expiré")
		}
		return nil, ValidationError("Lien de réinitialisation invalide")
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ValidationError("Lien de réinitialisation invalide")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, AuthenticationError(MsgAccountDisabled)
	}
	if claims.Fingerprint != passwordFingerprint(user.Password) {
		return nil, ValidationError("Ce lien de réinitialisation a déjà été utilisé")
	}
	return &user, nil
}

// ResetPassword replaces the password of the user a valid reset token was issued for
func ResetPassword(db *gorm.DB, tokens *TokenService, token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := ValidateResetToken(db, tokens, token)
	if err != nil {
		LogSecurityEvent(db, "PASSWORD_RESET_FAILED", "", err.Error())
		return err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := db.Model(user).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	LogSecurityEvent(db, "PASSWORD_RESET_COMPLETED", user.ID, "Password successfully reset")
	return nil
}
