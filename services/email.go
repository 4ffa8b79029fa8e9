package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"personnel_app_go/config"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In test mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	zap.L().Info("Email sent via Resend", zap.String("id", sent.Id), zap.Strings("to", email.To))
	return nil
}

// logEmailToConsole logs email details instead of sending them
func logEmailToConsole(email *Email) {
	zap.L().Info("Email logged (test mode, not sent)",
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("text", email.TextBody),
		zap.String("html", truncate(email.HTMLBody, 500)),
	)
}

// truncate truncates a string to a maximum number of runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}

// SendEmailAsync sends an email in a goroutine so the HTTP response is not delayed
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			zap.L().Error("Error sending async email", zap.Strings("to", email.To), zap.Error(err))
		}
	}(cfg, emailCopy)
}

// PasswordResetEmailData contains data for the password reset email
type PasswordResetEmailData struct {
	UserName  string
	ResetLink string
	ExpiresAt string
}

const passwordResetHTML = `<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <p>Bonjour {{.UserName}},</p>
  <p>Une demande de réinitialisation du mot de passe a été faite pour votre compte.</p>
  <p><a href="{{.ResetLink}}" style="background:#1e3a8a;color:#fff;padding:10px 16px;text-decoration:none;border-radius:4px;">Réinitialiser le mot de passe</a></p>
  <p>Ce lien expire le {{.ExpiresAt}}.</p>
  <p>Si vous n'êtes pas à l'origine de cette demande, ignorez cet email.</p>
</body>
</html>`

const passwordResetText = `Bonjour {{.UserName}},

Une demande de réinitialisation du mot de passe a été faite pour votre compte.
Ouvrez le lien suivant pour choisir un nouveau mot de passe :

{{.ResetLink}}

Ce lien expire le {{.ExpiresAt}}.
Si vous n'êtes pas à l'origine de cette demande, ignorez cet email.
`

var (
	passwordResetHTMLTmpl = htmltemplate.Must(htmltemplate.New("password_reset.html").Parse(passwordResetHTML))
	passwordResetTextTmpl = texttemplate.Must(texttemplate.New("password_reset.txt").Parse(passwordResetText))
)

// BuildPasswordResetEmail creates the password reset email
func BuildPasswordResetEmail(userEmail, userName, resetLink string, expiresAt time.Time) *Email {
	data := PasswordResetEmailData{
		UserName:  userName,
		ResetLink: resetLink,
		ExpiresAt: expiresAt.Format("02/01/2006 à 15:04"),
	}

	var html, text bytes.Buffer
	if err := passwordResetHTMLTmpl.Execute(&html, data); err != nil {
		zap.L().Error("Failed to render password reset email", zap.Error(err))
	}
	if err := passwordResetTextTmpl.Execute(&text, data); err != nil {
		zap.L().Error("Failed to render password reset email", zap.Error(err))
	}

	return &Email{
		To:       []string{userEmail},
		Subject:  "Réinitialisation de votre mot de passe",
		HTMLBody: html.String(),
		TextBody: strings.TrimSpace(text.String()),
	}
}
