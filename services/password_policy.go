package services

import (
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength counts runes, so "é" is one character
const MinPasswordLength = 12

type passwordRule struct {
	ok      func(r rune) bool
	message string
}

var passwordRules = []passwordRule{
	{unicode.IsUpper, "Le mot de passe doit contenir au moins une majuscule"},
	{unicode.IsLower, "Le mot de passe doit contenir au moins une minuscule"},
	{unicode.IsNumber, "Le mot de passe doit contenir au moins un chiffre"},
	{func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }, "Le mot de passe doit contenir au moins un caractère spécial"},
}

// ValidatePassword returns a KindValidation error naming the first rule the
// password breaks: length, then upper, lower, digit and special character.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ValidationError("Le mot de passe doit contenir au moins %d caractères", MinPasswordLength)
	}
	for _, rule := range passwordRules {
		if !containsRune(password, rule.ok) {
			return ValidationError("%s", rule.message)
		}
	}
	return nil
}

func containsRune(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}
