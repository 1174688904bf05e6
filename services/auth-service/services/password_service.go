package services

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper    = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLower    = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoNumber   = errors.New("password must contain at least one number")
	ErrPasswordNoSpecial  = errors.New("password must contain at least one special character")
	ErrPasswordCommon     = errors.New("password is too common")
	ErrPasswordSequential = errors.New("password contains sequential characters")
	ErrPasswordRepeating  = errors.New("password contains repeating characters")
)

// PasswordValidator validates passwords against security requirements
type PasswordValidator struct {
	minLength       int
	requireUpper    bool
	requireLower    bool
	requireNumber   bool
	requireSpecial  bool
	commonPasswords map[string]bool
}

// NewPasswordValidator creates a new password validator with default settings
func NewPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		minLength:      8,
		requireUpper:   true,
		requireLower:   true,
		requireNumber:  true,
		requireSpecial: true,
		commonPasswords: map[string]bool{
			"password":  true,
			"password1": true,
			"123456":    true,
			"qwerty":    true,
			"admin":     true,
			"welcome":   true,
			"letmein":   true,
		},
	}
}

// ValidatePassword returns the first rule the password breaks.
func (pv *PasswordValidator) ValidatePassword(password string) error {
	if len([]rune(password)) < pv.minLength {
		return ErrPasswordTooShort
	}
	if pv.isCommon(password) {
		return ErrPasswordCommon
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	var prev rune
	repeat := 0

	for i, char := range []rune(password) {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}

		if i > 0 && char == prev {
			repeat++
			if repeat >= 3 {
				return ErrPasswordRepeating
			}
		} else {
			repeat = 1
		}

		if i > 0 && (char == prev+1 || char == prev-1) {
			return ErrPasswordSequential
		}
		prev = char
	}

	switch {
	case pv.requireUpper && !hasUpper:
		return ErrPasswordNoUpper
	case pv.requireLower && !hasLower:
		return ErrPasswordNoLower
	case pv.requireNumber && !hasNumber:
		return ErrPasswordNoNumber
	case pv.requireSpecial && !hasSpecial:
		return ErrPasswordNoSpecial
	}
	return nil
}

// isCommon ignores case and trailing digits/punctuation ("Password1!").
func (pv *PasswordValidator) isCommon(password string) bool {
	lower := strings.ToLower(password)
	if pv.commonPasswords[lower] {
		return true
	}
	trimmed := strings.TrimRightFunc(lower, func(r rune) bool {
		return unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return pv.commonPasswords[trimmed]
}

// IsPasswordStrong checks if a password meets minimum security requirements
func IsPasswordStrong(password string) bool {
	return NewPasswordValidator().ValidatePassword(password) == nil
}
