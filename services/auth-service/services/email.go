package services

import (
	"fmt"
	"time"
)

const (
	PasswordResetSubject  = "Password Reset - E-Commerce"
	PasswordResetCategory = "Password Reset"
)

// buildPasswordResetEmailHTML embeds the raw token the user pastes back.
func buildPasswordResetEmailHTML(token string, ttl time.Duration) string {
	return fmt.Sprintf(
		"<p>You requested to reset your password.</p>"+
			"<p>Paste this code to reset password: %s</p>"+
			"<p>This code will expire in %s.</p>",
		token, humanizeTTL(ttl),
	)
}

func humanizeTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
