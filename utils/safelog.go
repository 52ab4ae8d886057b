package utils

import (
	"os"
	"strings"
)

// IsProduction masks personal data in logs when set.
var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production"

// MaskEmail keeps the first character of the local part and the domain so
// production logs stay correlatable without exposing the address.
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}

	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
