package utils

import (
	"github.com/google/uuid"
)

func GenerateUUIDString() string {
	return uuid.New().String()
}

// GenerateSessionToken returns the opaque value stored in the session cookie
func GenerateSessionToken() string {
	return uuid.New().String()
}

// ShortToken trims a credential for log output
func ShortToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}
