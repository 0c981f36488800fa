package utils

import (
	"os"
	"strings"
)

// Getenv returns the trimmed value of the environment variable key, or fallback when it is unset or blank.
func Getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
