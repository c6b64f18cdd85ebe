// Package uuid issues and checks the time-ordered identifiers used as
// anonymous session keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7. Falls back to a random UUIDv4 when the clock
// sequence cannot be read.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and normalizes a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}

// Version returns the version nibble of s, or 0 when s is not a UUID.
func Version(s string) int {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return 0
	}
	return int(parsed.Version())
}
