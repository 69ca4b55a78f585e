package common

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bobmcallan/fintrack/internal/models"
)

var localPartPattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// IsValidEmailAddress reports whether s is an address on the one accepted
// provider domain. The local part allows letters, digits, dot, underscore and
// hyphen. Matching is case-insensitive.
func IsValidEmailAddress(s, domain string) bool {
	addr := strings.ToLower(strings.TrimSpace(s))
	local, host, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return false
	}
	if host != strings.ToLower(domain) {
		return false
	}
	return localPartPattern.MatchString(local)
}

// ValidatePassword returns models.ErrWeakPassword when p has fewer than
// minLength characters.
func ValidatePassword(p string, minLength int) error {
	if utf8.RuneCountInString(p) < minLength {
		return fmt.Errorf("%w: must be at least %d characters", models.ErrWeakPassword, minLength)
	}
	return nil
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmailLocalPart returns the part of the address before "@".
func EmailLocalPart(s string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(s), "@")
	return local
}
