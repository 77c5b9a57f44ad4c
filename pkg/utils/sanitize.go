package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SanitizeString trims whitespace and escapes HTML entities.
func SanitizeString(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

// SanitizeEmail lowercases, trims and strips tags and control characters.
func SanitizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	email = htmlTag.ReplaceAllString(email, "")
	return removeControlChars(email)
}

// SanitizePhone keeps digits and a leading plus sign.
func SanitizePhone(phone string) string {
	phone = htmlTag.ReplaceAllString(strings.TrimSpace(phone), "")

	var result strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// SanitizeIdentifier cleans a login identifier, which may be an email or a mobile number.
// Anything that is neither is only trimmed and stripped of tags and control
// characters, so an unknown name still reaches the user lookup.
func SanitizeIdentifier(identifier string) string {
	if LooksLikeEmail(identifier) {
		return SanitizeEmail(identifier)
	}
	if looksLikePhone(identifier) {
		return SanitizePhone(identifier)
	}
	return removeControlChars(htmlTag.ReplaceAllString(strings.TrimSpace(identifier), ""))
}

// looksLikePhone reports whether s holds at least one digit and otherwise only
// the punctuation people type in phone numbers.
func looksLikePhone(s string) bool {
	digits := 0
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune("+-(). ", r):
		default:
			return false
		}
	}
	return digits > 0
}

func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
