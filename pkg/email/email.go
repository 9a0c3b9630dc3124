package email

import (
	"strings"
	"unicode"
)

// DeriveNameFromEmail produces a displayable first/last name from an email
// local part. Used by notification templates when the nominator's profile row
// has not materialized yet, so an approval email never greets an empty name.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "Member", "Member"
	}

	first := capitalize(parts[0])
	last := "Member"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
