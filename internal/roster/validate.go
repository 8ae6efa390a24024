package roster

import (
	"regexp"
	"strings"
	"unicode"
)

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	MissingFields ErrorKind = "missing_fields"
	InvalidEmail  ErrorKind = "invalid_email"
)

// ValidationError is the single, operator-facing reason a draft was rejected.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is matches on Kind so callers can use errors.Is with the sentinels below.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingFields = &ValidationError{Kind: MissingFields, Message: "All fields are required."}
	ErrInvalidEmail  = &ValidationError{Kind: InvalidEmail, Message: "Invalid email format."}
)

// Whitespace in the email rule covers the Unicode separators and the byte
// order mark, not just ASCII blanks.
var emailPattern = regexp.MustCompile(
	`^[^\s\v\p{Z}\x{85}\x{feff}@]+@[^\s\v\p{Z}\x{85}\x{feff}@]+\.[^\s\v\p{Z}\x{85}\x{feff}]+$`)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// Validate checks required fields first, then the email format, and
// returns the first failure only.
func Validate(f Fields) error {
	email := trim(f.Email)
	if trim(f.Name) == "" || email == "" || trim(f.IDNumber) == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
