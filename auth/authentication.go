package auth

import (
	"errors"
	"regexp"
)

// Authentication is the credential scheme an Authorization header uses.
type Authentication int

const (
	NoAuth Authentication = iota
	BasicAuth
	BearerAuth
)

// String returns the scheme name.
func (a Authentication) String() string {
	switch a {
	case NoAuth:
		return "none"
	case BasicAuth:
		return "basic"
	case BearerAuth:
		return "bearer"
	default:
		return "unknown"
	}
}

// ErrHeaderInvalid is returned when an Authorization header matches neither
// supported scheme.
var ErrHeaderInvalid = errors.New("authorization header invalid")

const base64Segment = `((?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{2}==|[A-Za-z0-9+/]{3}=|[A-Za-z0-9+/]{4}))`

var (
	bearerPattern = regexp.MustCompile(`^[Bb]earer:(.+)$`)
	basicPattern  = regexp.MustCompile(`^((.+)@(.+)\.([A-Za-z]{2,})):` + base64Segment + `:` + base64Segment + `$`)
)

// Classify inspects the raw Authorization header. A nil header is NoAuth. The
// boolean is false when a header is present but matches neither scheme, which
// callers must treat as a rejection.
//
// Classification is syntactic only; it does not verify signatures or hashes.
func Classify(header *string) (Authentication, bool) {
	if header == nil {
		return NoAuth, true
	}
	switch {
	case bearerPattern.MatchString(*header):
		return BearerAuth, true
	case basicPattern.MatchString(*header):
		return BasicAuth, true
	default:
		return NoAuth, false
	}
}

// Basic holds the parts of a basic Authorization header. Password and Secret
// are still base64 encoded.
type Basic struct {
	Email    string
	Password string
	Secret   string
}

// ParseBearer extracts the token from a bearer header.
func ParseBearer(header string) (string, error) {
	match := bearerPattern.FindStringSubmatch(header)
	if match == nil {
		return "", ErrHeaderInvalid
	}
	return match[1], nil
}

// ParseBasic splits a basic header of the form `email:password:secret`.
func ParseBasic(header string) (Basic, error) {
	match := basicPattern.FindStringSubmatch(header)
	if match == nil {
		return Basic{}, ErrHeaderInvalid
	}
	return Basic{Email: match[1], Password: match[5], Secret: match[6]}, nil
}
