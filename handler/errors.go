package handler

import (
	"errors"
	"net/http"
)

// Kind classifies why a request was not served. The String form is the stable
// reason code returned to clients.
type Kind int

const (
	Internal Kind = iota
	RequestInvalid
	BodyMissing
	BodyNotExpected
	HeaderAuthorizationInvalid
	TokenDecodeFailed
	SecretInvalid
	PasswordHash
	Unauthorized
	NotFound
	Conflict
	MethodNotAllowed
)

var kindNames = map[Kind]string{
	Internal:                   "Internal",
	RequestInvalid:             "RequestInvalid",
	BodyMissing:                "BodyMissing",
	BodyNotExpected:            "BodyNotExpected",
	HeaderAuthorizationInvalid: "HeaderAuthorizationInvalid",
	TokenDecodeFailed:          "TokenDecodeFailed",
	SecretInvalid:              "SecretInvalid",
	PasswordHash:               "PasswordHash",
	Unauthorized:               "Unauthorized",
	NotFound:                   "NotFound",
	Conflict:                   "Conflict",
	MethodNotAllowed:           "MethodNotAllowed",
}

// String returns the reason code.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Status is the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case RequestInvalid, BodyMissing, BodyNotExpected:
		return http.StatusBadRequest
	case HeaderAuthorizationInvalid, TokenDecodeFailed, Unauthorized:
		return http.StatusUnauthorized
	case SecretInvalid, PasswordHash:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified request failure. Err carries detail for logs only and
// is never sent to the client.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, &Error{Kind: BodyMissing}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func fail(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind of err, or Internal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
