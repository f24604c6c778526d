package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
)

const (
	// DefaultIterations is the PBKDF2 work factor used when none is configured.
	DefaultIterations = 600_000

	// DefaultKeyLength is the derived hash length in bytes.
	DefaultKeyLength = 32

	// MinSaltSize and MaxSaltSize bound the decoded secret used as salt.
	MinSaltSize = 4
	MaxSaltSize = 48
)

var (
	// ErrSecretInvalid is returned when the secret is not base64 or decodes to
	// a salt outside MinSaltSize..MaxSaltSize.
	ErrSecretInvalid = errors.New("secret invalid")

	// ErrPasswordHash is returned when the password cannot be hashed.
	ErrPasswordHash = errors.New("password hash failed")
)

// Verifier derives stored credentials from basic-auth passwords using
// PBKDF2-HMAC-SHA256 with the caller's secret as salt.
type Verifier struct {
	Iterations int
	KeyLength  int
}

// NewVerifier returns a Verifier with the given work factor, falling back to
// DefaultIterations when iterations is not positive.
func NewVerifier(iterations int) Verifier {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return Verifier{Iterations: iterations, KeyLength: DefaultKeyLength}
}

// Credential hashes a base64 password against a base64 secret.
//
// Returns a PHC string of the form:
//
//	$pbkdf2-sha256$i=<iterations>,l=<length>$<salt>$<hash>
//
// with salt and hash in unpadded standard base64.
func (v Verifier) Credential(password, secret string) (string, error) {
	salt, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSecretInvalid, err)
	}
	if len(salt) < MinSaltSize || len(salt) > MaxSaltSize {
		return "", fmt.Errorf("%w: salt must be %d to %d bytes, got %d",
			ErrSecretInvalid, MinSaltSize, MaxSaltSize, len(salt))
	}

	plain, err := base64.StdEncoding.DecodeString(password)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPasswordHash, err)
	}
	if len(plain) == 0 {
		return "", fmt.Errorf("%w: empty password", ErrPasswordHash)
	}
	if v.Iterations <= 0 || v.KeyLength <= 0 {
		return "", fmt.Errorf("%w: iterations and key length must be positive", ErrPasswordHash)
	}

	hash := pbkdf2.Key(plain, salt, v.Iterations, v.KeyLength, sha256.New)
	enc := base64.RawStdEncoding
	return fmt.Sprintf("$pbkdf2-sha256$i=%d,l=%d$%s$%s",
		v.Iterations, v.KeyLength, enc.EncodeToString(salt), enc.EncodeToString(hash)), nil
}

// Node returns the User pattern used to look up the account behind b.
func (v Verifier) Node(b Basic) (cypher.Node, error) {
	credential, err := v.Credential(b.Password, b.Secret)
	if err != nil {
		return cypher.Node{}, err
	}
	return cypher.NewNode(cypher.Properties{
		"email":      cypher.String(b.Email),
		"credential": cypher.String(credential),
	}, "u", "User"), nil
}
