package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/awnumar/memguard"
)

// ErrSigningKeyEmpty is returned when a SigningKey is built from no bytes.
var ErrSigningKeyEmpty = errors.New("signing key is empty")

// SigningKey is the process-wide HMAC key for bearer tokens. The key material
// is kept encrypted in a memguard enclave and is only decrypted into locked
// memory for the duration of a sign or verify call. It never prints.
type SigningKey struct {
	enclave *memguard.Enclave
}

// NewSigningKey seals a copy of key. The caller's slice is left untouched.
func NewSigningKey(key []byte) (*SigningKey, error) {
	if len(key) == 0 {
		return nil, ErrSigningKeyEmpty
	}
	buf := make([]byte, len(key))
	copy(buf, key)
	return &SigningKey{enclave: memguard.NewEnclave(buf)}, nil
}

// use opens the enclave and hands the plaintext key to fn. The plaintext is
// destroyed when fn returns, so fn must not retain it.
func (k *SigningKey) use(fn func(key []byte) error) error {
	buf, err := k.enclave.Open()
	if err != nil {
		return fmt.Errorf("could not open signing key: %w", err)
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

func (k *SigningKey) String() string { return "[REDACTED]" }

// LogValue keeps the key out of structured logs.
func (k *SigningKey) LogValue() slog.Value { return slog.StringValue("[REDACTED]") }
