package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signingKey(t *testing.T, key string) *SigningKey {
	t.Helper()
	k, err := NewSigningKey([]byte(key))
	require.NoError(t, err)
	return k
}

func TestClaims_RoundTrip(t *testing.T) {
	key := signingKey(t, "signing-key")
	claims := Claims{
		Sub: testEmail,
		Iss: "oceanics.io",
		Exp: time.Now().Add(time.Hour).Unix(),
	}

	token, err := claims.Encode(key)
	require.NoError(t, err)

	decoded, err := DecodeClaims(token, key)
	require.NoError(t, err)
	assert.Equal(t, claims, decoded)
}

func TestClaims_DecodeFailures(t *testing.T) {
	key := signingKey(t, "signing-key")
	claims := Claims{Sub: testEmail, Iss: "oceanics.io", Exp: time.Now().Add(time.Hour).Unix()}
	token, err := claims.Encode(key)
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := DecodeClaims(token, signingKey(t, "another-key"))
		assert.ErrorIs(t, err, ErrTokenDecode)
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := token[:len(token)-2] + "xx"
		if tampered == token {
			tampered = token[:len(token)-2] + "yy"
		}
		_, err := DecodeClaims(tampered, key)
		assert.ErrorIs(t, err, ErrTokenDecode)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeClaims("not-a-token", key)
		assert.ErrorIs(t, err, ErrTokenDecode)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := Claims{Sub: testEmail, Exp: time.Now().Add(-time.Hour).Unix()}.Encode(key)
		require.NoError(t, err)
		_, err = DecodeClaims(expired, key)
		assert.ErrorIs(t, err, ErrTokenDecode)
	})
}

func TestClaims_Node(t *testing.T) {
	node := Claims{Sub: testEmail}.Node()
	assert.Equal(t, "User", node.Label)
	assert.Equal(t, "u", node.Symbol)
	assert.Equal(t, "( u:User { email: 'test@oceanics.io' } )", node.String())
}

func TestIssuer(t *testing.T) {
	key := signingKey(t, "signing-key")
	issuer := NewIssuer(key, "oceanics.io", time.Hour)

	token, err := issuer.Issue(testEmail)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testEmail, claims.Sub)
	assert.Equal(t, "oceanics.io", claims.Iss)

	other := NewIssuer(key, "elsewhere", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenDecode)

	noExpiry, err := Claims{Sub: testEmail, Iss: "oceanics.io"}.Encode(key)
	require.NoError(t, err)
	_, err = issuer.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrTokenDecode)
}

func TestSigningKey(t *testing.T) {
	raw := []byte("signing-key")
	key, err := NewSigningKey(raw)
	require.NoError(t, err)

	assert.Equal(t, []byte("signing-key"), raw, "caller's slice must not be wiped")
	assert.Equal(t, "[REDACTED]", key.String())
	assert.Equal(t, "[REDACTED]", key.LogValue().String())

	_, err = NewSigningKey(nil)
	assert.ErrorIs(t, err, ErrSigningKeyEmpty)
}
