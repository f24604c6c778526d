package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "test@oceanics.io"
	testPassword = "c29tZV9wYXNzd29yZA==" // some_password
	testSecret   = "c29tZV9zZWNyZXQ="     // some_secret
	testBasic    = testEmail + ":" + testPassword + ":" + testSecret
)

func ptr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		header *string
		want   Authentication
		ok     bool
	}{
		{"absent", nil, NoAuth, true},
		{"bearer lowercase", ptr("bearer:abc.def.ghi"), BearerAuth, true},
		{"bearer capitalised", ptr("Bearer:abc.def.ghi"), BearerAuth, true},
		{"bearer without token", ptr("Bearer:"), NoAuth, false},
		{"basic", ptr(testBasic), BasicAuth, true},
		{"basic plaintext password and secret", ptr(testEmail + ":some_password:some_secret"), NoAuth, false},
		{"basic secret not base64", ptr(testEmail + ":" + testPassword + ":not-base64!"), NoAuth, false},
		{"basic missing secret", ptr(testEmail + ":" + testPassword), NoAuth, false},
		{"basic missing at sign", ptr("testoceanics.io:" + testPassword + ":" + testSecret), NoAuth, false},
		{"empty", ptr(""), NoAuth, false},
		{"other scheme", ptr("Basic dXNlcjpwYXNz"), NoAuth, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBasic(t *testing.T) {
	basic, err := ParseBasic(testBasic)
	require.NoError(t, err)
	assert.Equal(t, Basic{Email: testEmail, Password: testPassword, Secret: testSecret}, basic)

	_, err = ParseBasic("bearer:token")
	assert.ErrorIs(t, err, ErrHeaderInvalid)
}

func TestParseBearer(t *testing.T) {
	token, err := ParseBearer("Bearer:abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ParseBearer(testBasic)
	assert.ErrorIs(t, err, ErrHeaderInvalid)
}

func TestAuthentication_String(t *testing.T) {
	assert.Equal(t, "none", NoAuth.String())
	assert.Equal(t, "basic", BasicAuth.String())
	assert.Equal(t, "bearer", BearerAuth.String())
	assert.Equal(t, "unknown", Authentication(9).String())
}
