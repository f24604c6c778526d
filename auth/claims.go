package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
)

// ErrTokenDecode is returned for any bearer token that cannot be trusted:
// malformed, signed with another key or algorithm, expired, or from another issuer.
var ErrTokenDecode = errors.New("token decode failed")

// Claims is the payload of a bearer token.
type Claims struct {
	Sub string `json:"sub"`
	Iss string `json:"iss"`
	Exp int64  `json:"exp"`
}

// Encode signs the claims with HMAC-SHA256.
func (c Claims) Encode(key *SigningKey) (string, error) {
	var token string
	err := key.use(func(secret []byte) error {
		var err error
		token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return token, nil
}

// DecodeClaims verifies token with key and returns its claims.
func DecodeClaims(token string, key *SigningKey) (Claims, error) {
	return decode(token, key)
}

func decode(token string, key *SigningKey, opts ...jwt.ParserOption) (Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	var claims Claims
	err := key.use(func(secret []byte) error {
		_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		}, opts...)
		return err
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrTokenDecode, err)
	}
	return claims, nil
}

// Node is the User pattern for the token subject.
func (c Claims) Node() cypher.Node {
	return cypher.NewNode(cypher.Properties{"email": cypher.String(c.Sub)}, "u", "User")
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.Exp == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)              { return c.Iss, nil }
func (c Claims) GetSubject() (string, error)             { return c.Sub, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// Issuer mints and verifies tokens for a single issuer name.
type Issuer struct {
	key  *SigningKey
	name string
	ttl  time.Duration
	now  func() time.Time
}

// NewIssuer creates an Issuer whose tokens expire after ttl.
func NewIssuer(key *SigningKey, name string, ttl time.Duration) *Issuer {
	return &Issuer{key: key, name: name, ttl: ttl, now: time.Now}
}

// Issue signs a token for subject.
func (i *Issuer) Issue(subject string) (string, error) {
	claims := Claims{
		Sub: subject,
		Iss: i.name,
		Exp: i.now().Add(i.ttl).Unix(),
	}
	return claims.Encode(i.key)
}

// Verify decodes token and additionally requires an expiry and this issuer.
func (i *Issuer) Verify(token string) (Claims, error) {
	return decode(token, i.key,
		jwt.WithIssuer(i.name),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
}
