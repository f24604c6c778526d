// Package auth classifies Authorization headers and turns verified credentials
// into the User pattern the graph API looks up.
//
// Two header shapes are accepted:
//
//	bearer:<jwt>
//	<email>:<base64 password>:<base64 secret>
//
// Bearer tokens are HS256 JWTs signed with a SigningKey. Basic credentials are
// hashed with PBKDF2-HMAC-SHA256, using the decoded secret as salt.
package auth
