// Package auth provides JWT session tokens, password hashing, and the
// GitHub OAuth flow for the snippet API.
//
// SESSION MODEL:
// A successful login (password or GitHub) issues a signed JWT stored in an
// HttpOnly cookie. On each request the middleware reads the cookie,
// verifies the signature, and puts the user ID into the request context.
// No server-side session store — everything the server needs (user ID,
// expiry) travels inside the signed token, and the HMAC signature keeps it
// tamper-proof.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is baked into every token and checked on validation, so a
// token minted by some other app signed with a leaked copy of the same
// secret still fails here.
const tokenIssuer = "snippetbin"

// TokenLifetime is how long a session cookie stays valid. Snippets are a
// low-stakes resource; a daily re-login is the right trade against keeping
// a refresh-token flow around.
const TokenLifetime = 24 * time.Hour

// TokenService signs and verifies session JWTs with an HMAC secret.
// The same secret does both — keep it out of the repo, rotate it when in
// doubt.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Use at least 32 bytes of randomness in production:
//
//	JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the user ID rides in the standard
// "sub" (Subject) claim.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID,
// valid for TokenLifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, TokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the userID from the
// "sub" claim.
//
// The WithValidMethods option pins HS256: without it, an attacker could try
// an "alg confusion" token (e.g. alg=none) and hope the library accepts it.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
