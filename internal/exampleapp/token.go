package exampleapp

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenIssuer = "authtester-exampleapp"

// tokenSigner issues and checks HS256 tokens.
type tokenSigner struct {
	secret []byte
	ttl    time.Duration
}

func newTokenSigner(secret []byte, ttl time.Duration) (*tokenSigner, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenSigner{secret: secret, ttl: ttl}, nil
}

func (s *tokenSigner) issue(login string) (string, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(login).
		IssuedAt(now).
		Expiration(now.Add(s.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// verify returns the subject of a valid token.
func (s *tokenSigner) verify(token string) (string, error) {
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return "", err
	}
	return tok.Subject(), nil
}
