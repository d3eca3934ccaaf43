// internal/auth/session.go

// Package auth issues and verifies the admin session tokens guarding the
// lobby-management API. Players are never authenticated; admins exchange
// the configured password for a short-lived JWT.
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Admin tokens are signed with an ed25519 key pair generated at startup.
// Restarting the process invalidates outstanding sessions, which is fine
// for a party-length deployment.
type Signer struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	expire     time.Duration
}

// NewSigner generates a fresh key pair. Token lifetime comes from the
// TOKEN_EXPIRE_TIME env var ("never", "0" or empty disables expiry).
func NewSigner() (*Signer, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key pair: %w", err)
	}

	expire := time.Duration(0)
	if v := os.Getenv("TOKEN_EXPIRE_TIME"); v != "" && v != "never" && v != "0" {
		expire, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse TOKEN_EXPIRE_TIME: %w", err)
		}
	}
	return &Signer{privateKey: privateKey, publicKey: publicKey, expire: expire}, nil
}

// CreateJWT returns a signed admin token with a unique jti claim.
func (s *Signer) CreateJWT() (string, error) {
	claims := jwt.MapClaims{
		"sub": "admin",
		"jti": uuid.New().String(),
	}
	if s.expire > 0 {
		claims["exp"] = time.Now().Add(s.expire).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(s.privateKey)
}

// Verify parses tokenString and confirms it is a valid admin token.
func (s *Signer) Verify(tokenString string) error {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.publicKey, nil
	})
	if err != nil {
		return fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid jwt claims")
	}
	if sub, _ := claims["sub"].(string); sub != "admin" {
		return fmt.Errorf("not an admin token")
	}
	return nil
}
