// Package auth hashes passwords and issues the bearer tokens the HTTP layer
// authenticates with. Token resolution only yields a user ID; callers must
// re-fetch the account from the store so a stale token never carries an old
// role.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

type Credentials struct {
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

func NewCredentials(secret string, tokenTTL time.Duration, bcryptCost int) *Credentials {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Credentials{
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// HashPassword produces a salted one-way digest. Two calls on the same input
// yield different digests that both verify.
func (c *Credentials) HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), c.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (c *Credentials) VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for the user, valid for the configured TTL.
func (c *Credentials) IssueToken(u *domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ResolveToken returns the user ID a valid token was issued for. It fails
// closed: any parse, signature or expiry problem yields ok=false, never an
// error the caller could mistake for something retryable.
func (c *Credentials) ResolveToken(token string) (userID string, ok bool) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}
	claims, isClaims := parsed.Claims.(*tokenClaims)
	if !isClaims || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
