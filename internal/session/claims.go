package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token fields the console displays. Tokens are decoded
// unverified: signature validation is the server's job, the client only needs
// the identity and the expiry for refresh timing.
type Claims struct {
	Subject     string
	Email       string
	Role        string
	CompanyID   string
	CompanyName string
	ExpiresAt   time.Time
}

type rawClaims struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	jwt.RegisteredClaims
}

// ParseClaims decodes an access token without verifying its signature.
func ParseClaims(token string) (*Claims, error) {
	var raw rawClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &raw); err != nil {
		return nil, err
	}
	c := &Claims{
		Subject:     raw.Subject,
		Email:       raw.Email,
		Role:        raw.Role,
		CompanyID:   raw.CompanyID,
		CompanyName: raw.CompanyName,
	}
	if raw.ExpiresAt != nil {
		c.ExpiresAt = raw.ExpiresAt.Time
	}
	return c, nil
}

// User builds a best-effort identity from the claims, used when the login
// response omits the embedded user object.
func (c *Claims) User() *User {
	return &User{
		ID:          c.Subject,
		Email:       c.Email,
		Role:        c.Role,
		CompanyID:   c.CompanyID,
		CompanyName: c.CompanyName,
	}
}
