package sdk

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// entraClaims are the Entra ID token claims worth showing to a user.
type entraClaims struct {
	jwt.RegisteredClaims
	Name              string   `json:"name,omitempty"`
	Email             string   `json:"email,omitempty"`
	PreferredUsername string   `json:"preferred_username,omitempty"`
	Roles             []string `json:"roles,omitempty"`
	TenantID          string   `json:"tid,omitempty"`
}

// TokenInfo summarizes a bearer token for display.
type TokenInfo struct {
	Subject   string
	Issuer    string
	Audience  []string
	Name      string
	Email     string
	TenantID  string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry lies before now.
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// InspectToken decodes the claims of a JWT without verifying its signature.
// The backend verifies tokens; this is for local display only.
func InspectToken(raw string) (*TokenInfo, error) {
	claims := &entraClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	info := &TokenInfo{
		Subject:  claims.Subject,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
		Name:     claims.Name,
		Email:    firstNonEmpty(claims.Email, claims.PreferredUsername),
		TenantID: claims.TenantID,
		Roles:    claims.Roles,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
