// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/danielhkuo/civicvote/models"
)

var (
	ErrMissingToken = errors.New("missing identity token")
	ErrInvalidToken = errors.New("invalid identity token")
)

// GenerateID creates a random UUID for a new row
func GenerateID() string {
	return uuid.NewString()
}

// Claims are the identity-provider claims the server reads.
type Claims struct {
	jwt.RegisteredClaims
	Role          string `json:"role"`
	Region        string `json:"region,omitempty"`
	ZoneOrSubcity string `json:"zone_or_subcity,omitempty"`
	Woreda        string `json:"woreda,omitempty"`
}

// Verifier checks HS256 identity tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier. An empty issuer accepts any issuer.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses a token and returns the identity it carries.
func (v *Verifier) Verify(tokenStr string) (models.Identity, error) {
	if tokenStr == "" {
		return models.Identity{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return models.Identity{}, ErrInvalidToken
	}

	role := models.ParseRole(claims.Role)
	if role == models.RoleInvalid {
		return models.Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return models.Identity{
		UserID: claims.Subject,
		Role:   role,
		Jurisdiction: models.Jurisdiction{
			Region:        claims.Region,
			ZoneOrSubcity: claims.ZoneOrSubcity,
			Woreda:        claims.Woreda,
		},
	}, nil
}

// IssueToken signs an identity token. Used by the token command and tests;
// production tokens come from the identity provider.
func IssueToken(secret, issuer string, id models.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:          id.Role.String(),
		Region:        id.Jurisdiction.Region,
		ZoneOrSubcity: id.Jurisdiction.ZoneOrSubcity,
		Woreda:        id.Jurisdiction.Woreda,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign identity token: %w", err)
	}
	return signed, nil
}
