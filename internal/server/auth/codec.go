// Package auth implements the stateless JWT codec used for access and
// refresh tokens. The codec is the only component that touches token
// signatures; all lifecycle state lives in the refresh token store.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wayfarer-app/wayfarer/internal/common"
)

// TokenType is the value of the "type" claim distinguishing the two token
// kinds. The claim is what rejects an access token presented at /refresh,
// independent of any store lookup.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carries the registered JWT claims plus the custom ones Wayfarer
// embeds: the owning user, the token type, and (for refresh tokens) the
// rotation family.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string    `json:"userId"`
	TokenType TokenType `json:"type"`
	FamilyID  string    `json:"familyId,omitempty"`
}

// Codec signs and verifies HS256 tokens. It is stateless and safe for
// concurrent use.
type Codec struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secretKey []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secretKey: secretKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueAccessToken signs a short-lived access token for userID. Access
// tokens carry no jti and are never persisted.
func (c *Codec) IssueAccessToken(userID string) (string, error) {
	now := time.Now()
	return c.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
		UserID:    userID,
		TokenType: TokenTypeAccess,
	})
}

// IssueRefreshToken signs a refresh token whose jti keys the persisted
// RefreshToken record and whose familyId ties it to its rotation chain.
func (c *Codec) IssueRefreshToken(userID, jti, familyID string) (string, error) {
	now := time.Now()
	return c.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
		UserID:    userID,
		TokenType: TokenTypeRefresh,
		FamilyID:  familyID,
	})
}

func (c *Codec) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secretKey)
}

// Verify parses tokenString and checks signature, expiry, and the type
// claim. Every failure mode (bad signature, malformed payload, expiry in
// the past, wrong type) collapses into common.ErrInvalidToken.
func (c *Codec) Verify(tokenString string, expected TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return c.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// AccessTTL reports the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL reports the configured refresh token lifetime. The issuer uses
// it to stamp expires_at on persisted records.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }
