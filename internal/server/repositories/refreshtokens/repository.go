// Package refreshtokens declares the server-side repository contract for the
// refresh token ledger backing session authentication.
package refreshtokens

import (
	"context"
	"time"

	"github.com/wayfarer-app/wayfarer/internal/server/models"
)

// ClaimOutcome tags the result of claiming a token for rotation.
type ClaimOutcome int

const (
	// ClaimOK: the token was the family's active frontier and is now
	// marked used; rotation may insert a child.
	ClaimOK ClaimOutcome = iota
	// ClaimNotFound: no record exists for the jti.
	ClaimNotFound
	// ClaimRevoked: the token's family was already revoked.
	ClaimRevoked
	// ClaimReused: the token had already been redeemed. The whole family
	// has been revoked as a side effect.
	ClaimReused
)

// ClaimResult is the tagged outcome of Claim. Token is populated for every
// outcome except ClaimNotFound.
type ClaimResult struct {
	Outcome ClaimOutcome
	Token   *models.RefreshToken
}

// Repository defines operations over the refresh token ledger. Rows are
// never deleted; revocation and redemption are recorded as timestamps.
type Repository interface {
	// Create inserts a new token record (a family root or a rotation child).
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find returns the record for the given jti, or common.ErrorNotFound.
	Find(ctx context.Context, jti string) (*models.RefreshToken, error)

	// Claim atomically redeems the token identified by jti: it locks the
	// row, and either marks it used (ClaimOK) or reports why it cannot be
	// rotated. On ClaimReused it revokes every record in the token's
	// family before returning. Claim must run inside a transaction so the
	// caller's child insert commits atomically with the redemption.
	Claim(ctx context.Context, jti string, now time.Time) (*ClaimResult, error)

	// RevokeFamily sets revoked_at on every non-revoked record in the
	// family. Idempotent.
	RevokeFamily(ctx context.Context, familyID string, now time.Time) error

	// RevokeAllForUser sets revoked_at on every non-revoked record owned
	// by userID, across all families. Idempotent.
	RevokeAllForUser(ctx context.Context, userID string, now time.Time) error
}
