// Package refreshtokens provides a PostgreSQL-backed repository for the
// refresh token ledger used by the rotation engine.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wayfarer-app/wayfarer/internal/common"
	"github.com/wayfarer-app/wayfarer/internal/dbx"
	"github.com/wayfarer-app/wayfarer/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx). Claim relies on row locking, so it only behaves
// atomically when the repository is bound to a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new refresh token record.
func (r *PostgresRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, family_id, user_id, parent_id, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		token.ID, token.FamilyID, token.UserID, token.ParentID,
		token.IssuedAt, token.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the token record for the given jti.
func (r *PostgresRepository) Find(ctx context.Context, jti string) (*models.RefreshToken, error) {
	query := `
		SELECT id, family_id, user_id, parent_id, issued_at, expires_at, used_at, revoked_at
		FROM refresh_tokens
		WHERE id = $1
	`
	return r.scanToken(r.db.QueryRowContext(ctx, query, jti))
}

// Claim locks the token row and decides its fate in one place, closing the
// window between "check used_at" and "act on it". Exactly one of two racing
// callers observes used_at IS NULL; the loser is routed into the reuse
// branch, which revokes the whole family (including children already issued
// from the winner's rotation).
func (r *PostgresRepository) Claim(ctx context.Context, jti string, now time.Time) (*ClaimResult, error) {
	query := `
		SELECT id, family_id, user_id, parent_id, issued_at, expires_at, used_at, revoked_at
		FROM refresh_tokens
		WHERE id = $1
		FOR UPDATE
	`
	token, err := r.scanToken(r.db.QueryRowContext(ctx, query, jti))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &ClaimResult{Outcome: ClaimNotFound}, nil
		}
		return nil, err
	}

	if token.RevokedAt != nil {
		return &ClaimResult{Outcome: ClaimRevoked, Token: token}, nil
	}

	if token.UsedAt != nil {
		if err := r.RevokeFamily(ctx, token.FamilyID, now); err != nil {
			return nil, err
		}
		return &ClaimResult{Outcome: ClaimReused, Token: token}, nil
	}

	markUsed := `
		UPDATE refresh_tokens
		SET used_at = $2
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, markUsed, jti, now); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	token.UsedAt = &now
	return &ClaimResult{Outcome: ClaimOK, Token: token}, nil
}

// RevokeFamily revokes every non-revoked record in the family.
func (r *PostgresRepository) RevokeFamily(ctx context.Context, familyID string, now time.Time) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE family_id = $1 AND revoked_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, familyID, now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RevokeAllForUser revokes every non-revoked record owned by userID.
func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID string, now time.Time) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE user_id = $1 AND revoked_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, userID, now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanToken(row *sql.Row) (*models.RefreshToken, error) {
	token := &models.RefreshToken{}
	err := row.Scan(
		&token.ID, &token.FamilyID, &token.UserID, &token.ParentID,
		&token.IssuedAt, &token.ExpiresAt, &token.UsedAt, &token.RevokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}
