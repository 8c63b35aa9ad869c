// Package services contains server-side business logic. This file implements
// AuthService: registration, login, refresh token rotation with reuse
// detection, and session revocation (single family and all-devices).
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wayfarer-app/wayfarer/internal/common"
	"github.com/wayfarer-app/wayfarer/internal/dbx"
	"github.com/wayfarer-app/wayfarer/internal/logging"
	"github.com/wayfarer-app/wayfarer/internal/server/auth"
	"github.com/wayfarer-app/wayfarer/internal/server/models"
	"github.com/wayfarer-app/wayfarer/internal/server/repositories/refreshtokens"
	"github.com/wayfarer-app/wayfarer/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// dummyPasswordHash is compared against when a login targets an unknown
// email, so response timing does not leak account existence.
var dummyPasswordHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthService owns the refresh token rotation engine. All token lifecycle
// authority lives in the refresh_tokens table, so any number of stateless
// server processes can share one database.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	logger      logging.Logger
}

// NewAuthService constructs an AuthService using repositories, the token
// codec, and a structured logger.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		codec:       codec,
		logger:      logger.With("module", "auth_service"),
	}
}

// Register creates a new user and starts their first token family.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, *TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: email, Name: name, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, common.ErrorAlreadyExists
		}
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials and, on success, starts a new token family.
// Each login gets an independent family, so concurrent device sessions do
// not interfere with one another.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is redeemed exactly
// once and a child token in the same family replaces it. Presenting an
// already-redeemed token is indistinguishable from replay, so the whole
// family is revoked and the caller must log in again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	var (
		result *refreshtokens.ClaimResult
		pair   *TokenPair
	)
	// The reuse branch revokes the family inside Claim; the transaction
	// must commit in that case too, so tagged outcomes are mapped to
	// errors only after WithTx returns.
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RefreshTokens(tx)
		now := time.Now()

		var claimErr error
		result, claimErr = repo.Claim(ctx, claims.ID, now)
		if claimErr != nil {
			return claimErr
		}
		if result.Outcome != refreshtokens.ClaimOK {
			return nil
		}

		parentID := result.Token.ID
		child := &models.RefreshToken{
			ID:        uuid.NewString(),
			FamilyID:  result.Token.FamilyID,
			UserID:    result.Token.UserID,
			ParentID:  &parentID,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.codec.RefreshTTL()),
		}
		if err := repo.Create(ctx, child); err != nil {
			return err
		}

		var signErr error
		pair, signErr = s.signPair(child.UserID, child.ID, child.FamilyID)
		return signErr
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	switch result.Outcome {
	case refreshtokens.ClaimOK:
		return pair, nil
	case refreshtokens.ClaimRevoked:
		return nil, common.ErrTokenRevoked
	case refreshtokens.ClaimReused:
		s.logger.Warn(ctx, "refresh token reuse detected, family revoked",
			"user_id", result.Token.UserID, "family_id", result.Token.FamilyID, "jti", result.Token.ID)
		return nil, common.ErrTokenReuse
	default:
		return nil, common.ErrInvalidToken
	}
}

// Logout revokes the presented token's entire family. The token must carry
// a valid refresh signature but may already have been redeemed; repeated
// calls are harmless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.codec.Verify(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return common.ErrInvalidToken
	}

	repo := s.repomanager.RefreshTokens(s.db)
	token, err := repo.Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return common.ErrorInternal
	}

	if err := repo.RevokeFamily(ctx, token.FamilyID, time.Now()); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// LogoutAll revokes every active refresh token belonging to userID, across
// all families and devices.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.RevokeAllForUser(ctx, userID, time.Now()); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// issueTokens starts a brand-new token family for userID: one stateless
// access token and one persisted root refresh token (parent_id NULL).
func (s *AuthService) issueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	now := time.Now()
	root := &models.RefreshToken{
		ID:        uuid.NewString(),
		FamilyID:  uuid.NewString(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.codec.RefreshTTL()),
	}

	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Create(ctx, root); err != nil {
		return nil, common.ErrorInternal
	}

	return s.signPair(userID, root.ID, root.FamilyID)
}

func (s *AuthService) signPair(userID, jti, familyID string) (*TokenPair, error) {
	access, err := s.codec.IssueAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.codec.IssueRefreshToken(userID, jti, familyID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
