package models

import "time"

// RefreshToken is the persisted record of one refresh token. Records are
// append-mostly: UsedAt is set once when the token is redeemed, RevokedAt
// once when its family is revoked. Rows are never deleted, so the rotation
// chain stays available for audit.
type RefreshToken struct {
	ID        string  // JWT jti, primary key
	FamilyID  string  // shared by every token descended from one login
	UserID    string
	ParentID  *string // id of the token this one rotated from; nil for a root
	IssuedAt  time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time // nil while this token is the family's active frontier
	RevokedAt *time.Time
}
