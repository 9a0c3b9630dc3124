// Package domain holds typed identifiers shared across features. Typed IDs
// keep a nominator reference from being handed to a lookup that expects a
// nomination, which matters in the slug fallback path where both travel
// together as strings.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "bestbosses/pkg/domain-errors"
)

type (
	// UserID identifies an authenticated identity (and its one-to-one profile).
	UserID uuid.UUID

	// NominationID identifies a nomination record. Its string form is the
	// authoritative suffix of a boss slug.
	NominationID uuid.UUID

	// BossID identifies a materialized directory record.
	BossID uuid.UUID
)

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id NominationID) String() string { return uuid.UUID(id).String() }
func (id BossID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id NominationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BossID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// NewUserID generates a fresh user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewNominationID generates a fresh nomination identifier.
func NewNominationID() NominationID { return NominationID(uuid.New()) }

// NewBossID generates a fresh boss identifier.
func NewBossID() BossID { return BossID(uuid.New()) }

// ParseUserID constructs a UserID from external input. Call at trust
// boundaries; direct casting bypasses validation.
func ParseUserID(s string) (UserID, error) {
	u, err := parseID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseNominationID constructs a NominationID from external input.
func ParseNominationID(s string) (NominationID, error) {
	u, err := parseID(s)
	if err != nil {
		return NominationID{}, err
	}
	return NominationID(u), nil
}

// ParseBossID constructs a BossID from external input.
func ParseBossID(s string) (BossID, error) {
	u, err := parseID(s)
	if err != nil {
		return BossID{}, err
	}
	return BossID(u), nil
}

// parseID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs. uuid.Parse trims nothing, so reject whitespace explicitly.
func parseID(s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid id format")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "nil id not allowed")
	}
	return u, nil
}
