package profile

import (
	"time"

	id "bestbosses/pkg/domain"
	dErrors "bestbosses/pkg/domain-errors"
)

// Profile is the per-user record keyed one-to-one to an authenticated
// identity. HasApprovedNomination, not any nomination's status, is the
// access-control predicate for directory reads.
type Profile struct {
	UserID                id.UserID
	FirstName             string
	LastName              string
	Email                 string
	LinkedInProfile       string
	HasApprovedNomination bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Attribution is the public subset shown next to a boss review ("Nominated
// by ..."). Email deliberately excluded.
type Attribution struct {
	FirstName       string
	LastName        string
	LinkedInProfile string
}

// Attribution projects the public fields.
func (p *Profile) Attribution() Attribution {
	return Attribution{
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		LinkedInProfile: p.LinkedInProfile,
	}
}

// Row is a raw store row before validation. Stores scan into this and call
// FromRow so malformed rows are rejected explicitly instead of defaulting
// silently.
type Row struct {
	UserID                string
	FirstName             string
	LastName              string
	Email                 string
	LinkedInProfile       string
	HasApprovedNomination bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FromRow is the total mapping from a raw row to a typed Profile.
func FromRow(row Row) (*Profile, error) {
	userID, err := id.ParseUserID(row.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "profile row has malformed user id")
	}
	if row.Email == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "profile row missing email")
	}
	return &Profile{
		UserID:                userID,
		FirstName:             row.FirstName,
		LastName:              row.LastName,
		Email:                 row.Email,
		LinkedInProfile:       row.LinkedInProfile,
		HasApprovedNomination: row.HasApprovedNomination,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}, nil
}
