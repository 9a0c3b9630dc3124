package boss

import (
	"time"

	"bestbosses/internal/nomination"
	"bestbosses/internal/profile"
	id "bestbosses/pkg/domain"
	"bestbosses/pkg/slug"
)

// Boss is the directory-visible, slug-addressable projection of an approved
// nomination. It exists only after approval; pending and rejected
// nominations never materialize one.
type Boss struct {
	ID              id.BossID
	FirstName       string
	LastName        string
	Company         string
	Location        string
	Industry        string
	Function        string
	Email           string
	LinkedInProfile string
	Review          string
	Slug            string
	NominationID    id.NominationID
	NominatorID     id.UserID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// View is what a profile page renders: the boss record plus the nominator's
// public attribution when their profile row exists.
type View struct {
	Boss      Boss
	Nominator *profile.Attribution
}

// FromNomination materializes the directory record for an approved
// nomination. The slug embeds the nomination id, so a resolver can fall back
// to the nomination if this row is ever missing.
func FromNomination(n *nomination.Nomination, now time.Time) *Boss {
	return &Boss{
		ID:              id.NewBossID(),
		FirstName:       n.Fields.BossFirstName,
		LastName:        n.Fields.BossLastName,
		Company:         n.Fields.Company,
		Location:        n.Fields.Location,
		Industry:        n.Fields.Industry,
		Function:        n.Fields.Function,
		Email:           n.Fields.Email,
		LinkedInProfile: n.Fields.LinkedInProfile,
		Review:          n.Fields.Review,
		Slug:            slug.Make(n.Fields.BossFirstName, n.Fields.BossLastName, n.ID),
		NominationID:    n.ID,
		NominatorID:     n.NominatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// SynthesizeFromNomination builds the equivalent view directly from an
// approved nomination when no Boss row has been materialized yet.
func SynthesizeFromNomination(n *nomination.Nomination, requestedSlug string, nominator *profile.Attribution) *View {
	return &View{
		Boss: Boss{
			ID:              id.BossID(n.ID),
			FirstName:       n.Fields.BossFirstName,
			LastName:        n.Fields.BossLastName,
			Company:         n.Fields.Company,
			Location:        n.Fields.Location,
			Industry:        n.Fields.Industry,
			Function:        n.Fields.Function,
			Email:           n.Fields.Email,
			LinkedInProfile: n.Fields.LinkedInProfile,
			Review:          n.Fields.Review,
			Slug:            requestedSlug,
			NominationID:    n.ID,
			NominatorID:     n.NominatorID,
			CreatedAt:       n.CreatedAt,
			UpdatedAt:       n.UpdatedAt,
		},
		Nominator: nominator,
	}
}
