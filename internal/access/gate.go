// Package access decides who may read the boss directory.
//
// The predicate is the profile's has_approved_nomination flag, checked
// fresh on every request. Nothing here is cached: an approval that lands
// between two requests must be visible on the second one.
package access

import (
	"context"
	"errors"
	"strings"

	"bestbosses/internal/profile"
	dErrors "bestbosses/pkg/domain-errors"
	"bestbosses/pkg/platform/sentinel"
	"bestbosses/pkg/requestcontext"
)

// Gate evaluates directory access for the current viewer.
type Gate struct {
	profiles   profile.Store
	adminEmail string
}

func NewGate(profiles profile.Store, adminEmail string) *Gate {
	return &Gate{profiles: profiles, adminEmail: adminEmail}
}

// CanViewDirectory reports whether the viewer on the context may read
// directory content. Anonymous viewers and viewers without a profile row are
// denied; the configured admin email is always allowed.
func (g *Gate) CanViewDirectory(ctx context.Context) (bool, error) {
	viewer, ok := requestcontext.Viewer(ctx)
	if !ok {
		return false, nil
	}
	if g.isAdminEmail(viewer.Email) {
		return true, nil
	}

	p, err := g.profiles.ByUserID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "load viewer profile")
	}
	return p.HasApprovedNomination, nil
}

// IsAdmin reports whether the viewer on the context is the configured
// moderator.
func (g *Gate) IsAdmin(ctx context.Context) bool {
	viewer, ok := requestcontext.Viewer(ctx)
	if !ok {
		return false
	}
	return g.isAdminEmail(viewer.Email)
}

func (g *Gate) isAdminEmail(candidate string) bool {
	return g.adminEmail != "" && strings.EqualFold(candidate, g.adminEmail)
}
