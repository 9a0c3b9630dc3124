// Package slug builds and parses the public boss profile slugs.
//
// A slug is lowercase(first)-lowercase(last)-<nomination id>. Names may
// themselves contain hyphens, so token-splitting cannot recover the id; the
// nomination UUID is instead treated as a fixed-length suffix, which keeps
// the id authoritative regardless of what the name portion looks like.
package slug

import (
	"strings"

	id "bestbosses/pkg/domain"
	dErrors "bestbosses/pkg/domain-errors"
)

// uuidLen is the canonical textual length of a UUID suffix.
const uuidLen = 36

// Make derives the public slug for a boss from the nominated name and the
// originating nomination. Uniqueness is carried by the id suffix; name
// collisions are expected and harmless.
func Make(firstName, lastName string, nominationID id.NominationID) string {
	return sanitize(firstName) + "-" + sanitize(lastName) + "-" + nominationID.String()
}

// NominationSuffix extracts the nomination id embedded at the end of a slug.
// The slug must carry at least a one-character name portion, a separator, and
// a full UUID.
func NominationSuffix(s string) (id.NominationID, error) {
	if len(s) < uuidLen+2 {
		return id.NominationID{}, dErrors.New(dErrors.CodeInvalidInput, "slug too short to carry a nomination id")
	}
	if s[len(s)-uuidLen-1] != '-' {
		return id.NominationID{}, dErrors.New(dErrors.CodeInvalidInput, "slug is not name-id shaped")
	}
	return id.ParseNominationID(s[len(s)-uuidLen:])
}

// sanitize lowercases a name and folds internal whitespace into hyphens so
// the slug stays a single URL path segment.
func sanitize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
