package nomination

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	id "bestbosses/pkg/domain"
	dErrors "bestbosses/pkg/domain-errors"
	"bestbosses/internal/profile"
)

// Status is the nomination lifecycle state. It starts at pending and is set
// exactly once to a terminal value by a moderator action.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid checks the status is one of the supported enum values.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// MinReviewLength is the minimum review size in characters (runes, so a
// review written in any script counts the way the submitter sees it).
const MinReviewLength = 100

// Fields are the boss-identity fields captured at submission.
type Fields struct {
	BossFirstName   string
	BossLastName    string
	Company         string
	Location        string
	Industry        string
	Function        string
	Email           string
	LinkedInProfile string
	Review          string
}

// Industries and Functions are the allowed categorical values offered by the
// nomination form.
var Industries = sorted([]string{
	"Consulting", "Education", "Finance", "Government", "Healthcare", "Human Resources",
	"Legal", "Manufacturing", "Marketing", "Non-profit", "Operations", "Real Estate",
	"Retail", "Sales", "Technology", "Other",
})

var Functions = sorted([]string{
	"Business Development", "Customer Success", "Data Science", "Design", "Engineering",
	"Finance", "Human Resources", "IT", "Legal", "Marketing", "Operations",
	"Product Management", "Quality Assurance", "Sales", "Strategy", "Other",
})

// Validate enforces the submission invariants. Nothing is persisted when it
// fails.
func (f Fields) Validate() error {
	required := []struct {
		name, value string
	}{
		{"boss_first_name", f.BossFirstName},
		{"boss_last_name", f.BossLastName},
		{"company", f.Company},
		{"location", f.Location},
		{"industry", f.Industry},
		{"function", f.Function},
		{"email", f.Email},
		{"linkedin_profile", f.LinkedInProfile},
		{"review", f.Review},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", field.name)
		}
	}
	if utf8.RuneCountInString(f.Review) < MinReviewLength {
		return dErrors.Newf(dErrors.CodeInvalidInput,
			"review must be at least %d characters", MinReviewLength)
	}
	if !contains(Industries, f.Industry) {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown industry")
	}
	if !contains(Functions, f.Function) {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown function")
	}
	return nil
}

// BossName is the display name used in notifications.
func (f Fields) BossName() string {
	return f.BossFirstName + " " + f.BossLastName
}

// Nomination is a member's submission of a boss, owned by the nominator.
type Nomination struct {
	ID          id.NominationID
	Fields      Fields
	NominatorID id.UserID
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WithNominator pairs a nomination with its nominator's public profile for
// the moderation listing. Nominator is nil when the profile row is missing.
type WithNominator struct {
	Nomination *Nomination
	Nominator  *profile.Profile
}

func sorted(values []string) []string {
	sort.Strings(values)
	return values
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
