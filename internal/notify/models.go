// Package notify carries the notification contract and its delivery
// pipeline. Lifecycle transitions enqueue messages into an outbox inside the
// same transaction that commits the status change; a relay publishes
// committed messages to Kafka and a worker delivers them over SMTP. Every
// stage past the outbox write is best-effort: a delivery failure is logged
// and counted, never propagated back into the transition.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Type selects the notification template.
type Type string

const (
	// TypeConfirmation is the registration confirmation. It is part of the
	// dispatcher contract for the identity-provider flow; the nomination
	// lifecycle itself never emits it.
	TypeConfirmation Type = "confirmation"

	TypeSubmitted         Type = "nomination_submitted"
	TypeApprovedNominator Type = "nomination_approved_nominator"
	TypeApprovedBoss      Type = "nomination_approved_boss"
)

// Valid checks the type is one of the supported templates.
func (t Type) Valid() bool {
	switch t {
	case TypeConfirmation, TypeSubmitted, TypeApprovedNominator, TypeApprovedBoss:
		return true
	}
	return false
}

// Template data keys. Data is a flat mapping so templates and transports
// stay decoupled from domain types.
const (
	DataNominatorFirstName = "nominatorFirstName"
	DataNominatorName      = "nominatorName"
	DataBossFirstName      = "bossFirstName"
	DataBossLastName       = "bossLastName"
	DataBossName           = "bossName"
	DataReview             = "review"
	DataIndustry           = "industry"
	DataFunction           = "function"
	DataDirectoryURL       = "directoryUrl"
	DataBossProfileURL     = "bossProfileUrl"
	DataCertificateURL     = "certificateUrl"
	DataConfirmationLink   = "confirmationLink"
)

// Message is one queued notification.
type Message struct {
	ID        uuid.UUID         `json:"id"`
	Type      Type              `json:"type"`
	To        string            `json:"to"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewMessage builds a queueable message.
func NewMessage(t Type, to string, data map[string]string, now time.Time) Message {
	return Message{
		ID:        uuid.New(),
		Type:      t,
		To:        to,
		Data:      data,
		CreatedAt: now,
	}
}
