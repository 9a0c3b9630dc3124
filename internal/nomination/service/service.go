package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bestbosses/internal/boss"
	"bestbosses/internal/nomination"
	"bestbosses/internal/nomination/metrics"
	"bestbosses/internal/notify"
	"bestbosses/internal/profile"
	id "bestbosses/pkg/domain"
	dErrors "bestbosses/pkg/domain-errors"
	"bestbosses/pkg/email"
	"bestbosses/pkg/platform/sentinel"
	"bestbosses/pkg/requestcontext"
	"bestbosses/pkg/slug"
)

// Engine drives the nomination lifecycle: submission, the one-shot
// pending-to-terminal transition, and the side effects approval carries
// (access flag, boss materialization, notifications). All mutations run
// inside the transaction boundary; notification delivery stays outside it
// and is best-effort by construction because only the outbox write is
// transactional.
type Engine struct {
	tx      Tx
	stores  Stores
	baseURL string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewEngine(tx Tx, stores Stores, baseURL string, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{tx: tx, stores: stores, baseURL: baseURL, logger: logger, metrics: m}
}

// Submit validates and persists a new pending nomination for the viewer and
// queues the submission acknowledgement email.
func (e *Engine) Submit(ctx context.Context, nominator requestcontext.ViewerIdentity, fields nomination.Fields) (*nomination.Nomination, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	n := &nomination.Nomination{
		ID:          id.NewNominationID(),
		Fields:      fields,
		NominatorID: nominator.UserID,
		Status:      nomination.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := e.tx.RunInTx(ctx, func(ctx context.Context, s Stores) error {
		if err := s.Nominations.Create(ctx, n); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "persist nomination")
		}

		firstName := e.nominatorFirstName(ctx, s, nominator)
		msg := notify.NewMessage(notify.TypeSubmitted, nominator.Email, map[string]string{
			notify.DataNominatorFirstName: firstName,
			notify.DataBossName:           fields.BossName(),
		}, now)
		if err := s.Outbox.Enqueue(ctx, msg); err != nil {
			// The nomination still commits; the acknowledgement is not
			// worth failing a submission over.
			e.logger.Warn("failed to queue submission email",
				"nomination_id", n.ID, "error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncSubmitted()
	e.logger.Info("nomination submitted", "nomination_id", n.ID, "nominator_id", nominator.UserID)
	return n, nil
}

// Approve applies the pending-to-approved transition and its coupled side
// effects in one transaction: the nominator's access flag flips on, the boss
// record materializes, and both approval emails are queued. A nomination
// already in a terminal state is rejected with an invalid-state error, never
// transitioned twice.
func (e *Engine) Approve(ctx context.Context, nominationID id.NominationID) (*nomination.Nomination, error) {
	now := requestcontext.Now(ctx)

	var approved *nomination.Nomination
	err := e.tx.RunInTx(ctx, func(ctx context.Context, s Stores) error {
		n, err := s.Nominations.UpdateStatus(ctx, nominationID, nomination.StatusApproved, now)
		if err != nil {
			return translateTransition(err, nominationID)
		}
		approved = n

		if err := s.Profiles.SetHasApprovedNomination(ctx, n.NominatorID, true, now); err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "grant directory access")
			}
			// Approval still stands; access arrives when the profile row does.
			e.logger.Warn("nominator has no profile row, access flag not set",
				"nomination_id", n.ID, "nominator_id", n.NominatorID)
		}

		b := boss.FromNomination(n, now)
		if err := s.Bosses.Create(ctx, b); err != nil {
			if !errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "materialize boss record")
			}
			existing, lookErr := s.Bosses.ByNominationID(ctx, n.ID)
			if lookErr != nil {
				return dErrors.Wrap(lookErr, dErrors.CodeInternal, "load existing boss record")
			}
			b = existing
		}

		e.queueApprovalEmails(ctx, s, n, b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncApproved()
	e.logger.Info("nomination approved", "nomination_id", approved.ID, "nominator_id", approved.NominatorID)
	return approved, nil
}

// Reject applies the pending-to-rejected transition. No notification is
// sent and no access changes hands.
func (e *Engine) Reject(ctx context.Context, nominationID id.NominationID) (*nomination.Nomination, error) {
	now := requestcontext.Now(ctx)

	var rejected *nomination.Nomination
	err := e.tx.RunInTx(ctx, func(ctx context.Context, s Stores) error {
		n, err := s.Nominations.UpdateStatus(ctx, nominationID, nomination.StatusRejected, now)
		if err != nil {
			return translateTransition(err, nominationID)
		}
		rejected = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncRejected()
	e.logger.Info("nomination rejected", "nomination_id", rejected.ID)
	return rejected, nil
}

// ResendBossNotification re-queues the congratulations email for an already
// approved nomination. This is the recovery path when the original delivery
// failed, since the transition itself can never be replayed.
func (e *Engine) ResendBossNotification(ctx context.Context, nominationID id.NominationID) error {
	n, err := e.stores.Nominations.ByID(ctx, nominationID)
	if err != nil {
		return translateLookup(err, nominationID)
	}
	if n.Status != nomination.StatusApproved {
		return dErrors.Newf(dErrors.CodeInvalidState,
			"nomination %s is %s, only approved nominations have a boss email", n.ID, n.Status)
	}

	bossSlug := slug.Make(n.Fields.BossFirstName, n.Fields.BossLastName, n.ID)
	if b, err := e.stores.Bosses.ByNominationID(ctx, n.ID); err == nil {
		bossSlug = b.Slug
	}

	msg := notify.NewMessage(notify.TypeApprovedBoss, n.Fields.Email,
		e.bossEmailData(ctx, e.stores, n, bossSlug), requestcontext.Now(ctx))
	if err := e.stores.Outbox.Enqueue(ctx, msg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotificationFailed, "queue boss email")
	}

	e.logger.Info("boss notification requeued", "nomination_id", n.ID, "to", n.Fields.Email)
	return nil
}

// List returns the moderation queue newest-first, each nomination joined
// with its nominator's profile when one exists.
func (e *Engine) List(ctx context.Context) ([]*nomination.WithNominator, error) {
	nominations, err := e.stores.Nominations.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list nominations")
	}

	out := make([]*nomination.WithNominator, 0, len(nominations))
	for _, n := range nominations {
		entry := &nomination.WithNominator{Nomination: n}
		p, err := e.stores.Profiles.ByUserID(ctx, n.NominatorID)
		switch {
		case err == nil:
			entry.Nominator = p
		case errors.Is(err, sentinel.ErrNotFound):
			// Listed without attribution.
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load nominator profile")
		}
		out = append(out, entry)
	}
	return out, nil
}

// ByNominator returns the viewer's own nominations.
func (e *Engine) ByNominator(ctx context.Context, nominatorID id.UserID) ([]*nomination.Nomination, error) {
	nominations, err := e.stores.Nominations.ByNominator(ctx, nominatorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list own nominations")
	}
	return nominations, nil
}

func (e *Engine) queueApprovalEmails(ctx context.Context, s Stores, n *nomination.Nomination, b *boss.Boss) {
	now := requestcontext.Now(ctx)
	profileURL := e.baseURL + "/boss/" + b.Slug

	if p, err := e.loadNominator(ctx, s, n); err == nil {
		msg := notify.NewMessage(notify.TypeApprovedNominator, p.Email, map[string]string{
			notify.DataNominatorFirstName: p.FirstName,
			notify.DataBossName:           n.Fields.BossName(),
			notify.DataDirectoryURL:       e.baseURL + "/directory",
			notify.DataBossProfileURL:     profileURL,
		}, now)
		if err := s.Outbox.Enqueue(ctx, msg); err != nil {
			e.logger.Warn("failed to queue nominator approval email",
				"nomination_id", n.ID, "error", err)
		}
	} else {
		e.logger.Warn("nominator profile missing, skipping nominator approval email",
			"nomination_id", n.ID, "nominator_id", n.NominatorID)
	}

	msg := notify.NewMessage(notify.TypeApprovedBoss, n.Fields.Email,
		e.bossEmailData(ctx, s, n, b.Slug), now)
	if err := s.Outbox.Enqueue(ctx, msg); err != nil {
		e.logger.Warn("failed to queue boss approval email",
			"nomination_id", n.ID, "error", err)
	}
}

func (e *Engine) bossEmailData(ctx context.Context, s Stores, n *nomination.Nomination, bossSlug string) map[string]string {
	nominatorName := "A colleague"
	if p, err := e.loadNominator(ctx, s, n); err == nil {
		nominatorName = p.FirstName + " " + p.LastName
	}
	return map[string]string{
		notify.DataBossFirstName:  n.Fields.BossFirstName,
		notify.DataNominatorName:  nominatorName,
		notify.DataReview:         n.Fields.Review,
		notify.DataBossProfileURL: e.baseURL + "/boss/" + bossSlug,
		notify.DataCertificateURL: e.baseURL + "/certificate/" + bossSlug,
	}
}

func (e *Engine) loadNominator(ctx context.Context, s Stores, n *nomination.Nomination) (*profile.Profile, error) {
	return s.Profiles.ByUserID(ctx, n.NominatorID)
}

// nominatorFirstName resolves the greeting name for the viewer, falling back
// to a name derived from their email when no profile row exists yet.
func (e *Engine) nominatorFirstName(ctx context.Context, s Stores, nominator requestcontext.ViewerIdentity) string {
	if p, err := s.Profiles.ByUserID(ctx, nominator.UserID); err == nil {
		return p.FirstName
	}
	first, _ := email.DeriveNameFromEmail(nominator.Email)
	return first
}

func translateTransition(err error, nominationID id.NominationID) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "nomination %s not found", nominationID)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Newf(dErrors.CodeInvalidState,
			"nomination %s already resolved", nominationID)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("transition nomination %s", nominationID))
	}
}

func translateLookup(err error, nominationID id.NominationID) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "nomination %s not found", nominationID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("load nomination %s", nominationID))
}
