package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bestbosses/internal/access"
	"bestbosses/internal/directory"
	"bestbosses/internal/nomination"
	"bestbosses/internal/platform/middleware"
	"bestbosses/internal/transport/http/shared"
	id "bestbosses/pkg/domain"
	dErrors "bestbosses/pkg/domain-errors"
	"bestbosses/pkg/requestcontext"
)

// Engine defines the lifecycle operations the handler exposes.
type Engine interface {
	Submit(ctx context.Context, nominator requestcontext.ViewerIdentity, fields nomination.Fields) (*nomination.Nomination, error)
	Approve(ctx context.Context, nominationID id.NominationID) (*nomination.Nomination, error)
	Reject(ctx context.Context, nominationID id.NominationID) (*nomination.Nomination, error)
	ResendBossNotification(ctx context.Context, nominationID id.NominationID) error
	List(ctx context.Context) ([]*nomination.WithNominator, error)
	ByNominator(ctx context.Context, nominatorID id.UserID) ([]*nomination.Nomination, error)
}

// Handler exposes the nomination submission and moderation endpoints.
type Handler struct {
	engine    Engine
	gate      *access.Gate
	cache     *directory.Cache
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(engine Engine, gate *access.Gate, cache *directory.Cache, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, gate: gate, cache: cache, validator: validator, logger: logger}
}

// Register mounts the nomination routes. Everything here requires an
// authenticated viewer; the admin surface additionally requires the
// configured moderator.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/nominations", h.handleSubmit)
		r.Get("/nominations/mine", h.handleMine)

		r.Route("/admin/nominations", func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/", h.handleList)
			r.Post("/{nominationID}/approve", h.handleApprove)
			r.Post("/{nominationID}/reject", h.handleReject)
			r.Post("/{nominationID}/resend-boss-email", h.handleResend)
		})
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.gate.IsAdmin(r.Context()) {
			shared.WriteError(w, dErrors.New(dErrors.CodeAccessRequired, "moderator only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type submitRequest struct {
	BossFirstName   string `json:"boss_first_name"`
	BossLastName    string `json:"boss_last_name"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Industry        string `json:"industry"`
	Function        string `json:"function"`
	Email           string `json:"email"`
	LinkedInProfile string `json:"linkedin_profile"`
	Review          string `json:"review"`
}

type nominationResponse struct {
	ID            string    `json:"id"`
	BossFirstName string    `json:"boss_first_name"`
	BossLastName  string    `json:"boss_last_name"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	Industry      string    `json:"industry"`
	Function      string    `json:"function"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type nominatorResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type moderationEntry struct {
	nominationResponse
	Email           string             `json:"email"`
	LinkedInProfile string             `json:"linkedin_profile"`
	Review          string             `json:"review"`
	Nominator       *nominatorResponse `json:"nominator,omitempty"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requestcontext.Viewer(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	n, err := h.engine.Submit(ctx, viewer, nomination.Fields{
		BossFirstName:   req.BossFirstName,
		BossLastName:    req.BossLastName,
		Company:         req.Company,
		Location:        req.Location,
		Industry:        req.Industry,
		Function:        req.Function,
		Email:           req.Email,
		LinkedInProfile: req.LinkedInProfile,
		Review:          req.Review,
	})
	if err != nil {
		h.logWarnOrError(ctx, "submit nomination", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, toResponse(n))
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requestcontext.Viewer(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	nominations, err := h.engine.ByNominator(ctx, viewer.UserID)
	if err != nil {
		h.logWarnOrError(ctx, "list own nominations", err)
		shared.WriteError(w, err)
		return
	}

	out := make([]nominationResponse, 0, len(nominations))
	for _, n := range nominations {
		out = append(out, toResponse(n))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"nominations": out})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.engine.List(ctx)
	if err != nil {
		h.logWarnOrError(ctx, "list nominations", err)
		shared.WriteError(w, err)
		return
	}

	out := make([]moderationEntry, 0, len(entries))
	for _, entry := range entries {
		item := moderationEntry{
			nominationResponse: toResponse(entry.Nomination),
			Email:              entry.Nomination.Fields.Email,
			LinkedInProfile:    entry.Nomination.Fields.LinkedInProfile,
			Review:             entry.Nomination.Fields.Review,
		}
		if entry.Nominator != nil {
			item.Nominator = &nominatorResponse{
				FirstName: entry.Nominator.FirstName,
				LastName:  entry.Nominator.LastName,
				Email:     entry.Nominator.Email,
			}
		}
		out = append(out, item)
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"nominations": out})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nominationID, err := id.ParseNominationID(chi.URLParam(r, "nominationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	n, err := h.engine.Approve(ctx, nominationID)
	if err != nil {
		h.logWarnOrError(ctx, "approve nomination", err)
		shared.WriteError(w, err)
		return
	}

	// A new boss just became listable.
	h.cache.Invalidate(ctx)

	shared.WriteJSON(w, http.StatusOK, toResponse(n))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nominationID, err := id.ParseNominationID(chi.URLParam(r, "nominationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	n, err := h.engine.Reject(ctx, nominationID)
	if err != nil {
		h.logWarnOrError(ctx, "reject nomination", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, toResponse(n))
}

func (h *Handler) handleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nominationID, err := id.ParseNominationID(chi.URLParam(r, "nominationID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.engine.ResendBossNotification(ctx, nominationID); err != nil {
		h.logWarnOrError(ctx, "resend boss notification", err)
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logWarnOrError(ctx context.Context, op string, err error) {
	attrs := []any{
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op+" failed", attrs...)
		return
	}
	h.logger.WarnContext(ctx, op+" denied", attrs...)
}

func toResponse(n *nomination.Nomination) nominationResponse {
	return nominationResponse{
		ID:            n.ID.String(),
		BossFirstName: n.Fields.BossFirstName,
		BossLastName:  n.Fields.BossLastName,
		Company:       n.Fields.Company,
		Location:      n.Fields.Location,
		Industry:      n.Fields.Industry,
		Function:      n.Fields.Function,
		Status:        string(n.Status),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}
