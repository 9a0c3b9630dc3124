package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bestbosses/internal/platform/middleware"
	"bestbosses/internal/profile"
	"bestbosses/internal/transport/http/shared"
	dErrors "bestbosses/pkg/domain-errors"
	"bestbosses/pkg/platform/sentinel"
	"bestbosses/pkg/requestcontext"
)

// Handler exposes profile provisioning and the viewer's own profile. The
// identity provider owns credentials; this service only mirrors the signup
// metadata into a profile row so the access flag has somewhere to live.
type Handler struct {
	profiles  profile.Store
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(profiles profile.Store, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{profiles: profiles, validator: validator, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/profile", h.handleProvision)
		r.Get("/profile/me", h.handleMe)
	})
}

type provisionRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	LinkedInProfile string `json:"linkedin_profile"`
}

type profileResponse struct {
	UserID                string    `json:"user_id"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	Email                 string    `json:"email"`
	LinkedInProfile       string    `json:"linkedin_profile"`
	HasApprovedNomination bool      `json:"has_approved_nomination"`
	CreatedAt             time.Time `json:"created_at"`
}

// handleProvision creates the viewer's profile row from signup metadata.
// Provisioning is idempotent: a repeated call returns the existing row.
func (h *Handler) handleProvision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requestcontext.Viewer(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	now := requestcontext.Now(ctx)
	p := &profile.Profile{
		UserID:          viewer.UserID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           viewer.Email,
		LinkedInProfile: req.LinkedInProfile,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := h.profiles.Create(ctx, p)
	switch {
	case err == nil:
		shared.WriteJSON(w, http.StatusCreated, toResponse(p))
	case errors.Is(err, sentinel.ErrConflict):
		existing, lookErr := h.profiles.ByUserID(ctx, viewer.UserID)
		if lookErr != nil {
			h.logger.ErrorContext(ctx, "load existing profile failed",
				"error", lookErr, "request_id", requestcontext.RequestID(ctx))
			shared.WriteError(w, dErrors.Wrap(lookErr, dErrors.CodeInternal, "load profile"))
			return
		}
		shared.WriteJSON(w, http.StatusOK, toResponse(existing))
	default:
		h.logger.ErrorContext(ctx, "provision profile failed",
			"error", err, "request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "provision profile"))
	}
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requestcontext.Viewer(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	p, err := h.profiles.ByUserID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no profile for viewer"))
			return
		}
		h.logger.ErrorContext(ctx, "load profile failed",
			"error", err, "request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "load profile"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, toResponse(p))
}

func toResponse(p *profile.Profile) profileResponse {
	return profileResponse{
		UserID:                p.UserID.String(),
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		Email:                 p.Email,
		LinkedInProfile:       p.LinkedInProfile,
		HasApprovedNomination: p.HasApprovedNomination,
		CreatedAt:             p.CreatedAt,
	}
}
