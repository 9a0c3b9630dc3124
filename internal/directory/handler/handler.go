package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bestbosses/internal/access"
	"bestbosses/internal/boss"
	"bestbosses/internal/directory"
	"bestbosses/internal/platform/middleware"
	"bestbosses/internal/transport/http/shared"
	dErrors "bestbosses/pkg/domain-errors"
	"bestbosses/pkg/requestcontext"
)

// Lister produces the (optionally filtered) directory listing.
type Lister interface {
	List(ctx context.Context, search string) ([]*boss.Boss, error)
}

// Resolver resolves a slug to a boss profile view.
type Resolver interface {
	Resolve(ctx context.Context, slug string) (*boss.View, error)
}

// Handler exposes the directory listing and the slug-addressed boss pages.
// Routes use optional auth: anonymous requests reach the access gate and are
// denied there, with the locked preview in the denial body.
type Handler struct {
	lister    Lister
	resolver  Resolver
	gate      *access.Gate
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(lister Lister, resolver Resolver, gate *access.Gate, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{lister: lister, resolver: resolver, gate: gate, validator: validator, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(h.validator, h.logger))
		r.Get("/directory", h.handleListing)
		r.Get("/boss/{slug}", h.handleProfile)
	})
}

type entryResponse struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Industry        string    `json:"industry"`
	Function        string    `json:"function"`
	Review          string    `json:"review"`
	Slug            string    `json:"slug"`
	LinkedInProfile string    `json:"linkedin_profile"`
	CreatedAt       time.Time `json:"created_at"`
}

type nominatorResponse struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	LinkedInProfile string `json:"linkedin_profile,omitempty"`
}

type profileResponse struct {
	entryResponse
	Nominator *nominatorResponse `json:"nominator,omitempty"`
}

func (h *Handler) handleListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	allowed, err := h.gate.CanViewDirectory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "directory access check failed",
			"error", err, "request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, err)
		return
	}
	if !allowed {
		// The denial carries the canned preview entries the locked page
		// renders blurred.
		shared.WriteErrorWith(w,
			dErrors.New(dErrors.CodeAccessRequired, "an approved nomination is required"),
			map[string]any{"samples": directory.Samples()})
		return
	}

	listing, err := h.lister.List(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.ErrorContext(ctx, "directory listing failed",
			"error", err, "request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, err)
		return
	}

	out := make([]entryResponse, 0, len(listing))
	for _, b := range listing {
		out = append(out, toEntry(b))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"bosses": out})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Resolve before gating so an unknown slug is a 404 for everyone, and
	// only real profiles produce the access-required response.
	view, err := h.resolver.Resolve(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "boss profile resolution failed",
				"error", err, "request_id", requestcontext.RequestID(ctx))
		}
		shared.WriteError(w, err)
		return
	}

	allowed, err := h.gate.CanViewDirectory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "boss profile access check failed",
			"error", err, "request_id", requestcontext.RequestID(ctx))
		shared.WriteError(w, err)
		return
	}
	if !allowed {
		shared.WriteError(w, dErrors.New(dErrors.CodeAccessRequired, "an approved nomination is required"))
		return
	}

	resp := profileResponse{entryResponse: toEntry(&view.Boss)}
	if view.Nominator != nil {
		resp.Nominator = &nominatorResponse{
			FirstName:       view.Nominator.FirstName,
			LastName:        view.Nominator.LastName,
			LinkedInProfile: view.Nominator.LinkedInProfile,
		}
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func toEntry(b *boss.Boss) entryResponse {
	return entryResponse{
		ID:              b.ID.String(),
		FirstName:       b.FirstName,
		LastName:        b.LastName,
		Company:         b.Company,
		Location:        b.Location,
		Industry:        b.Industry,
		Function:        b.Function,
		Review:          b.Review,
		Slug:            b.Slug,
		LinkedInProfile: b.LinkedInProfile,
		CreatedAt:       b.CreatedAt,
	}
}
