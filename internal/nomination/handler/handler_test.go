package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bestbosses/internal/access"
	"bestbosses/internal/boss"
	"bestbosses/internal/nomination"
	"bestbosses/internal/nomination/service"
	"bestbosses/internal/notify"
	"bestbosses/internal/platform/jwt"
	"bestbosses/internal/profile"
	id "bestbosses/pkg/domain"
)

const adminEmail = "admin@bestbosses.org"

type HandlerSuite struct {
	suite.Suite
	router   *chi.Mux
	tokens   *jwt.Service
	profiles *profile.InMemoryStore
	bosses   *boss.InMemoryStore

	memberToken string
	memberID    id.UserID
	adminToken  string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.router = chi.NewRouter()
	s.tokens = jwt.NewService("test-signing-key", "bestbosses")
	s.profiles = profile.NewInMemoryStore()
	s.bosses = boss.NewInMemoryStore()

	nominations := nomination.NewInMemoryStore()
	stores := service.Stores{
		Nominations: nominations,
		Profiles:    s.profiles,
		Bosses:      s.bosses,
		Outbox:      notify.NewInMemoryOutbox(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := service.NewEngine(service.NewMemoryTx(stores), stores, "https://bestbosses.org", logger, nil)
	gate := access.NewGate(s.profiles, adminEmail)
	New(engine, gate, nil, s.tokens, logger).Register(s.router)

	s.memberID = id.NewUserID()
	now := time.Now().UTC()
	s.Require().NoError(s.profiles.Create(context.Background(), &profile.Profile{
		UserID:    s.memberID,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	var err error
	s.memberToken, err = s.tokens.GenerateToken(uuid.UUID(s.memberID), "jane@example.com", time.Hour)
	s.Require().NoError(err)
	s.adminToken, err = s.tokens.GenerateToken(uuid.New(), adminEmail, time.Hour)
	s.Require().NoError(err)
}

func (s *HandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) validSubmission() map[string]string {
	return map[string]string{
		"boss_first_name":  "Alex",
		"boss_last_name":   "Morgan",
		"company":          "Acme Corp",
		"location":         "Denver, CO",
		"industry":         "Technology",
		"function":         "Engineering",
		"email":            "alex@acme.example",
		"linkedin_profile": "https://linkedin.com/in/alexmorgan",
		"review":           strings.Repeat("A genuinely supportive leader. ", 5),
	}
}

func (s *HandlerSuite) submit() string {
	rec := s.do(http.MethodPost, "/nominations", s.memberToken, s.validSubmission())
	s.Require().Equal(http.StatusCreated, rec.Code)
	var body struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body.ID
}

func (s *HandlerSuite) TestSubmit() {
	s.Run("authenticated member can submit", func() {
		rec := s.do(http.MethodPost, "/nominations", s.memberToken, s.validSubmission())
		s.Require().Equal(http.StatusCreated, rec.Code)

		var body struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("pending", body.Status)
		s.NotEmpty(body.ID)
	})

	s.Run("anonymous submission is unauthorized", func() {
		rec := s.do(http.MethodPost, "/nominations", "", s.validSubmission())
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("short review is a 400", func() {
		payload := s.validSubmission()
		payload["review"] = "Too short."
		rec := s.do(http.MethodPost, "/nominations", s.memberToken, payload)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed body is a 400", func() {
		req := httptest.NewRequest(http.MethodPost, "/nominations", strings.NewReader("{broken"))
		req.Header.Set("Authorization", "Bearer "+s.memberToken)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestMine() {
	nominationID := s.submit()

	rec := s.do(http.MethodGet, "/nominations/mine", s.memberToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Nominations []struct {
			ID string `json:"id"`
		} `json:"nominations"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body.Nominations, 1)
	s.Equal(nominationID, body.Nominations[0].ID)
}

func (s *HandlerSuite) TestAdminGate() {
	s.Run("member cannot reach the moderation queue", func() {
		rec := s.do(http.MethodGet, "/admin/nominations/", s.memberToken, nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("anonymous cannot reach it either", func() {
		rec := s.do(http.MethodGet, "/admin/nominations/", "", nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("admin sees the queue with nominator attribution", func() {
		s.submit()
		rec := s.do(http.MethodGet, "/admin/nominations/", s.adminToken, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var body struct {
			Nominations []struct {
				Status    string `json:"status"`
				Review    string `json:"review"`
				Nominator *struct {
					FirstName string `json:"first_name"`
					Email     string `json:"email"`
				} `json:"nominator"`
			} `json:"nominations"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Len(body.Nominations, 1)
		s.Equal("pending", body.Nominations[0].Status)
		s.NotEmpty(body.Nominations[0].Review)
		s.Require().NotNil(body.Nominations[0].Nominator)
		s.Equal("Jane", body.Nominations[0].Nominator.FirstName)
	})
}

func (s *HandlerSuite) TestApprove() {
	nominationID := s.submit()

	rec := s.do(http.MethodPost, fmt.Sprintf("/admin/nominations/%s/approve", nominationID), s.adminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("approved", body.Status)

	p, err := s.profiles.ByUserID(context.Background(), s.memberID)
	s.Require().NoError(err)
	s.True(p.HasApprovedNomination)

	s.Run("second approve conflicts", func() {
		rec := s.do(http.MethodPost, fmt.Sprintf("/admin/nominations/%s/approve", nominationID), s.adminToken, nil)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("resend succeeds once approved", func() {
		rec := s.do(http.MethodPost, fmt.Sprintf("/admin/nominations/%s/resend-boss-email", nominationID), s.adminToken, nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *HandlerSuite) TestReject() {
	nominationID := s.submit()

	rec := s.do(http.MethodPost, fmt.Sprintf("/admin/nominations/%s/reject", nominationID), s.adminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	s.Run("resend on a rejected nomination conflicts", func() {
		rec := s.do(http.MethodPost, fmt.Sprintf("/admin/nominations/%s/resend-boss-email", nominationID), s.adminToken, nil)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown id is a 404", func() {
		rec := s.do(http.MethodPost, fmt.Sprintf("/admin/nominations/%s/approve", id.NewNominationID()), s.adminToken, nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("malformed id is a 400", func() {
		rec := s.do(http.MethodPost, "/admin/nominations/garbage/approve", s.adminToken, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
