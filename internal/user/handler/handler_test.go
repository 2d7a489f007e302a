package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"foodlink/internal/user/handler/mocks"
	"foodlink/internal/user/models"
	"foodlink/internal/user/service"
	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
	"foodlink/pkg/requestcontext"
	"foodlink/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	ctrl        *gomock.Controller
	mockService *mocks.MockService
	caller      *models.User
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	s.caller = testutil.NewUserBuilder().Build()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Test-Anonymous") == "" {
				r = r.WithContext(requestcontext.WithUser(r.Context(), s.caller.ID, string(s.caller.Role)))
			}
			next.ServeHTTP(w, r)
		})
	})
	New(s.mockService, logger).Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) serve(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestGetMe() {
	s.mockService.EXPECT().Get(gomock.Any(), s.caller.ID).Return(s.caller, nil)

	rec := s.serve(http.MethodGet, "/users/me", "")

	s.Equal(http.StatusOK, rec.Code)
	var body ProfileResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(s.caller.Email, body.Email)
	s.Equal("donor", body.Role)
}

func (s *HandlerSuite) TestGetMeRequiresCaller() {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("X-Test-Anonymous", "1")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestProvisionMe() {
	s.Run("uses the token subject as id", func() {
		s.mockService.EXPECT().Register(gomock.Any(), service.RegisterCommand{
			ID:    s.caller.ID,
			Name:  "Hope Shelter",
			Email: "ops@hope.org",
			Role:  models.RoleNGO,
		}).Return(s.caller, nil)

		rec := s.serve(http.MethodPut, "/users/me", `{"name":" Hope Shelter ","email":"Ops@Hope.org","role":"NGO"}`)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("rejects unknown role before calling the service", func() {
		rec := s.serve(http.MethodPut, "/users/me", `{"name":"x","email":"x@example.com","role":"admin"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("conflict maps to 409", func() {
		s.mockService.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "user id or email already registered"))

		rec := s.serve(http.MethodPut, "/users/me", `{"name":"x","email":"x@example.com","role":"donor"}`)
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *HandlerSuite) TestGetUser() {
	s.Run("public view hides email", func() {
		other := testutil.NewUserBuilder().NGO().Build()
		s.mockService.EXPECT().Get(gomock.Any(), other.ID).Return(other, nil)

		rec := s.serve(http.MethodGet, "/users/"+other.ID.String(), "")

		s.Equal(http.StatusOK, rec.Code)
		s.NotContains(rec.Body.String(), other.Email)
		s.Contains(rec.Body.String(), `"role":"ngo"`)
	})

	s.Run("invalid id", func() {
		rec := s.serve(http.MethodGet, "/users/not-a-uuid", "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("not found", func() {
		missing := id.NewUserID()
		s.mockService.EXPECT().Get(gomock.Any(), missing).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "user not found"))

		rec := s.serve(http.MethodGet, "/users/"+missing.String(), "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
