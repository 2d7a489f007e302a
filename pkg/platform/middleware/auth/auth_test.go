package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	id "foodlink/pkg/domain"
	"foodlink/pkg/requestcontext"
)

const testUserID = "550e8400-e29b-41d4-a716-446655440001"

type MockJWTValidator struct {
	mock.Mock
}

func (m *MockJWTValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	args := m.Called(tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(*JWTClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

type captureHandler struct {
	called bool
	ctx    context.Context
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type AuthMiddlewareSuite struct {
	suite.Suite
	validator *MockJWTValidator
	next      *captureHandler
	handler   http.Handler
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.validator = new(MockJWTValidator)
	s.next = &captureHandler{}
	s.handler = RequireAuth(s.validator, slog.Default())(s.next)
}

func (s *AuthMiddlewareSuite) TearDownTest() {
	s.validator.AssertExpectations(s.T())
}

func (s *AuthMiddlewareSuite) serve(authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *AuthMiddlewareSuite) TestValidTokenPopulatesContext() {
	s.validator.On("ValidateToken", "good").Return(&JWTClaims{UserID: testUserID, Role: "donor"}, nil)

	rec := s.serve("Bearer good")

	s.Equal(http.StatusOK, rec.Code)
	s.Require().True(s.next.called)
	want, err := id.ParseUserID(testUserID)
	s.Require().NoError(err)
	s.Equal(want, requestcontext.UserID(s.next.ctx))
	s.Equal("donor", requestcontext.Role(s.next.ctx))
}

func (s *AuthMiddlewareSuite) TestMissingHeader() {
	rec := s.serve("")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(s.next.called)
}

func (s *AuthMiddlewareSuite) TestWrongScheme() {
	rec := s.serve("Basic abc")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(s.next.called)
}

func (s *AuthMiddlewareSuite) TestInvalidToken() {
	s.validator.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	rec := s.serve("Bearer bad")

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(s.next.called)
}

func (s *AuthMiddlewareSuite) TestMalformedUserClaim() {
	s.validator.On("ValidateToken", "odd").Return(&JWTClaims{UserID: "nope", Role: "ngo"}, nil)

	rec := s.serve("Bearer odd")

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(s.next.called)
}
