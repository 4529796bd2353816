package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elainedb/videofeed/domain/dto"
	httpHandler "github.com/elainedb/videofeed/interfaces/http"
	"github.com/elainedb/videofeed/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) SignIn(ctx context.Context, idToken string) (*dto.SessionResponse, error) {
	args := m.Called(idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SessionResponse), args.Error(1)
}

func (m *MockAuthUseCase) IsAuthorized(email string) bool {
	args := m.Called(email)
	return args.Bool(0)
}

func newAuthRouter(handler httpHandler.IAuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", handler.Login)
	router.GET("/api/account", func(ctx *gin.Context) {
		ctx.Set("email", "alice@example.com")
		handler.Account(ctx)
	})
	return router
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	mockUseCase.On("SignIn", "google-token").
		Return(&dto.SessionResponse{Token: "session-jwt", Email: "alice@example.com"}, nil).
		Once()

	router := newAuthRouter(httpHandler.NewAuthHandler(mockUseCase))
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"id_token":"google-token"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "session-jwt")
	mockUseCase.AssertExpectations(t)
}

func TestAuthHandler_Login_AccessDenied(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	mockUseCase.On("SignIn", "google-token").
		Return(nil, usecase.ErrAccessDenied).
		Once()

	router := newAuthRouter(httpHandler.NewAuthHandler(mockUseCase))
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"id_token":"google-token"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied. Your email is not authorized.")
	mockUseCase.AssertExpectations(t)
}

func TestAuthHandler_Login_VerificationFailure(t *testing.T) {
	mockUseCase := new(MockAuthUseCase)
	mockUseCase.On("SignIn", "bad-token").
		Return(nil, assert.AnError).
		Once()

	router := newAuthRouter(httpHandler.NewAuthHandler(mockUseCase))
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"id_token":"bad-token"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockUseCase.AssertExpectations(t)
}

func TestAuthHandler_Login_MissingToken(t *testing.T) {
	router := newAuthRouter(httpHandler.NewAuthHandler(new(MockAuthUseCase)))
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Account(t *testing.T) {
	router := newAuthRouter(httpHandler.NewAuthHandler(new(MockAuthUseCase)))
	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
}
