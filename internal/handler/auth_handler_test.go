package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eventsync/internal/handler"
	"eventsync/internal/model"
	"eventsync/internal/service"
	"eventsync/internal/service/mocks"
	apperrors "eventsync/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAuthTestRouter(mockService *mocks.AuthServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authHandler := handler.NewAuthHandler(mockService)
	authHandler.RegisterRoutes(router)

	return router
}

func TestRegister(t *testing.T) {
	validRequest := handler.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewAuthServiceMock()
		router := setupAuthTestRouter(mockService)

		mockService.On("Register", mock.Anything, "Alice", "alice@example.com", "secret123").
			Return(&service.AuthResult{User: &model.User{ID: 1}, Token: "token"}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/auth/register", validRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - email taken", func(t *testing.T) {
		mockService := mocks.NewAuthServiceMock()
		router := setupAuthTestRouter(mockService)

		mockService.On("Register", mock.Anything, "Alice", "alice@example.com", "secret123").
			Return(nil, apperrors.ErrUserAlreadyExists).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/auth/register", validRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - password too short", func(t *testing.T) {
		mockService := mocks.NewAuthServiceMock()
		router := setupAuthTestRouter(mockService)

		short := validRequest
		short.Password = "abc"

		req := createJSONHTTPRequest("POST", "/api/v1/auth/register", short)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Register")
	})
}

func TestLogin(t *testing.T) {
	validRequest := handler.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	}

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewAuthServiceMock()
		router := setupAuthTestRouter(mockService)

		mockService.On("Login", mock.Anything, "alice@example.com", "secret123").
			Return(&service.AuthResult{User: &model.User{ID: 1}, Token: "token"}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/auth/login", validRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - invalid credentials", func(t *testing.T) {
		mockService := mocks.NewAuthServiceMock()
		router := setupAuthTestRouter(mockService)

		mockService.On("Login", mock.Anything, "alice@example.com", "secret123").
			Return(nil, apperrors.ErrInvalidCredentials).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/auth/login", validRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGuestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewAuthServiceMock()
		router := setupAuthTestRouter(mockService)

		mockService.On("GuestLogin", mock.Anything).
			Return(&service.AuthResult{User: &model.User{ID: 2, IsGuest: true}, Token: "token"}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/auth/guest", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}
