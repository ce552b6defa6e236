package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eventsync/internal/handler"
	"eventsync/internal/model"
	"eventsync/internal/service/mocks"
	apperrors "eventsync/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	testEventID = uuid.MustParse("a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11")
	testUserID  = uuid.MustParse("b1eebc99-9c0b-4ef8-bb6d-6bb9bd380a22")
)

func setupEventTestRouter(mockService *mocks.EventServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	eventHandler := handler.NewEventHandler(mockService)
	eventHandler.RegisterRoutes(router, fakeAuth(testUserID))

	return router
}

func TestListEvents(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("List", mock.Anything).Return([]*model.Event{
			{ID: 1, EventID: testEventID, Title: "Meetup", Status: model.StatusUpcoming},
		}, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/events", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("GetByEventID", mock.Anything, testEventID).
			Return(&model.Event{ID: 1, EventID: testEventID, Title: "Meetup"}, nil).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/events/"+testEventID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - not found", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("GetByEventID", mock.Anything, testEventID).
			Return(nil, apperrors.ErrEventNotFound).Once()

		req := createJSONHTTPRequest("GET", "/api/v1/events/"+testEventID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - malformed uuid", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		req := createJSONHTTPRequest("GET", "/api/v1/events/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetByEventID")
	})
}

func TestCreateEvent(t *testing.T) {
	validRequest := handler.CreateEventRequest{
		Title:           "Meetup",
		Description:     "A meetup",
		Date:            "2026-10-01",
		Location:        "Taipei",
		MaxParticipants: 20,
	}

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.Event"), testUserID).
			Return(&model.Event{ID: 1, EventID: testEventID, Title: "Meetup"}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/events", validRequest)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - bad date format", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		bad := validRequest
		bad.Date = "10/01/2026"

		req := createJSONHTTPRequest("POST", "/api/v1/events", bad)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("Failed - missing required fields", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/api/v1/events", handler.CreateEventRequest{Title: "Meetup"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestJoinEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("Join", mock.Anything, testEventID, testUserID).
			Return(&model.Event{ID: 1, EventID: testEventID}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/events/"+testEventID.String()+"/join", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - event full", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("Join", mock.Anything, testEventID, testUserID).
			Return(nil, apperrors.ErrEventFull).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/events/"+testEventID.String()+"/join", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - event ended", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("Join", mock.Anything, testEventID, testUserID).
			Return(nil, apperrors.ErrEventEnded).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/events/"+testEventID.String()+"/join", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("Leave", mock.Anything, testEventID, testUserID).
			Return(&model.Event{ID: 1, EventID: testEventID}, nil).Once()

		req := createJSONHTTPRequest("PUT", "/api/v1/events/"+testEventID.String()+"/leave", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - not joined", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("Leave", mock.Anything, testEventID, testUserID).
			Return(nil, apperrors.ErrNotJoined).Once()

		req := createJSONHTTPRequest("PUT", "/api/v1/events/"+testEventID.String()+"/leave", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestJoinStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("JoinStatus", mock.Anything, testEventID, testUserID).
			Return(true, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/v1/events/"+testEventID.String()+"/join-status", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"is_joined": true}`, w.Body.String())
	})
}

func TestUpdateEventStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("UpdateStatus", mock.Anything, testEventID, model.StatusLive).
			Return(&model.Event{ID: 1, EventID: testEventID, Status: model.StatusLive}, nil).Once()

		req := createJSONHTTPRequest("PATCH", "/api/v1/events/"+testEventID.String(),
			handler.UpdateEventStatusRequest{Status: "Live"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - invalid status", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventTestRouter(mockService)

		mockService.On("UpdateStatus", mock.Anything, testEventID, model.EventStatus("Paused")).
			Return(nil, apperrors.ErrInvalidInput).Once()

		req := createJSONHTTPRequest("PATCH", "/api/v1/events/"+testEventID.String(),
			handler.UpdateEventStatusRequest{Status: "Paused"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
