package service_test

import (
	"context"
	"testing"
	"time"

	"eventsync/internal/model"
	"eventsync/internal/repository"
	repoMocks "eventsync/internal/repository/mocks"
	"eventsync/internal/service"
	apperrors "eventsync/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.MustParse("b1eebc99-9c0b-4ef8-bb6d-6bb9bd380a22")
	user := &model.User{ID: 5, UserID: userID, Name: "Alice"}

	t.Run("Success - created events with fresh statuses", func(t *testing.T) {
		userRepo := repoMocks.NewUserRepositoryMock()
		eventRepo := repoMocks.NewEventRepositoryMock()
		svc := service.NewUserService(userRepo, eventRepo)

		stale := &model.Event{ID: 1, Date: time.Now().Add(-48 * time.Hour), Status: model.StatusUpcoming}
		userRepo.On("FindByUserID", ctx, userID).Return(user, nil)
		eventRepo.On("ListByOrganizer", ctx, 5).Return([]*model.Event{stale}, nil)

		profile, err := svc.Profile(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, user, profile.User)
		require.Len(t, profile.CreatedEvents, 1)
		assert.Equal(t, model.StatusEnded, profile.CreatedEvents[0].Status)
	})

	t.Run("Failed - user not found", func(t *testing.T) {
		userRepo := repoMocks.NewUserRepositoryMock()
		eventRepo := repoMocks.NewEventRepositoryMock()
		svc := service.NewUserService(userRepo, eventRepo)

		userRepo.On("FindByUserID", ctx, userID).Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Profile(ctx, userID)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		eventRepo.AssertNotCalled(t, "ListByOrganizer")
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.MustParse("b1eebc99-9c0b-4ef8-bb6d-6bb9bd380a22")
	user := &model.User{ID: 5, UserID: userID, Name: "Alice"}

	t.Run("Success", func(t *testing.T) {
		userRepo := repoMocks.NewUserRepositoryMock()
		eventRepo := repoMocks.NewEventRepositoryMock()
		svc := service.NewUserService(userRepo, eventRepo)

		name := "Alice Cooper"
		params := repository.UpdateUserParams{Name: &name}
		updated := &model.User{ID: 5, UserID: userID, Name: name}

		userRepo.On("FindByUserID", ctx, userID).Return(user, nil)
		userRepo.On("Update", ctx, 5, params).Return(updated, nil)

		result, err := svc.Update(ctx, userID, params)

		require.NoError(t, err)
		assert.Equal(t, name, result.Name)
		userRepo.AssertExpectations(t)
	})
}
