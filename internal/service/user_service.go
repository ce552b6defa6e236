package service

import (
	"context"
	"time"

	"eventsync/internal/model"
	"eventsync/internal/repository"
	"eventsync/internal/status"

	"github.com/google/uuid"
)

type UserService interface {
	// Profile 個人頁面：使用者資料加上其主辦的活動
	Profile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error)
	Update(ctx context.Context, userID uuid.UUID, params repository.UpdateUserParams) (*model.User, error)
}

type UserServiceImpl struct {
	userRepo  repository.UserRepository
	eventRepo repository.EventRepository
}

func NewUserService(userRepo repository.UserRepository, eventRepo repository.EventRepository) UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		eventRepo: eventRepo,
	}
}

func (s *UserServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByOrganizer(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, event := range events {
		event.Status = status.Calculate(event.Date, now)
	}

	return &model.UserProfile{
		User:          user,
		CreatedEvents: events,
	}, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, userID uuid.UUID, params repository.UpdateUserParams) (*model.User, error) {
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Update(ctx, user.ID, params)
}
