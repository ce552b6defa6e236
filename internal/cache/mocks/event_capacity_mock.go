package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EventCapacityManagerMock struct {
	mock.Mock
}

func NewEventCapacityManagerMock() *EventCapacityManagerMock {
	return &EventCapacityManagerMock{}
}

func (m *EventCapacityManagerMock) WarmUp(ctx context.Context, eventID string, maxParticipants int, members []string) error {
	args := m.Called(ctx, eventID, maxParticipants, members)
	return args.Error(0)
}

func (m *EventCapacityManagerMock) Reserve(ctx context.Context, eventID string, userID string) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *EventCapacityManagerMock) Release(ctx context.Context, eventID string, userID string) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}

func (m *EventCapacityManagerMock) Drop(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
