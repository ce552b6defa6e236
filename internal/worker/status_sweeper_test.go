package worker_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"eventsync/internal/model"
	"eventsync/internal/queue"
	"eventsync/internal/realtime"
	repoMocks "eventsync/internal/repository/mocks"
	"eventsync/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusSweeper_TransitionsStaleStatuses(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	eventRepo := repoMocks.NewEventRepositoryMock()
	userRepo := repoMocks.NewUserRepositoryMock()
	q := queue.NewNotificationQueue(10)
	deliveries, err := q.SubscribeNotifications(ctx)
	require.NoError(t, err)

	eventID := uuid.New()
	organizer := &model.User{ID: 7, UserID: uuid.New(), Name: "Bob"}
	participant := &model.User{ID: 5, UserID: uuid.New(), Name: "Alice"}
	// 日期已過但欄位還停在 Upcoming
	stale := &model.Event{ID: 1, EventID: eventID, OrganizerID: 7, Date: time.Now().Add(-48 * time.Hour), Status: model.StatusUpcoming}
	swept := &model.Event{ID: 1, EventID: eventID, OrganizerID: 7, Date: stale.Date, Status: model.StatusEnded}

	eventRepo.On("List", ctx).Return([]*model.Event{stale}, nil)
	eventRepo.On("UpdateStatus", ctx, 1, model.StatusEnded).Return(swept, nil)
	userRepo.On("FindByID", ctx, 7).Return(organizer, nil)
	eventRepo.On("ListParticipants", ctx, 1).Return([]*model.User{participant}, nil)

	sweeper := worker.NewStatusSweeper(eventRepo, userRepo, q, 10*time.Millisecond)
	require.NoError(t, sweeper.Start(ctx))

	select {
	case d := <-deliveries:
		assert.Equal(t, eventID.String(), d.Data.EventID)
		assert.Equal(t, realtime.MessageEventUpdated, d.Data.Type)

		// payload 是完整快照：organizer 與 participants 都要在
		var event model.Event
		require.NoError(t, json.Unmarshal(d.Data.Payload, &event))
		assert.Equal(t, model.StatusEnded, event.Status)
		require.NotNil(t, event.Organizer)
		assert.Equal(t, "Bob", event.Organizer.Name)
		require.Len(t, event.Participants, 1)
		assert.Equal(t, "Alice", event.Participants[0].Name)
		d.Ack()
	case <-time.After(time.Second):
		t.Fatal("sweeper did not broadcast the transition in time")
	}
	eventRepo.AssertCalled(t, "UpdateStatus", ctx, 1, model.StatusEnded)
}

func TestStatusSweeper_LeavesCurrentStatusesAlone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	eventRepo := repoMocks.NewEventRepositoryMock()
	userRepo := repoMocks.NewUserRepositoryMock()
	q := queue.NewNotificationQueue(10)

	current := &model.Event{ID: 1, EventID: uuid.New(), Date: time.Now().Add(48 * time.Hour), Status: model.StatusUpcoming}
	eventRepo.On("List", ctx).Return([]*model.Event{current}, nil)

	sweeper := worker.NewStatusSweeper(eventRepo, userRepo, q, 10*time.Millisecond)
	require.NoError(t, sweeper.Start(ctx))

	// 等幾個掃描週期過去
	time.Sleep(100 * time.Millisecond)

	eventRepo.AssertNotCalled(t, "UpdateStatus")
}
