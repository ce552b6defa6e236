package worker

import (
	"context"
	"encoding/json"
	"time"

	"eventsync/internal/model"
	"eventsync/internal/queue"
	"eventsync/internal/realtime"
	"eventsync/internal/repository"
	"eventsync/internal/status"
	"eventsync/pkg/logger"

	"go.uber.org/zap"
)

// StatusSweeper 定期以日期重算活動狀態：持久化的 status 欄位會隨時間過期
// （Upcoming→Live→Ended 的轉換不經過任何寫入請求），這裡補上轉換並廣播。
type StatusSweeper interface {
	Start(ctx context.Context) error
}

type StatusSweeperImpl struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	queue     queue.NotificationQueue
	period    time.Duration
}

func NewStatusSweeper(eventRepo repository.EventRepository, userRepo repository.UserRepository, queue queue.NotificationQueue, period time.Duration) StatusSweeper {
	return &StatusSweeperImpl{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		queue:     queue,
		period:    period,
	}
}

func (w *StatusSweeperImpl) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(w.period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()
	return nil
}

func (w *StatusSweeperImpl) sweep(ctx context.Context) {
	log := logger.WithComponent("status_sweeper")

	events, err := w.eventRepo.List(ctx)
	if err != nil {
		log.Error("list events failed", zap.Error(err))
		return
	}

	now := time.Now()
	for _, event := range events {
		current := status.Calculate(event.Date, now)
		if current == event.Status {
			continue
		}

		updated, err := w.eventRepo.UpdateStatus(ctx, event.ID, current)
		if err != nil {
			log.Error("update status failed",
				zap.String("event_id", event.EventID.String()), zap.Error(err))
			continue
		}

		// event-updated 一律帶完整快照：organizer 與 participants 補齊後才廣播
		organizer, err := w.userRepo.FindByID(ctx, updated.OrganizerID)
		if err != nil {
			log.Error("find organizer failed",
				zap.String("event_id", updated.EventID.String()), zap.Error(err))
			continue
		}
		participants, err := w.eventRepo.ListParticipants(ctx, updated.ID)
		if err != nil {
			log.Error("list participants failed",
				zap.String("event_id", updated.EventID.String()), zap.Error(err))
			continue
		}
		updated.Organizer = organizer
		updated.Participants = participants

		payload, err := json.Marshal(updated)
		if err != nil {
			log.Error("marshal event failed", zap.Error(err))
			continue
		}

		// 廣播在持久化成功之後
		if err := w.queue.PublishNotification(ctx, &model.Notification{
			EventID: updated.EventID.String(),
			Type:    realtime.MessageEventUpdated,
			Payload: payload,
		}); err != nil {
			log.Warn("publish notification failed",
				zap.String("event_id", updated.EventID.String()), zap.Error(err))
		}

		log.Info("event status transitioned",
			zap.String("event_id", updated.EventID.String()),
			zap.String("from", string(event.Status)),
			zap.String("to", string(current)))
	}
}
