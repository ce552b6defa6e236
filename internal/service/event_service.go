package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"eventsync/internal/cache"
	"eventsync/internal/model"
	"eventsync/internal/monitoring"
	"eventsync/internal/queue"
	"eventsync/internal/realtime"
	"eventsync/internal/repository"
	"eventsync/internal/status"
	apperrors "eventsync/pkg/app_errors"
	"eventsync/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, event *model.Event, organizerID uuid.UUID) (*model.Event, error)
	// Join 加入活動：已結束回傳 ErrEventEnded、額滿回傳 ErrEventFull，
	// 已是成員時冪等成功。廣播一律在持久化成功之後。
	Join(ctx context.Context, eventID, userID uuid.UUID) (*model.Event, error)
	Leave(ctx context.Context, eventID, userID uuid.UUID) (*model.Event, error)
	JoinStatus(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	Participants(ctx context.Context, eventID uuid.UUID) ([]*model.User, error)
	UpdateStatus(ctx context.Context, eventID uuid.UUID, s model.EventStatus) (*model.Event, error)
	// Delete 只有主辦人可刪除
	Delete(ctx context.Context, eventID, actorID uuid.UUID) error
	CurrentEvent(ctx context.Context, userID uuid.UUID) (*model.Event, error)
}

type EventServiceImpl struct {
	repo     repository.EventRepository
	userRepo repository.UserRepository
	capacity cache.EventCapacityManager
	queue    queue.NotificationQueue
}

func NewEventService(
	repo repository.EventRepository,
	userRepo repository.UserRepository,
	capacity cache.EventCapacityManager,
	notificationQueue queue.NotificationQueue,
) EventService {
	return &EventServiceImpl{
		repo:     repo,
		userRepo: userRepo,
		capacity: capacity,
		queue:    notificationQueue,
	}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, event := range events {
		event.Status = status.Calculate(event.Date, now)
	}
	return events, nil
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event, organizerID uuid.UUID) (*model.Event, error) {
	organizer, err := s.userRepo.FindByUserID(ctx, organizerID)
	if err != nil {
		return nil, err
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if !event.Category.Valid() {
		event.Category = model.CategoryOther
	}
	if event.MaxParticipants < 1 {
		return nil, apperrors.ErrInvalidInput
	}

	// 只保留日期，時刻與狀態判斷無關
	event.Date = truncateToDay(event.Date)
	event.OrganizerID = organizer.ID
	event.Status = status.Calculate(event.Date, time.Now())

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	created.Organizer = organizer

	if err := s.capacity.WarmUp(ctx, created.EventID.String(), created.MaxParticipants, nil); err != nil {
		// 預熱失敗不影響建立：之後第一次 join 會再預熱
		logger.WithComponent("service").Warn("capacity warmup failed",
			zap.String("event_id", created.EventID.String()), zap.Error(err))
	}

	return created, nil
}

func (s *EventServiceImpl) Join(ctx context.Context, eventID, userID uuid.UUID) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 狀態永遠從日期重算，不信任持久化欄位
	if status.Calculate(event.Date, time.Now()) == model.StatusEnded {
		monitoring.MembershipOp("join", "ended")
		return nil, apperrors.ErrEventEnded
	}

	// 1. Redis 原子保留名額：兩個併發 join 搶最後一個名額時在這裡分勝負
	reserved, err := s.reserve(ctx, event, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrEventFull) {
			monitoring.MembershipOp("join", "full")
		}
		return nil, err
	}

	// 2. 條件式寫入資料庫：容量上限在 store 層再把關一次
	if err := s.repo.AddParticipant(ctx, event.ID, user.ID, event.MaxParticipants); err != nil {
		if reserved {
			// 寫入失敗要歸還名額；用 context.Background() 確保一定執行
			if rbErr := s.capacity.Release(context.Background(), eventID.String(), userID.String()); rbErr != nil {
				logger.WithComponent("service").Error("capacity release failed",
					zap.String("event_id", eventID.String()), zap.Error(rbErr))
			}
		}
		monitoring.MembershipOp("join", "failed")
		return nil, err
	}

	if err := s.populate(ctx, event); err != nil {
		return nil, err
	}

	monitoring.MembershipOp("join", "success")
	s.notifyMembershipChange(ctx, event, user, realtime.MessageUserJoinedEvent)
	return event, nil
}

func (s *EventServiceImpl) Leave(ctx context.Context, eventID, userID uuid.UUID) (*model.Event, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RemoveParticipant(ctx, event.ID, user.ID); err != nil {
		monitoring.MembershipOp("leave", "failed")
		return nil, err
	}

	if err := s.capacity.Release(ctx, eventID.String(), userID.String()); err != nil {
		logger.WithComponent("service").Warn("capacity release failed",
			zap.String("event_id", eventID.String()), zap.Error(err))
	}

	if err := s.populate(ctx, event); err != nil {
		return nil, err
	}

	monitoring.MembershipOp("leave", "success")
	s.notifyMembershipChange(ctx, event, user, realtime.MessageUserLeftEvent)
	return event, nil
}

func (s *EventServiceImpl) JoinStatus(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return false, err
	}
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.repo.IsParticipant(ctx, event.ID, user.ID)
}

func (s *EventServiceImpl) Participants(ctx context.Context, eventID uuid.UUID) ([]*model.User, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListParticipants(ctx, event.ID)
}

func (s *EventServiceImpl) UpdateStatus(ctx context.Context, eventID uuid.UUID, st model.EventStatus) (*model.Event, error) {
	if !st.Valid() {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, event.ID, st)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, updated); err != nil {
		return nil, err
	}
	// 呼叫端指定什麼就回報什麼，不被 populate 重算蓋掉
	updated.Status = st

	s.publish(ctx, updated.EventID.String(), realtime.MessageEventUpdated, updated)
	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, eventID, actorID uuid.UUID) error {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	actor, err := s.userRepo.FindByUserID(ctx, actorID)
	if err != nil {
		return err
	}

	if event.OrganizerID != actor.ID {
		return apperrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, event.ID); err != nil {
		return err
	}

	if err := s.capacity.Drop(ctx, eventID.String()); err != nil {
		logger.WithComponent("service").Warn("capacity drop failed",
			zap.String("event_id", eventID.String()), zap.Error(err))
	}

	s.publish(ctx, eventID.String(), realtime.MessageEventDeleted, eventID.String())
	return nil
}

func (s *EventServiceImpl) CurrentEvent(ctx context.Context, userID uuid.UUID) (*model.Event, error) {
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, err := s.repo.FindCurrentByUser(ctx, user.ID)
	if err != nil || event == nil {
		return nil, err
	}
	if err := s.populate(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// reserve 對 Redis 保留名額；容量資訊未預熱時從資料庫補載一次再重試
func (s *EventServiceImpl) reserve(ctx context.Context, event *model.Event, user *model.User) (bool, error) {
	reserved, err := s.capacity.Reserve(ctx, event.EventID.String(), user.UserID.String())
	if !errors.Is(err, cache.ErrNotWarmed) {
		return reserved, err
	}

	members, err := s.repo.ListParticipants(ctx, event.ID)
	if err != nil {
		return false, err
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID.String())
	}
	if err := s.capacity.WarmUp(ctx, event.EventID.String(), event.MaxParticipants, ids); err != nil {
		return false, err
	}

	return s.capacity.Reserve(ctx, event.EventID.String(), user.UserID.String())
}

// populate 補齊 organizer 與 participants 快照並重算狀態。
// event-updated 的 payload 一律帶 organizer，客戶端不需要 fallback 合併。
func (s *EventServiceImpl) populate(ctx context.Context, event *model.Event) error {
	organizer, err := s.userRepo.FindByID(ctx, event.OrganizerID)
	if err != nil {
		return err
	}
	participants, err := s.repo.ListParticipants(ctx, event.ID)
	if err != nil {
		return err
	}
	event.Organizer = organizer
	event.Participants = participants
	event.Status = status.Calculate(event.Date, time.Now())
	return nil
}

// notifyMembershipChange 成員異動後的三連發廣播：
// 完整活動快照、參與者名單快照、異動者身分
func (s *EventServiceImpl) notifyMembershipChange(ctx context.Context, event *model.Event, user *model.User, actorMsgType string) {
	eventID := event.EventID.String()
	s.publish(ctx, eventID, realtime.MessageEventUpdated, event)
	s.publish(ctx, eventID, realtime.MessageParticipantsUpdated, event.Participants)
	s.publish(ctx, eventID, actorMsgType, map[string]interface{}{
		"user":    user,
		"eventId": eventID,
	})
}

// publish 發送通知到隊列。持久化已經成功，發送失敗只記 log 不回滾：
// 廣播是失效提示，客戶端隨時可以重新抓取補償。
func (s *EventServiceImpl) publish(ctx context.Context, eventID, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.WithComponent("service").Error("marshal notification payload failed",
			zap.String("type", msgType), zap.Error(err))
		return
	}

	if err := s.queue.PublishNotification(ctx, &model.Notification{
		EventID: eventID,
		Type:    msgType,
		Payload: data,
	}); err != nil {
		logger.WithComponent("service").Warn("publish notification failed",
			zap.String("event_id", eventID), zap.String("type", msgType), zap.Error(err))
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
