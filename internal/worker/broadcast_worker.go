package worker

import (
	"context"

	"eventsync/internal/queue"
	"eventsync/internal/realtime"
)

type BroadcastWorker interface {
	// 訂閱通知隊列並扇出到 Hub
	Start(ctx context.Context) error
}

// Broadcaster 是 worker 需要的 Hub 能力子集
type Broadcaster interface {
	Broadcast(eventID, msgType string, payload interface{}, exclude *realtime.Client)
}

type BroadcastWorkerImpl struct {
	hub   Broadcaster
	queue queue.NotificationQueue
}

func NewBroadcastWorker(hub Broadcaster, queue queue.NotificationQueue) BroadcastWorker {
	return &BroadcastWorkerImpl{
		hub:   hub,
		queue: queue,
	}
}

func (w *BroadcastWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeNotifications(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			// 扇出本身是 best-effort：交給 Hub 之後就算完成，
			// 未送達的連線由客戶端重新抓取補償，不重試
			w.hub.Broadcast(msg.Data.EventID, msg.Data.Type, msg.Data.Payload, nil)
			msg.Ack()
		}
	}()
	return nil
}
