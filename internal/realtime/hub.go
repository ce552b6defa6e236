package realtime

import (
	"context"
	"encoding/json"

	"eventsync/internal/monitoring"
	"eventsync/pkg/logger"

	"go.uber.org/zap"
)

type subscription struct {
	client  *Client
	eventID string
}

type broadcastRequest struct {
	eventID string
	data    []byte
	msgType string
	exclude *Client
}

// Hub 房間廣播器：以 event id 分組連線，通知只扇出給訂閱該活動的連線。
// 房間表只被 Run 這條 goroutine 碰，成員異動與廣播迭代天然互斥，
// 連線在廣播途中離開不會造成並發問題。
// 房間狀態不落地：重啟後由客戶端重連時重新 join-room 還原。
type Hub struct {
	// client -> 已加入的房間；rooms 為反向索引
	clients map[*Client]map[string]struct{}
	rooms   map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	join       chan subscription
	leave      chan subscription
	broadcast  chan broadcastRequest
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]map[string]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan subscription),
		leave:      make(chan subscription),
		broadcast:  make(chan broadcastRequest, 64),
	}
}

// Run 擁有房間表的唯一 goroutine，ctx 取消時結束
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case sub := <-h.join:
			h.handleJoin(sub)
		case sub := <-h.leave:
			h.handleLeave(sub)
		case req := <-h.broadcast:
			h.handleBroadcast(req)
		}
	}
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister 把連線自所有房間移除；斷線清理的唯一入口，
// 對不在任何房間的連線也安全
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Join 冪等：重複加入同一房間沒有額外效果
func (h *Hub) Join(c *Client, eventID string) {
	h.join <- subscription{client: c, eventID: eventID}
}

// Leave 對非成員為 no-op
func (h *Hub) Leave(c *Client, eventID string) {
	h.leave <- subscription{client: c, eventID: eventID}
}

// Broadcast 對房間內所有成員（exclude 除外）做 best-effort 投遞。
// payload 可為任意可序列化值，包含已序列化的 json.RawMessage。
func (h *Hub) Broadcast(eventID, msgType string, payload interface{}, exclude *Client) {
	data, err := json.Marshal(OutboundMessage{
		Type:    msgType,
		EventID: eventID,
		Payload: payload,
	})
	if err != nil {
		logger.WithComponent("hub").Error("marshal outbound message failed",
			zap.String("type", msgType), zap.Error(err))
		return
	}

	h.broadcast <- broadcastRequest{
		eventID: eventID,
		data:    data,
		msgType: msgType,
		exclude: exclude,
	}
}

func (h *Hub) handleRegister(c *Client) {
	if _, known := h.clients[c]; known {
		return
	}
	h.clients[c] = make(map[string]struct{})
	monitoring.ConnectionOpened()
}

func (h *Hub) handleUnregister(c *Client) {
	rooms, known := h.clients[c]
	if !known {
		return
	}
	for eventID := range rooms {
		h.removeFromRoom(c, eventID)
	}
	delete(h.clients, c)
	close(c.send)
	monitoring.ConnectionClosed()
	monitoring.SetOpenRooms(len(h.rooms))
}

func (h *Hub) handleJoin(sub subscription) {
	rooms, known := h.clients[sub.client]
	if !known {
		// 已斷線的連線不再加入房間
		return
	}

	room, ok := h.rooms[sub.eventID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[sub.eventID] = room
	}
	room[sub.client] = struct{}{}
	rooms[sub.eventID] = struct{}{}
	monitoring.SetOpenRooms(len(h.rooms))
}

func (h *Hub) handleLeave(sub subscription) {
	if rooms, known := h.clients[sub.client]; known {
		delete(rooms, sub.eventID)
	}
	h.removeFromRoom(sub.client, sub.eventID)
	monitoring.SetOpenRooms(len(h.rooms))
}

func (h *Hub) handleBroadcast(req broadcastRequest) {
	room, ok := h.rooms[req.eventID]
	if !ok {
		return
	}

	monitoring.BroadcastSent(req.msgType)
	for client := range room {
		if client == req.exclude {
			continue
		}
		select {
		case client.send <- req.data:
		default:
			// 慢速或死掉的連線：跳過這筆，不阻塞其他成員
			monitoring.DeliveryDropped()
		}
	}
}

// removeFromRoom 空房間即回收：房間只是連線分組的標籤，沒有持久身分
func (h *Hub) removeFromRoom(c *Client, eventID string) {
	room, ok := h.rooms[eventID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, eventID)
	}
}
