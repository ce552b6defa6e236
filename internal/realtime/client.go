package realtime

import (
	"encoding/json"
	"time"

	"eventsync/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client 一條 WebSocket 連線；生命週期由 Hub 擁有，
// 斷線時 ReadPump 退出並觸發唯一一次的 Unregister 清理
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// ReadPump 處理上行訊息：join-room / leave-room 操作房間成員，
// event-updated 轉發給同房間的其他連線（不含發送者，
// 讓觸發變更的客戶端不會重複處理自己的樂觀更新）
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithComponent("ws").Warn("unexpected close", zap.Error(err))
			}
			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.WithComponent("ws").Warn("invalid inbound message", zap.Error(err))
			continue
		}
		if msg.EventID == "" {
			continue
		}

		switch msg.Type {
		case MessageJoinRoom:
			c.hub.Join(c, msg.EventID)
		case MessageLeaveRoom:
			c.hub.Leave(c, msg.EventID)
		case MessageEventUpdated:
			c.hub.Broadcast(msg.EventID, MessageEventUpdated, msg.Payload, c)
		default:
			logger.WithComponent("ws").Warn("unknown message type", zap.String("type", msg.Type))
		}
	}
}

// WritePump 連線的唯一寫入者
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 已在 Unregister 關閉 send
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
