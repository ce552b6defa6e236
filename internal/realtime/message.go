package realtime

import "encoding/json"

// 房間訊息目錄：名稱沿用前端既有的 socket 事件名
const (
	// 客戶端發送
	MessageJoinRoom  = "join-room"
	MessageLeaveRoom = "leave-room"

	// 伺服器廣播
	MessageEventUpdated        = "event-updated"
	MessageParticipantsUpdated = "participants-updated"
	MessageUserJoinedEvent     = "user-joined-event"
	MessageUserLeftEvent       = "user-left-event"
	MessageEventDeleted        = "event-deleted"
)

// InboundMessage 客戶端上行訊息
type InboundMessage struct {
	Type    string          `json:"type"`
	EventID string          `json:"eventId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutboundMessage 伺服器下行訊息
type OutboundMessage struct {
	Type    string      `json:"type"`
	EventID string      `json:"eventId"`
	Payload interface{} `json:"payload,omitempty"`
}
