package model

import "encoding/json"

// Notification 一筆待廣播的房間通知：payload 由 service 先行序列化，
// 讓 queue 傳輸與 hub 扇出都不需要知道內容結構
type Notification struct {
	EventID string          `json:"event_id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
