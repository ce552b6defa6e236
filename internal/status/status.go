package status

import (
	"time"

	"eventsync/internal/model"
)

// Calculate 以「日」為單位比較活動日期與當前時間：
// 同一天為 Live、過去為 Ended、未來為 Upcoming。
// 純函數：status 會隨著日期前進而改變，呼叫端每次存取都必須重新計算，
// 不可信任資料庫裡的舊值。
func Calculate(eventDate, now time.Time) model.EventStatus {
	eventDay := truncateToDay(eventDate)
	today := truncateToDay(now)

	switch {
	case eventDay.Equal(today):
		return model.StatusLive
	case eventDay.Before(today):
		return model.StatusEnded
	default:
		return model.StatusUpcoming
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
