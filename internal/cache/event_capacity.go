package cache

import (
	"context"
	"errors"
	"fmt"

	apperrors "eventsync/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

// ErrNotWarmed 表示該活動的容量資訊尚未載入 Redis，呼叫端應先 WarmUp 再重試
var ErrNotWarmed = errors.New("event capacity not warmed")

type EventCapacityManager interface {
	// 預熱：把活動的人數上限與現有成員載入 Redis
	WarmUp(ctx context.Context, eventID string, maxParticipants int, members []string) error
	// 保留名額：原子檢查上限並記錄成員 (使用Lua腳本確保原子性)
	// 回傳 false 表示該使用者已佔有名額（冪等，不重複計數）
	Reserve(ctx context.Context, eventID string, userID string) (bool, error)
	// 釋放名額：移除成員紀錄
	Release(ctx context.Context, eventID string, userID string) error
	// 清除：活動刪除後移除所有容量資訊
	Drop(ctx context.Context, eventID string) error
}

type EventCapacityManagerImpl struct {
	client *redis.Client
}

func NewEventCapacityManager(client *redis.Client) EventCapacityManager {
	return &EventCapacityManagerImpl{
		client: client,
	}
}

// 上限 key
func (m *EventCapacityManagerImpl) getMaxKey(eventID string) string {
	return fmt.Sprintf("event:%s:max", eventID)
}

// 成員集合 key
func (m *EventCapacityManagerImpl) getMembersKey(eventID string) string {
	return fmt.Sprintf("event:%s:members", eventID)
}

func (m *EventCapacityManagerImpl) WarmUp(ctx context.Context, eventID string, maxParticipants int, members []string) error {
	maxKey := m.getMaxKey(eventID)
	membersKey := m.getMembersKey(eventID)

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, maxKey, maxParticipants, 0)
	pipe.Del(ctx, membersKey)
	if len(members) > 0 {
		args := make([]interface{}, 0, len(members))
		for _, member := range members {
			args = append(args, member)
		}
		pipe.SAdd(ctx, membersKey, args...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

/*
*

	保留活動名額 (使用Lua腳本確保原子性)
	1. 檢查容量資訊是否已預熱
	2. 檢查是否已是成員（冪等）
	3. 檢查人數上限
	4. 記錄成員
*/
func (m *EventCapacityManagerImpl) Reserve(ctx context.Context, eventID string, userID string) (bool, error) {
	maxKey := m.getMaxKey(eventID)
	membersKey := m.getMembersKey(eventID)

	script := `
		-- 1. 取得參數
		local max_key = KEYS[1]
		local members_key = KEYS[2]
		local user_id = ARGV[1]

		-- 2. 檢查容量資訊是否存在
		local max = redis.call('GET', max_key)
		if not max then
			return -3 -- 錯誤：容量資訊未預熱
		end

		-- 3. 已是成員：冪等，不重複計數
		if redis.call('SISMEMBER', members_key, user_id) == 1 then
			return 0
		end

		-- 4. 檢查人數上限
		if redis.call('SCARD', members_key) >= tonumber(max) then
			return -1 -- 錯誤：已額滿
		end

		-- 5. 記錄成員
		redis.call('SADD', members_key, user_id)

		return 1 -- 保留成功
	`

	result, err := m.client.Eval(ctx, script, []string{maxKey, membersKey}, userID).Result()
	if err != nil {
		return false, err
	}

	code := result.(int64)

	switch code {
	case 1:
		return true, nil
	case 0:
		return false, nil
	case -1:
		return false, apperrors.ErrEventFull
	case -3:
		return false, ErrNotWarmed
	default:
		return false, errors.New("unexpected result")
	}
}

func (m *EventCapacityManagerImpl) Release(ctx context.Context, eventID string, userID string) error {
	return m.client.SRem(ctx, m.getMembersKey(eventID), userID).Err()
}

func (m *EventCapacityManagerImpl) Drop(ctx context.Context, eventID string) error {
	return m.client.Del(ctx, m.getMaxKey(eventID), m.getMembersKey(eventID)).Err()
}
