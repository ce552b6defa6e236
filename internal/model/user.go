package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           int       `json:"-" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	IsGuest      bool      `json:"is_guest" db:"is_guest"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserProfile 個人頁面回應：建立過的活動以 organizer_id 查詢，不另外存陣列
type UserProfile struct {
	User          *User    `json:"user"`
	CreatedEvents []*Event `json:"created_events"`
}
