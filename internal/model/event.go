package model

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	StatusUpcoming EventStatus = "Upcoming"
	StatusLive     EventStatus = "Live"
	StatusEnded    EventStatus = "Ended"
)

type EventCategory string

const (
	CategoryConference EventCategory = "Conference"
	CategoryWorkshop   EventCategory = "Workshop"
	CategorySocial     EventCategory = "Social"
	CategoryOther      EventCategory = "Other"
)

// Event 活動模型：status 欄位有持久化，但以日期重新計算為準
type Event struct {
	ID              int           `json:"id" db:"id"`
	EventID         uuid.UUID     `json:"event_id" db:"event_id"`
	Title           string        `json:"title" db:"title"`
	Description     string        `json:"description" db:"description"`
	Date            time.Time     `json:"date" db:"date"`
	Location        string        `json:"location" db:"location"`
	Category        EventCategory `json:"category" db:"category"`
	ImageURL        *string       `json:"image_url,omitempty" db:"image_url"`
	OrganizerID     int           `json:"-" db:"organizer_id"`
	MaxParticipants int           `json:"max_participants" db:"max_participants"`
	Status          EventStatus   `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`

	Organizer    *User   `json:"organizer,omitempty" db:"-"`
	Participants []*User `json:"participants,omitempty" db:"-"`
}

func (c EventCategory) Valid() bool {
	switch c {
	case CategoryConference, CategoryWorkshop, CategorySocial, CategoryOther:
		return true
	}
	return false
}

func (s EventStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusEnded:
		return true
	}
	return false
}
