package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBadgeUnlocked  Type = "badge_unlocked"
	TypeQuestCompleted Type = "quest_completed"
	TypeRewardsClaimed Type = "rewards_claimed"
)

type Notification struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Identity  string         `json:"identity" db:"identity"`
	Type      Type           `json:"type" db:"type"`
	Title     string         `json:"title" db:"title"`
	Message   string         `json:"message" db:"message"`
	IsRead    bool           `json:"is_read" db:"is_read"`
	Data      map[string]any `json:"data" db:"data"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

type DeviceToken struct {
	Token    string `json:"token" db:"token"`
	Platform string `json:"platform" db:"platform"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
}
