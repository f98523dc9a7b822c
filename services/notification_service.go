package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"spookTrailsAPI/internal/badge"
	"spookTrailsAPI/internal/identity"
	"spookTrailsAPI/internal/notification"
	"spookTrailsAPI/internal/quest"
	"spookTrailsAPI/internal/reward"
)

// PushProvider is injected after construction so the service still works
// when FCM credentials are absent (pushes are simply skipped).
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type NotificationService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

// create inserts the row and fires the push. Notification failures never
// propagate into the flow that triggered them.
func (s *NotificationService) create(ctx context.Context, id identity.ID, typ notification.Type, title, message string, data map[string]any) {
	dataJSON, _ := json.Marshal(data)

	query := `
	INSERT INTO notifications (id, identity, type, title, message, data, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
	`

	if _, err := s.db.Exec(ctx, query, uuid.New(), id.String(), typ, title, message, dataJSON); err != nil {
		log.Printf("notifications: failed to create %s for %s: %v", typ, id, err)
		return
	}

	if s.push == nil {
		return
	}
	tokens := s.deviceTokens(ctx, id)
	if err := s.push.SendPush(ctx, tokens, title, message, data); err != nil {
		log.Printf("notifications: push for %s failed: %v", id, err)
	}
}

func (s *NotificationService) NotifyBadgeUnlocked(ctx context.Context, id identity.ID, b badge.Badge) {
	s.create(ctx, id, notification.TypeBadgeUnlocked,
		"Badge unlocked!",
		fmt.Sprintf("You earned %s (%s)", b.Name, b.Rarity),
		map[string]any{"badge_id": b.ID, "rarity": string(b.Rarity)},
	)
}

func (s *NotificationService) NotifyQuestCompleted(ctx context.Context, id identity.ID, q quest.Quest) {
	s.create(ctx, id, notification.TypeQuestCompleted,
		"Quest completed!",
		fmt.Sprintf("%s is done. Claim your rewards!", q.Title),
		map[string]any{"quest_id": q.ID},
	)
}

func (s *NotificationService) NotifyRewardsClaimed(ctx context.Context, id identity.ID, q quest.Quest, outcome reward.ClaimOutcome) {
	msg := fmt.Sprintf("You claimed %d TPX", outcome.TokensClaimed)
	if outcome.NFT.Succeeded {
		msg += " and a collectible NFT"
	}
	if outcome.PendingConfirmation {
		msg += " (confirmation pending)"
	}
	s.create(ctx, id, notification.TypeRewardsClaimed, "Rewards claimed!", msg,
		map[string]any{"quest_id": q.ID, "tokens": outcome.TokensClaimed, "nft": outcome.NFT.Succeeded},
	)
}

func (s *NotificationService) GetNotifications(ctx context.Context, id identity.ID, unreadOnly bool) (*notification.ListResponse, error) {
	query := `
	SELECT id, identity, type, title, message, data, is_read, created_at
	FROM notifications
	WHERE identity = $1
	`
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT 50`

	rows, err := s.db.Query(ctx, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	resp := &notification.ListResponse{Notifications: []*notification.Notification{}}
	for rows.Next() {
		n := &notification.Notification{}
		var dataJSON []byte
		err := rows.Scan(&n.ID, &n.Identity, &n.Type, &n.Title, &n.Message, &dataJSON, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		json.Unmarshal(dataJSON, &n.Data)
		resp.Notifications = append(resp.Notifications, n)
		if !n.IsRead {
			resp.UnreadCount++
		}
	}

	return resp, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, id identity.ID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE identity = $1 AND is_read = false`
	if err := s.db.QueryRow(ctx, query, id.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id identity.ID, notificationID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND identity = $2`
	tag, err := s.db.Exec(ctx, query, notificationID, id.String())
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, id identity.ID) error {
	query := `UPDATE notifications SET is_read = true WHERE identity = $1 AND is_read = false`
	if _, err := s.db.Exec(ctx, query, id.String()); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (s *NotificationService) RegisterDevice(ctx context.Context, id identity.ID, req notification.RegisterDeviceRequest) error {
	if req.Token == "" {
		return fmt.Errorf("device token required")
	}

	query := `
	INSERT INTO device_tokens (identity, token, platform, updated_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (token)
	DO UPDATE SET identity = $1, platform = $3, updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, id.String(), req.Token, req.Platform); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *NotificationService) deviceTokens(ctx context.Context, id identity.ID) []notification.DeviceToken {
	query := `SELECT token, platform FROM device_tokens WHERE identity = $1`

	rows, err := s.db.Query(ctx, query, id.String())
	if err != nil {
		log.Printf("notifications: failed to fetch device tokens for %s: %v", id, err)
		return nil
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
