package quest

import (
	"errors"
	"time"

	"spookTrailsAPI/internal/destination"
)

type Status string

// The four statuses form a total order. No transition skips a state and no
// transition reverses.
const (
	StatusAvailable  Status = "available"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusClaimed    Status = "claimed"
)

var (
	ErrInvalidStateTransition = errors.New("invalid quest state transition")
	ErrAlreadyCompleted       = errors.New("quest already completed")
	ErrQuestNotCompleted      = errors.New("quest not completed")
	ErrVerificationRejected   = errors.New("quest verification rejected")
)

// Quest is one (identity, destination) pair. Before any user action it only
// exists as the deterministic catalog template; persistence starts on the
// first transition away from available.
type Quest struct {
	ID            string     `json:"id" db:"id"`
	Identity      string     `json:"identity" db:"identity"`
	DestinationID string     `json:"destination_id" db:"destination_id"`
	Title         string     `json:"title" db:"title"`
	Status        Status     `json:"status" db:"status"`
	XPReward      int        `json:"xp_reward" db:"xp_reward"`
	TPXReward     int        `json:"tpx_reward" db:"tpx_reward"`
	NFTReward     bool       `json:"nft_reward" db:"nft_reward"`
	PhotoRef      string     `json:"photo_ref,omitempty" db:"photo_ref"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty" db:"claimed_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// FromTemplate materializes the default quest for a destination. The quest
// id is the destination id: one quest per (identity, destination), and the
// same destination always yields the same default quest.
func FromTemplate(identity string, d destination.Destination) Quest {
	t := destination.QuestTemplate(d)
	return Quest{
		ID:            d.ID,
		Identity:      identity,
		DestinationID: d.ID,
		Title:         t.Title,
		Status:        StatusAvailable,
		XPReward:      t.XPReward,
		TPXReward:     t.TPXReward,
		NFTReward:     t.NFTReward,
	}
}

// Verification is the proof payload attached to a completion. Content and
// geolocation checks are not performed in this version; see Verifier.
type Verification struct {
	PhotoRef  string   `json:"photo_ref"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Verifier is the capability boundary for proof checking, so a real
// content/geo check can replace the stub without touching the state machine.
type Verifier interface {
	Verify(q Quest, v Verification) error
}

// AcceptAllVerifier accepts any submission carrying a photo reference.
type AcceptAllVerifier struct{}

func (AcceptAllVerifier) Verify(q Quest, v Verification) error {
	if v.PhotoRef == "" {
		return ErrVerificationRejected
	}
	return nil
}

// Start moves available -> in_progress.
func (q *Quest) Start(now time.Time) error {
	if q.Status != StatusAvailable {
		return ErrInvalidStateTransition
	}
	q.Status = StatusInProgress
	q.UpdatedAt = now
	return nil
}

// Complete moves in_progress -> completed and stamps CompletedAt exactly
// once. Completing a quest that already reached completed or claimed fails
// with ErrAlreadyCompleted; completing from available requires a Start
// first.
func (q *Quest) Complete(v Verification, now time.Time) error {
	switch q.Status {
	case StatusCompleted, StatusClaimed:
		return ErrAlreadyCompleted
	case StatusInProgress:
	default:
		return ErrInvalidStateTransition
	}
	q.Status = StatusCompleted
	q.PhotoRef = v.PhotoRef
	t := now
	q.CompletedAt = &t
	q.UpdatedAt = now
	return nil
}

// MarkClaimed moves completed -> claimed and stamps ClaimedAt exactly once.
// Callers only invoke this after the reward claim orchestrator reported
// success.
func (q *Quest) MarkClaimed(now time.Time) error {
	if q.Status != StatusCompleted {
		return ErrQuestNotCompleted
	}
	q.Status = StatusClaimed
	t := now
	q.ClaimedAt = &t
	q.UpdatedAt = now
	return nil
}
