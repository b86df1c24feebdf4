// Package game holds the session aggregate and game state for the
// dice-resolved baseball core.
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandlotlabs/dugout/internal/baseball/outcome"
	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
	"github.com/sandlotlabs/dugout/internal/platform/id"
)

// Status describes the lifecycle of a game session.
type Status string

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = ""
	// StatusWaiting indicates the session is waiting for a second player.
	StatusWaiting Status = "waiting"
	// StatusActive indicates the game is in progress.
	StatusActive Status = "active"
	// StatusCompleted indicates the game reached a natural end.
	StatusCompleted Status = "completed"
	// StatusForfeit indicates a player forfeited the game.
	StatusForfeit Status = "forfeit"
	// StatusAbandoned indicates the creator cancelled before a second
	// player joined.
	StatusAbandoned Status = "abandoned"
)

// EndReason describes how a finished game ended.
type EndReason string

const (
	// EndReasonNone indicates the game has not ended.
	EndReasonNone EndReason = ""
	// EndReasonRegulation indicates the game ended after a completed
	// bottom half with unequal scores.
	EndReasonRegulation EndReason = "regulation"
	// EndReasonWalkoff indicates the home team took the lead in the
	// bottom of the ninth or later.
	EndReasonWalkoff EndReason = "walkoff"
	// EndReasonForfeit indicates a player forfeited.
	EndReasonForfeit EndReason = "forfeit"
)

var (
	// ErrEmptyUserID indicates a missing user id.
	ErrEmptyUserID = apperrors.New(apperrors.CodeSessionEmptyUserID, "user id is required")
	// ErrEmptyTeamID indicates a missing team id.
	ErrEmptyTeamID = apperrors.New(apperrors.CodeSessionEmptyTeamID, "team id is required")
)

// Terminal reports whether a session in this status can no longer change.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusForfeit, StatusAbandoned:
		return true
	default:
		return false
	}
}

// Valid reports whether the status is one of the defined lifecycle values.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusActive, StatusCompleted, StatusForfeit, StatusAbandoned:
		return true
	default:
		return false
	}
}

// Player is one participant in a session.
type Player struct {
	UserID       string
	TeamID       string
	TeamName     string
	IsReady      bool
	IsConnected  bool
	LastActiveAt time.Time
}

// Move is one resolved play in the session journal. The journal is
// append-only and ordered by Sequence.
type Move struct {
	ID         string
	Sequence   int
	UserID     string
	Dice       outcome.DiceRoll
	Outcome    outcome.Outcome
	RunsScored int
	CreatedAt  time.Time
}

// Session is the root aggregate for one two-player game.
type Session struct {
	ID       string
	JoinCode string
	Status   Status
	// HomePlayer is the creator; they bat in the bottom half.
	HomePlayer Player
	// VisitorPlayer is nil until a second player joins.
	VisitorPlayer *Player
	State         State
	Moves         []Move
	CreatedAt     time.Time
	StartedAt     *time.Time
	UpdatedAt     time.Time
}

// CreateSessionInput describes what is needed to open a new session.
type CreateSessionInput struct {
	UserID   string
	TeamID   string
	TeamName string
	JoinCode string
}

// CreateSession builds a waiting session with a generated id and timestamps.
func CreateSession(input CreateSessionInput, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := normalizeCreateSessionInput(input)
	if err != nil {
		return Session{}, err
	}

	sessionID, err := idGenerator()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}

	createdAt := now().UTC()
	return Session{
		ID:       sessionID,
		JoinCode: normalized.JoinCode,
		Status:   StatusWaiting,
		HomePlayer: Player{
			UserID:       normalized.UserID,
			TeamID:       normalized.TeamID,
			TeamName:     normalized.TeamName,
			IsReady:      true,
			IsConnected:  true,
			LastActiveAt: createdAt,
		},
		State:     NewState(),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// TransitionStatus applies a status change and updates the timestamp.
func TransitionStatus(session Session, target Status, now func() time.Time) (Session, error) {
	if now == nil {
		now = time.Now
	}
	if !isStatusTransitionAllowed(session.Status, target) {
		return Session{}, apperrors.WithMetadata(
			apperrors.CodeSessionInvalidTransition,
			fmt.Sprintf("session status transition not allowed: %s -> %s", session.Status, target),
			map[string]string{"FromStatus": string(session.Status), "ToStatus": string(target)},
		)
	}

	updated := session
	updated.Status = target
	updatedAt := now().UTC()
	updated.UpdatedAt = updatedAt
	if target == StatusActive && updated.StartedAt == nil {
		updated.StartedAt = &updatedAt
	}
	return updated, nil
}

// isStatusTransitionAllowed reports whether a status change is permitted.
// Terminal statuses never transition.
func isStatusTransitionAllowed(from, to Status) bool {
	switch from {
	case StatusWaiting:
		return to == StatusActive || to == StatusAbandoned
	case StatusActive:
		return to == StatusCompleted || to == StatusForfeit
	default:
		return false
	}
}

// Participant returns the player record for the given user, if any.
func (s Session) Participant(userID string) (Player, bool) {
	if s.HomePlayer.UserID == userID {
		return s.HomePlayer, true
	}
	if s.VisitorPlayer != nil && s.VisitorPlayer.UserID == userID {
		return *s.VisitorPlayer, true
	}
	return Player{}, false
}

// IsParticipant reports whether the user is one of the session's players.
func (s Session) IsParticipant(userID string) bool {
	_, ok := s.Participant(userID)
	return ok
}

// Opponent returns the other participant's user id, or "" when the
// session has no second player yet.
func (s Session) Opponent(userID string) string {
	if s.HomePlayer.UserID == userID && s.VisitorPlayer != nil {
		return s.VisitorPlayer.UserID
	}
	if s.VisitorPlayer != nil && s.VisitorPlayer.UserID == userID {
		return s.HomePlayer.UserID
	}
	return ""
}

// normalizeCreateSessionInput trims and validates session input.
func normalizeCreateSessionInput(input CreateSessionInput) (CreateSessionInput, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return CreateSessionInput{}, ErrEmptyUserID
	}
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.TeamID == "" {
		return CreateSessionInput{}, ErrEmptyTeamID
	}
	input.TeamName = strings.TrimSpace(input.TeamName)
	input.JoinCode = strings.TrimSpace(input.JoinCode)
	if !ValidJoinCode(input.JoinCode) {
		return CreateSessionInput{}, apperrors.WithMetadata(
			apperrors.CodeSessionInvalidJoinCode,
			"join code must be 6 characters over A-Z0-9",
			map[string]string{"JoinCode": input.JoinCode},
		)
	}
	return input, nil
}
