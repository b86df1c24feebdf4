// Package service orchestrates game session lifecycle: creation,
// joining, play application, forfeits, cancellation, and queries. It
// is the only writer of session state; all mutations run through the
// store's per-session read-modify-write contract.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandlotlabs/dugout/internal/baseball/baserunning"
	"github.com/sandlotlabs/dugout/internal/baseball/inning"
	"github.com/sandlotlabs/dugout/internal/baseball/outcome"
	"github.com/sandlotlabs/dugout/internal/dice"
	"github.com/sandlotlabs/dugout/internal/game"
	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
	"github.com/sandlotlabs/dugout/internal/platform/id"
	"github.com/sandlotlabs/dugout/internal/random"
	"github.com/sandlotlabs/dugout/internal/storage"
)

// maxJoinCodeAttempts bounds join-code collision retries per create.
const maxJoinCodeAttempts = 5

// TeamValidator answers the ownership and completeness checks run
// before a team enters a game.
type TeamValidator interface {
	ValidateOwnership(ctx context.Context, userID, teamID string) error
	ValidateComplete(ctx context.Context, teamID string) (string, error)
}

// StatsProvider supplies the batter and pitcher lines used to weigh an
// at-bat. Zero-value stats resolve with neutral modifiers, so a
// provider may return them for players without history.
type StatsProvider interface {
	BatterStats(ctx context.Context, teamID string, lineupSlot int) (outcome.BatterStats, error)
	PitcherStats(ctx context.Context, teamID string) (outcome.PitcherStats, error)
}

// neutralStats serves league-average lines when no stats source is
// wired in.
type neutralStats struct{}

func (neutralStats) BatterStats(context.Context, string, int) (outcome.BatterStats, error) {
	return outcome.BatterStats{}, nil
}

func (neutralStats) PitcherStats(context.Context, string) (outcome.PitcherStats, error) {
	return outcome.PitcherStats{}, nil
}

// Service implements the game session operations.
type Service struct {
	sessions  storage.SessionStore
	validator TeamValidator
	stats     StatsProvider

	clock           func() time.Time
	idGenerator     func() (string, error)
	moveIDGenerator func() string
	codeGenerator   func() string
	rollDice        func() (outcome.DiceRoll, error)
	resolve         func(outcome.BatterStats, outcome.PitcherStats, outcome.DiceRoll) (outcome.Outcome, error)
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithStatsProvider wires a stats source for outcome weighting.
func WithStatsProvider(stats StatsProvider) Option {
	return func(s *Service) {
		if stats != nil {
			s.stats = stats
		}
	}
}

// New creates a Service with default clock, id, join-code, and dice
// resolution collaborators.
func New(sessions storage.SessionStore, validator TeamValidator, opts ...Option) *Service {
	seed, err := random.NewSeed()
	if err != nil {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	var rngMu sync.Mutex

	s := &Service{
		sessions:        sessions,
		validator:       validator,
		stats:           neutralStats{},
		clock:           time.Now,
		idGenerator:     id.NewID,
		moveIDGenerator: uuid.NewString,
		codeGenerator: func() string {
			rngMu.Lock()
			defer rngMu.Unlock()
			return game.GenerateJoinCode(rng)
		},
		rollDice: func() (outcome.DiceRoll, error) {
			rngMu.Lock()
			defer rngMu.Unlock()
			result, err := dice.RollWithRng(rng, []dice.Spec{{Sides: 6, Count: 2}})
			if err != nil {
				return outcome.DiceRoll{}, err
			}
			pair := result.Rolls[0].Results
			return outcome.DiceRoll{Die1: pair[0], Die2: pair[1]}, nil
		},
		resolve: func(batter outcome.BatterStats, pitcher outcome.PitcherStats, roll outcome.DiceRoll) (outcome.Outcome, error) {
			rngMu.Lock()
			defer rngMu.Unlock()
			return outcome.Resolve(batter, pitcher, roll, rng)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create opens a new waiting session for the user's team.
func (s *Service) Create(ctx context.Context, userID, teamID string) (game.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return game.Session{}, game.ErrEmptyUserID
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return game.Session{}, game.ErrEmptyTeamID
	}

	if err := s.validator.ValidateOwnership(ctx, userID, teamID); err != nil {
		return game.Session{}, err
	}
	teamName, err := s.validator.ValidateComplete(ctx, teamID)
	if err != nil {
		return game.Session{}, err
	}

	if err := s.ensureNoOpenSession(ctx, userID); err != nil {
		return game.Session{}, err
	}

	joinCode, err := s.uniqueJoinCode(ctx)
	if err != nil {
		return game.Session{}, err
	}

	session, err := game.CreateSession(game.CreateSessionInput{
		UserID:   userID,
		TeamID:   teamID,
		TeamName: teamName,
		JoinCode: joinCode,
	}, s.clock, s.idGenerator)
	if err != nil {
		return game.Session{}, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return game.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return session, nil
}

// Join adds the user as the visiting player of a waiting session and
// starts the game.
func (s *Service) Join(ctx context.Context, userID, joinCode, teamID string) (game.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return game.Session{}, game.ErrEmptyUserID
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return game.Session{}, game.ErrEmptyTeamID
	}
	joinCode = strings.ToUpper(strings.TrimSpace(joinCode))
	if !game.ValidJoinCode(joinCode) {
		return game.Session{}, apperrors.WithMetadata(
			apperrors.CodeSessionInvalidJoinCode,
			"join code must be 6 characters over A-Z0-9",
			map[string]string{"JoinCode": joinCode},
		)
	}

	if err := s.validator.ValidateOwnership(ctx, userID, teamID); err != nil {
		return game.Session{}, err
	}
	teamName, err := s.validator.ValidateComplete(ctx, teamID)
	if err != nil {
		return game.Session{}, err
	}

	if err := s.ensureNoOpenSession(ctx, userID); err != nil {
		return game.Session{}, err
	}

	found, err := s.sessions.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return game.Session{}, err
	}

	// Re-check everything inside the per-session write lock: a
	// concurrent join or cancel may have won the race after the lookup.
	return s.sessions.Mutate(ctx, found.ID, func(session game.Session) (game.Session, error) {
		if session.HomePlayer.UserID == userID {
			return game.Session{}, apperrors.New(apperrors.CodeSessionOwnGameJoin, "cannot join your own game")
		}
		if session.Status != game.StatusWaiting {
			return game.Session{}, apperrors.WithMetadata(
				apperrors.CodeSessionAlreadyStarted,
				"game already started",
				map[string]string{"Status": string(session.Status)},
			)
		}

		now := s.clock().UTC()
		session.VisitorPlayer = &game.Player{
			UserID:       userID,
			TeamID:       teamID,
			TeamName:     teamName,
			IsReady:      true,
			IsConnected:  true,
			LastActiveAt: now,
		}
		return game.TransitionStatus(session, game.StatusActive, s.clock)
	})
}

// Get returns the session when the requester participates in it.
func (s *Service) Get(ctx context.Context, sessionID, userID string) (game.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return game.Session{}, err
	}
	if !session.IsParticipant(userID) {
		return game.Session{}, errNotParticipant(sessionID, userID)
	}
	return session, nil
}

// Cancel abandons a waiting session. Only the creator may cancel, and
// only before a second player joins.
func (s *Service) Cancel(ctx context.Context, sessionID, userID string) (game.Session, error) {
	return s.sessions.Mutate(ctx, sessionID, func(session game.Session) (game.Session, error) {
		if session.HomePlayer.UserID != userID {
			return game.Session{}, apperrors.WithMetadata(
				apperrors.CodeSessionNotCreator,
				"only the creator can cancel a game",
				map[string]string{"SessionID": sessionID, "UserID": userID},
			)
		}
		if session.Status != game.StatusWaiting {
			return game.Session{}, apperrors.WithMetadata(
				apperrors.CodeSessionNotWaiting,
				"only waiting games can be cancelled",
				map[string]string{"Status": string(session.Status)},
			)
		}
		return game.TransitionStatus(session, game.StatusAbandoned, s.clock)
	})
}

// Forfeit ends an active game in the opponent's favor.
func (s *Service) Forfeit(ctx context.Context, sessionID, userID string) (game.Session, error) {
	return s.sessions.Mutate(ctx, sessionID, func(session game.Session) (game.Session, error) {
		if !session.IsParticipant(userID) {
			return game.Session{}, errNotParticipant(sessionID, userID)
		}
		if session.Status != game.StatusActive {
			return game.Session{}, errNotActive(session.Status)
		}

		session.State.GameOver = true
		session.State.WinnerID = session.Opponent(userID)
		session.State.EndReason = game.EndReasonForfeit
		return game.TransitionStatus(session, game.StatusForfeit, s.clock)
	})
}

// Complete moves an active game whose play has reached a natural end
// into the completed status.
func (s *Service) Complete(ctx context.Context, sessionID, userID string) (game.Session, error) {
	return s.sessions.Mutate(ctx, sessionID, func(session game.Session) (game.Session, error) {
		if !session.IsParticipant(userID) {
			return game.Session{}, errNotParticipant(sessionID, userID)
		}
		if session.Status != game.StatusActive {
			return game.Session{}, errNotActive(session.Status)
		}
		if !session.State.GameOver {
			return game.Session{}, apperrors.New(apperrors.CodeSessionNotOverYet, "game has not reached a natural end")
		}
		return game.TransitionStatus(session, game.StatusCompleted, s.clock)
	})
}

// ListForUser returns every session the user participates in,
// optionally filtered by status.
func (s *Service) ListForUser(ctx context.Context, userID string, statuses ...game.Status) ([]game.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, game.ErrEmptyUserID
	}
	sessions, err := s.sessions.ListByUser(ctx, userID, statuses...)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []game.Session{}
	}
	return sessions, nil
}

// UpdateConnection records a participant's connect or disconnect and
// stamps their activity time. Disconnect grace handling is the
// caller's orchestration.
func (s *Service) UpdateConnection(ctx context.Context, sessionID, userID string, connected bool) (game.Session, error) {
	return s.sessions.Mutate(ctx, sessionID, func(session game.Session) (game.Session, error) {
		if !session.IsParticipant(userID) {
			return game.Session{}, errNotParticipant(sessionID, userID)
		}
		if session.Status.Terminal() {
			return game.Session{}, apperrors.New(apperrors.CodeSessionTerminal, "finished games no longer track presence")
		}

		now := s.clock().UTC()
		if session.HomePlayer.UserID == userID {
			session.HomePlayer.IsConnected = connected
			session.HomePlayer.LastActiveAt = now
		} else {
			visitor := *session.VisitorPlayer
			visitor.IsConnected = connected
			visitor.LastActiveAt = now
			session.VisitorPlayer = &visitor
		}
		session.UpdatedAt = now
		return session, nil
	})
}

// IsPlayerTurn reports whether the user bats in the session's current
// half-inning: the visitor in the top, the home player in the bottom.
func (s *Service) IsPlayerTurn(session game.Session, userID string) bool {
	if session.Status != game.StatusActive || session.State.GameOver {
		return false
	}
	if session.State.TopOfInning {
		return session.VisitorPlayer != nil && session.VisitorPlayer.UserID == userID
	}
	return session.HomePlayer.UserID == userID
}

// ApplyPlay resolves one at-bat for the submitting player: the dice
// roll is weighed against the batter and pitcher lines, runners
// advance, the inning machine folds the result in, and the move is
// journaled. Out-of-turn submissions are rejected.
func (s *Service) ApplyPlay(ctx context.Context, sessionID, userID string, dice outcome.DiceRoll) (game.Session, error) {
	if err := dice.Validate(); err != nil {
		return game.Session{}, err
	}

	return s.sessions.Mutate(ctx, sessionID, func(session game.Session) (game.Session, error) {
		if !session.IsParticipant(userID) {
			return game.Session{}, errNotParticipant(sessionID, userID)
		}
		if session.Status != game.StatusActive {
			return game.Session{}, errNotActive(session.Status)
		}
		if session.State.GameOver {
			return game.Session{}, apperrors.New(apperrors.CodeSessionTerminal, "game is over; no more plays accepted")
		}
		if !s.IsPlayerTurn(session, userID) {
			return game.Session{}, apperrors.WithMetadata(
				apperrors.CodeSessionOutOfTurn,
				"not this player's turn",
				map[string]string{"SessionID": sessionID, "UserID": userID},
			)
		}

		batting, fielding := battingMatchup(session)
		side := session.State.BattingSide()
		batter, err := s.stats.BatterStats(ctx, batting.TeamID, session.State.BatterIndex[side])
		if err != nil {
			return game.Session{}, fmt.Errorf("batter stats: %w", err)
		}
		pitcher, err := s.stats.PitcherStats(ctx, fielding.TeamID)
		if err != nil {
			return game.Session{}, fmt.Errorf("pitcher stats: %w", err)
		}

		resolved, err := s.resolve(batter, pitcher, dice)
		if err != nil {
			return game.Session{}, err
		}

		advance := baserunning.Advance(baserunning.State{
			Bases: session.State.Bases,
			Outs:  session.State.Outs,
		}, resolved)

		visitorID := ""
		if session.VisitorPlayer != nil {
			visitorID = session.VisitorPlayer.UserID
		}
		session.State = inning.Apply(session.State, resolved, advance, visitorID, session.HomePlayer.UserID)

		now := s.clock().UTC()
		session.Moves = append(session.Moves, game.Move{
			ID:         s.moveIDGenerator(),
			Sequence:   len(session.Moves) + 1,
			UserID:     userID,
			Dice:       dice,
			Outcome:    resolved,
			RunsScored: advance.RunsScored,
			CreatedAt:  now,
		})
		session.UpdatedAt = now
		return session, nil
	})
}

// RollPlay rolls the 2d6 pair server-side and applies the play for
// the submitting player. Callers that trust their own dice transport
// use ApplyPlay directly.
func (s *Service) RollPlay(ctx context.Context, sessionID, userID string) (game.Session, error) {
	roll, err := s.rollDice()
	if err != nil {
		return game.Session{}, err
	}
	return s.ApplyPlay(ctx, sessionID, userID, roll)
}

// ensureNoOpenSession enforces the one-open-game-per-user rule.
func (s *Service) ensureNoOpenSession(ctx context.Context, userID string) error {
	open, err := s.sessions.ListByUser(ctx, userID, game.StatusWaiting, game.StatusActive)
	if err != nil {
		return fmt.Errorf("list open sessions: %w", err)
	}
	if len(open) > 0 {
		return apperrors.WithMetadata(
			apperrors.CodeSessionUserHasActiveGame,
			"user already has an open game",
			map[string]string{"UserID": userID, "SessionID": open[0].ID},
		)
	}
	return nil
}

// uniqueJoinCode draws codes until one is free among waiting sessions.
func (s *Service) uniqueJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code := s.codeGenerator()
		_, err := s.sessions.GetByJoinCode(ctx, code)
		if errors.Is(err, storage.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check join code: %w", err)
		}
	}
	return "", apperrors.New(apperrors.CodeSessionJoinCodeExhausted, "could not allocate a unique join code")
}

// battingMatchup returns the batting and fielding players for the
// current half-inning.
func battingMatchup(session game.Session) (batting, fielding game.Player) {
	if session.State.TopOfInning {
		return *session.VisitorPlayer, session.HomePlayer
	}
	return session.HomePlayer, *session.VisitorPlayer
}

func errNotParticipant(sessionID, userID string) error {
	return apperrors.WithMetadata(
		apperrors.CodeSessionNotParticipant,
		"user is not a participant in this game",
		map[string]string{"SessionID": sessionID, "UserID": userID},
	)
}

func errNotActive(status game.Status) error {
	return apperrors.WithMetadata(
		apperrors.CodeSessionNotActive,
		"game is not active",
		map[string]string{"Status": string(status)},
	)
}
