// Package roster holds team lineups and the validation checks the game
// session service runs before letting a team into a game.
package roster

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
)

// LineupSize is the number of batting slots in a complete lineup.
const LineupSize = 9

// Position is a defensive position label.
type Position string

const (
	Catcher     Position = "C"
	FirstBase   Position = "1B"
	SecondBase  Position = "2B"
	ThirdBase   Position = "3B"
	Shortstop   Position = "SS"
	LeftField   Position = "LF"
	CenterField Position = "CF"
	RightField  Position = "RF"
	Designated  Position = "DH"
)

// Positions returns the nine positions a complete lineup covers.
func Positions() []Position {
	return []Position{
		Catcher, FirstBase, SecondBase, ThirdBase, Shortstop,
		LeftField, CenterField, RightField, Designated,
	}
}

// Valid reports whether the position is one of the defined labels.
func (p Position) Valid() bool {
	for _, known := range Positions() {
		if p == known {
			return true
		}
	}
	return false
}

// Slot is one lineup entry.
type Slot struct {
	PlayerName string
	Position   Position
}

// Filled reports whether the slot names a player at a valid position.
func (s Slot) Filled() bool {
	return strings.TrimSpace(s.PlayerName) != "" && s.Position.Valid()
}

// Team is a user-owned roster with a batting order.
type Team struct {
	ID      string
	OwnerID string
	Name    string
	Lineup  [LineupSize]Slot
}

// Complete reports whether all nine lineup slots are filled with
// distinct positions.
func (t Team) Complete() bool {
	seen := map[Position]bool{}
	for _, slot := range t.Lineup {
		if !slot.Filled() {
			return false
		}
		if seen[slot.Position] {
			return false
		}
		seen[slot.Position] = true
	}
	return true
}

// TeamGetter loads a team by id.
type TeamGetter interface {
	GetTeam(ctx context.Context, id string) (Team, error)
}

// Validator answers the ownership and completeness checks consumed by
// the game session service.
type Validator struct {
	teams TeamGetter
}

// NewValidator builds a validator over the given team source.
func NewValidator(teams TeamGetter) *Validator {
	return &Validator{teams: teams}
}

// ValidateOwnership confirms the team exists and belongs to the user.
func (v *Validator) ValidateOwnership(ctx context.Context, userID, teamID string) error {
	team, err := v.teams.GetTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("load team: %w", err)
	}
	if team.OwnerID != userID {
		return apperrors.WithMetadata(
			apperrors.CodeTeamNotOwned,
			"team does not belong to the user",
			map[string]string{"TeamID": teamID, "UserID": userID},
		)
	}
	return nil
}

// ValidateComplete confirms the team fields a full lineup and returns
// its display name.
func (v *Validator) ValidateComplete(ctx context.Context, teamID string) (string, error) {
	team, err := v.teams.GetTeam(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("load team: %w", err)
	}
	if !team.Complete() {
		return "", apperrors.WithMetadata(
			apperrors.CodeTeamIncomplete,
			"team needs nine filled lineup slots with distinct positions",
			map[string]string{"TeamID": teamID},
		)
	}
	return team.Name, nil
}
