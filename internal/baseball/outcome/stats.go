package outcome

import (
	"fmt"

	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
)

// BatterStats carries the batting-line inputs for resolution. A zero value
// (no at-bats) resolves with neutral modifiers rather than NaN rates.
type BatterStats struct {
	AVG        float64
	OBP        float64
	SLG        float64
	OPS        float64
	Walks      int
	Strikeouts int
	AtBats     int
}

// walkRate is walks per at-bat, or the league rate when no at-bats exist.
func (b BatterStats) walkRate() float64 {
	if b.AtBats <= 0 {
		return leagueWalkRate
	}
	return float64(b.Walks) / float64(b.AtBats)
}

// strikeoutRate is strikeouts per at-bat, or the league rate when no at-bats exist.
func (b BatterStats) strikeoutRate() float64 {
	if b.AtBats <= 0 {
		return leagueStrikeoutRate
	}
	return float64(b.Strikeouts) / float64(b.AtBats)
}

// PitcherStats carries the pitching-line inputs for resolution. A zero value
// (no innings pitched) resolves with neutral modifiers.
type PitcherStats struct {
	ERA    float64
	WHIP   float64
	KPer9  float64
	BBPer9 float64
	HRPer9 float64
}

// empty reports whether the pitcher has no recorded line (zero innings pitched).
func (p PitcherStats) empty() bool {
	return p.ERA == 0 && p.WHIP == 0 && p.KPer9 == 0 && p.BBPer9 == 0 && p.HRPer9 == 0
}

// DiceRoll is the 2d6 pair submitted with a play.
type DiceRoll struct {
	Die1 int `json:"die1"`
	Die2 int `json:"die2"`
}

// Validate rejects dice outside the 1-6 range.
func (r DiceRoll) Validate() error {
	if r.Die1 < 1 || r.Die1 > 6 || r.Die2 < 1 || r.Die2 > 6 {
		return apperrors.WithMetadata(
			apperrors.CodeDiceInvalidRoll,
			fmt.Sprintf("dice must each be between 1 and 6, got %d and %d", r.Die1, r.Die2),
			map[string]string{"Die1": fmt.Sprint(r.Die1), "Die2": fmt.Sprint(r.Die2)},
		)
	}
	return nil
}

// Total is the combined roll value in [2,12].
func (r DiceRoll) Total() int {
	return r.Die1 + r.Die2
}

// Bias maps the roll total to a scalar in [-1,+1]: 12 is the best possible
// roll for the batter, 2 the worst, 7 neutral.
func (r DiceRoll) Bias() float64 {
	return float64(r.Total()-7) / 5.0
}
