// Package outcome resolves a single plate appearance into one play outcome.
//
// Resolution starts from a fixed league-average probability table, applies
// batter and pitcher modifiers derived from how far each player's stats
// deviate from league average, biases the distribution by the dice roll, and
// finally draws one outcome from the renormalized weights.
package outcome

// Outcome is the resolved result of one plate appearance.
type Outcome string

const (
	HomeRun   Outcome = "home_run"
	Triple    Outcome = "triple"
	Double    Outcome = "double"
	Single    Outcome = "single"
	Walk      Outcome = "walk"
	Strikeout Outcome = "strikeout"
	GroundOut Outcome = "ground_out"
	FlyOut    Outcome = "fly_out"
)

// Outcomes returns every outcome in canonical resolution order.
func Outcomes() []Outcome {
	return []Outcome{HomeRun, Triple, Double, Single, Walk, Strikeout, GroundOut, FlyOut}
}

// Valid reports whether o is one of the eight defined outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case HomeRun, Triple, Double, Single, Walk, Strikeout, GroundOut, FlyOut:
		return true
	default:
		return false
	}
}

// IsHit reports whether the outcome puts the ball in play for a hit.
func (o Outcome) IsHit() bool {
	switch o {
	case HomeRun, Triple, Double, Single:
		return true
	default:
		return false
	}
}

// IsPositive reports whether the outcome favors the batting side. The dice
// bias shifts weight between this set and its complement.
func (o Outcome) IsPositive() bool {
	return o.IsHit() || o == Walk
}

// IsOut reports whether the outcome records an out.
func (o Outcome) IsOut() bool {
	switch o {
	case Strikeout, GroundOut, FlyOut:
		return true
	default:
		return false
	}
}

func (o Outcome) String() string {
	return string(o)
}
