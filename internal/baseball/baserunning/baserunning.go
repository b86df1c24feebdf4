// Package baserunning advances runners after a resolved play.
package baserunning

import "github.com/sandlotlabs/dugout/internal/baseball/outcome"

// Bases indices: 0 = first, 1 = second, 2 = third.
const (
	First = iota
	Second
	Third
)

// State is the transient base/out situation fed into an advance.
type State struct {
	Bases [3]bool
	Outs  int
}

// Result describes the situation after runners advance. Outs are echoed
// unchanged; out accounting belongs to the inning machine.
type Result struct {
	Bases      [3]bool
	RunsScored int
	Outs       int
}

// Advance applies one outcome to the bases and returns the new occupancy and
// runs scored. It is a pure function.
//
// Hits advance every runner by the hit's bases and place the batter. A walk
// advances forced runners only: the runner on first is always forced, the
// runner on second only when first is occupied, and the runner on third
// scores only with the bases loaded. Outs leave the bases untouched.
func Advance(state State, o outcome.Outcome) Result {
	result := Result{Bases: state.Bases, Outs: state.Outs}

	switch o {
	case outcome.HomeRun:
		for i, occupied := range state.Bases {
			if occupied {
				result.RunsScored++
				result.Bases[i] = false
			}
		}
		result.RunsScored++ // batter scores

	case outcome.Triple:
		for i, occupied := range state.Bases {
			if occupied {
				result.RunsScored++
				result.Bases[i] = false
			}
		}
		result.Bases[Third] = true

	case outcome.Double:
		if state.Bases[Third] {
			result.RunsScored++
			result.Bases[Third] = false
		}
		if state.Bases[Second] {
			result.RunsScored++
			result.Bases[Second] = false
		}
		if state.Bases[First] {
			result.Bases[Third] = true
			result.Bases[First] = false
		}
		result.Bases[Second] = true

	case outcome.Single:
		if state.Bases[Third] {
			result.RunsScored++
			result.Bases[Third] = false
		}
		if state.Bases[Second] {
			result.Bases[Third] = true
			result.Bases[Second] = false
		}
		if state.Bases[First] {
			result.Bases[Second] = true
		}
		result.Bases[First] = true

	case outcome.Walk:
		if state.Bases[First] && state.Bases[Second] && state.Bases[Third] {
			result.RunsScored++
		} else if state.Bases[First] && state.Bases[Second] {
			result.Bases[Third] = true
		}
		if state.Bases[First] {
			result.Bases[Second] = true
		}
		result.Bases[First] = true

	case outcome.Strikeout, outcome.GroundOut, outcome.FlyOut:
		// No advancement; the inning machine records the out.
	}

	return result
}
