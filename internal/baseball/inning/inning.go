// Package inning applies resolved plays to a game state snapshot: out
// counting, half-inning transitions, and game-over detection for
// regulation, extra-inning, and walk-off endings.
package inning

import (
	"github.com/sandlotlabs/dugout/internal/baseball/baserunning"
	"github.com/sandlotlabs/dugout/internal/baseball/outcome"
	"github.com/sandlotlabs/dugout/internal/game"
)

// lineupSize is the number of batting slots per team.
const lineupSize = 9

// regulationInnings is the inning from which end-of-game checks apply.
const regulationInnings = 9

// Apply folds one resolved play into the state. Runs credit the batting
// side, the lineup cursor advances, outs accumulate, and a third out
// clears the bases and flips the half-inning. The walk-off check runs
// after every play in the bottom of the ninth or later; the regulation
// check runs when a bottom half completes at the ninth or later.
//
// The returned state never carries Outs == 3: the transition resets
// them before the snapshot is handed back.
func Apply(st game.State, o outcome.Outcome, advance baserunning.Result, visitorID, homeID string) game.State {
	if st.GameOver {
		return st
	}

	side := st.BattingSide()
	st.Scores[side] += advance.RunsScored
	st.Bases = advance.Bases
	st.BatterIndex[side] = (st.BatterIndex[side] + 1) % lineupSize

	if o.IsOut() {
		st.Outs++
	}

	// A home lead in the bottom of the ninth or later ends the game on
	// the spot, even mid-half-inning.
	if !st.TopOfInning && st.Inning >= regulationInnings && st.Scores[game.SideHome] > st.Scores[game.SideVisitor] {
		st.GameOver = true
		st.WinnerID = homeID
		st.EndReason = game.EndReasonWalkoff
		return st
	}

	if st.Outs < 3 {
		return st
	}

	bottomHalf := !st.TopOfInning
	st.Bases = [3]bool{}
	st.Outs = 0

	if bottomHalf && st.Inning >= regulationInnings {
		visitor, home := st.Scores[game.SideVisitor], st.Scores[game.SideHome]
		if visitor != home {
			st.GameOver = true
			st.EndReason = game.EndReasonRegulation
			if home > visitor {
				st.WinnerID = homeID
			} else {
				st.WinnerID = visitorID
			}
			return st
		}
	}

	if bottomHalf {
		st.Inning++
		st.TopOfInning = true
	} else {
		st.TopOfInning = false
	}
	return st
}
