package game

// Side indexes the Scores and BatterIndex pairs.
const (
	// SideVisitor bats in the top half.
	SideVisitor = 0
	// SideHome bats in the bottom half.
	SideHome = 1
)

// State is the live snapshot of a game in progress.
type State struct {
	// Inning starts at 1 and only increases.
	Inning int
	// TopOfInning is true while the visitor bats.
	TopOfInning bool
	// Outs stays in [0,2]; the third out triggers a half-inning
	// transition and is never stored.
	Outs int
	// Scores holds [visitor, home] runs.
	Scores [2]int
	// Bases marks occupancy of first, second, third.
	Bases [3]bool
	// BatterIndex holds the [visitor, home] lineup cursors, each in [0,8].
	BatterIndex [2]int
	GameOver    bool
	WinnerID    string
	EndReason   EndReason
}

// NewState returns the opening snapshot: top of the first, nobody on,
// nobody out, scores level.
func NewState() State {
	return State{
		Inning:      1,
		TopOfInning: true,
	}
}

// BattingSide returns the side index currently at bat.
func (s State) BattingSide() int {
	if s.TopOfInning {
		return SideVisitor
	}
	return SideHome
}
