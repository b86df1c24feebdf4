package outcome

// League-average baselines the modifiers deviate from.
const (
	leagueOPS           = 0.720
	leagueWalkRate      = 0.090
	leagueStrikeoutRate = 0.220
	leagueERA           = 4.30
	leagueWHIP          = 1.30
	leagueKPer9         = 8.5
	leagueBBPer9        = 3.2
	leagueHRPer9        = 1.2
)

// bounds clamps a modifier to its documented per-outcome range.
type bounds struct {
	lo float64
	hi float64
}

func (b bounds) clamp(v float64) float64 {
	if v < b.lo {
		return b.lo
	}
	if v > b.hi {
		return b.hi
	}
	return v
}

// batterBounds are the documented clamp ranges for batter modifiers.
var batterBounds = map[Outcome]bounds{
	HomeRun:   {0.3, 2.5},
	Triple:    {0.3, 2.0},
	Double:    {0.4, 1.8},
	Single:    {0.5, 1.5},
	Walk:      {0.5, 2.0},
	Strikeout: {0.5, 2.0},
	GroundOut: {0.7, 1.3},
	FlyOut:    {0.7, 1.3},
}

// pitcherBounds are tighter than the batter ranges: a pitcher shades the
// distribution, the batter drives it.
var pitcherBounds = map[Outcome]bounds{
	HomeRun:   {0.4, 2.0},
	Triple:    {0.5, 1.6},
	Double:    {0.5, 1.6},
	Single:    {0.5, 1.5},
	Walk:      {0.5, 1.8},
	Strikeout: {0.6, 1.8},
	GroundOut: {0.8, 1.25},
	FlyOut:    {0.8, 1.25},
}

// opsSensitivity scales how strongly OPS deviation moves each hit type.
// Rarer, higher-value hits respond more.
var opsSensitivity = map[Outcome]float64{
	HomeRun: 2.0,
	Triple:  1.5,
	Double:  1.2,
	Single:  1.0,
}

// batterModifiers computes the per-outcome multipliers for a batter.
// A batter with zero at-bats yields the neutral set.
func batterModifiers(b BatterStats) map[Outcome]float64 {
	mods := neutralModifiers()
	if b.AtBats <= 0 {
		return mods
	}

	opsDelta := (b.OPS - leagueOPS) / leagueOPS
	for _, o := range []Outcome{HomeRun, Triple, Double, Single} {
		mods[o] = batterBounds[o].clamp(1 + opsDelta*opsSensitivity[o])
	}

	walkDelta := (b.walkRate() - leagueWalkRate) / leagueWalkRate
	mods[Walk] = batterBounds[Walk].clamp(1 + walkDelta)

	strikeoutDelta := (b.strikeoutRate() - leagueStrikeoutRate) / leagueStrikeoutRate
	mods[Strikeout] = batterBounds[Strikeout].clamp(1 + strikeoutDelta)

	// Better hitters convert would-be outs in play; worse hitters add them.
	mods[GroundOut] = batterBounds[GroundOut].clamp(1 - opsDelta*0.5)
	mods[FlyOut] = batterBounds[FlyOut].clamp(1 - opsDelta*0.5)

	return mods
}

// pitcherModifiers computes the per-outcome multipliers for a pitcher.
// A pitcher with an empty line (zero innings pitched) yields the neutral set.
func pitcherModifiers(p PitcherStats) map[Outcome]float64 {
	mods := neutralModifiers()
	if p.empty() {
		return mods
	}

	// WHIP measures baserunners allowed; it drives every hit type.
	whipDelta := (p.WHIP - leagueWHIP) / leagueWHIP
	mods[Single] = pitcherBounds[Single].clamp(1 + whipDelta)
	mods[Double] = pitcherBounds[Double].clamp(1 + whipDelta)
	mods[Triple] = pitcherBounds[Triple].clamp(1 + whipDelta)

	hrDelta := (p.HRPer9 - leagueHRPer9) / leagueHRPer9
	mods[HomeRun] = pitcherBounds[HomeRun].clamp(1 + hrDelta)

	walkDelta := (p.BBPer9 - leagueBBPer9) / leagueBBPer9
	mods[Walk] = pitcherBounds[Walk].clamp(1 + walkDelta)

	strikeoutDelta := (p.KPer9 - leagueKPer9) / leagueKPer9
	mods[Strikeout] = pitcherBounds[Strikeout].clamp(1 + strikeoutDelta)

	// ERA shades outs in play: run prevention converts contact into outs.
	eraDelta := (p.ERA - leagueERA) / leagueERA
	mods[GroundOut] = pitcherBounds[GroundOut].clamp(1 - eraDelta*0.5)
	mods[FlyOut] = pitcherBounds[FlyOut].clamp(1 - eraDelta*0.5)

	return mods
}

func neutralModifiers() map[Outcome]float64 {
	mods := make(map[Outcome]float64, 8)
	for _, o := range Outcomes() {
		mods[o] = 1.0
	}
	return mods
}
