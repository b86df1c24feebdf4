package outcome

import "math/rand"

// baseProbabilities is the league-average distribution over the eight
// outcomes. The values sum to 1.0.
var baseProbabilities = map[Outcome]float64{
	HomeRun:   0.028,
	Triple:    0.005,
	Double:    0.046,
	Single:    0.150,
	Walk:      0.083,
	Strikeout: 0.217,
	GroundOut: 0.278,
	FlyOut:    0.193,
}

// biasStrength is the largest fraction of the disfavored set's weight a
// maximal roll (2 or 12) can move to the favored set.
const biasStrength = 0.35

// weightFloor keeps every outcome reachable after modifiers and bias.
const weightFloor = 1e-6

// Weights returns the final normalized probability per outcome, in the order
// of Outcomes(). The weights sum to 1.0 within floating tolerance and every
// outcome keeps a positive probability.
func Weights(batter BatterStats, pitcher PitcherStats, roll DiceRoll) ([]float64, error) {
	if err := roll.Validate(); err != nil {
		return nil, err
	}

	batterMods := batterModifiers(batter)
	pitcherMods := pitcherModifiers(pitcher)

	weights := make(map[Outcome]float64, 8)
	for _, o := range Outcomes() {
		weights[o] = baseProbabilities[o] * batterMods[o] * pitcherMods[o]
	}

	applyDiceBias(weights, roll.Bias())

	ordered := make([]float64, 0, 8)
	total := 0.0
	for _, o := range Outcomes() {
		w := weights[o]
		if w < weightFloor {
			w = weightFloor
		}
		ordered = append(ordered, w)
		total += w
	}
	for i := range ordered {
		ordered[i] /= total
	}
	return ordered, nil
}

// applyDiceBias shifts weight between the negative outcome set (strikeout,
// ground out, fly out) and the positive set (hits and walks). A positive
// bias favors the batter; a negative bias favors the defense. The shift is
// proportional to each outcome's share of its set, so the transfer never
// drives a weight negative.
func applyDiceBias(weights map[Outcome]float64, bias float64) {
	if bias == 0 {
		return
	}

	var fromSet, toSet []Outcome
	for _, o := range Outcomes() {
		if o.IsPositive() == (bias > 0) {
			toSet = append(toSet, o)
		} else {
			fromSet = append(fromSet, o)
		}
	}

	fromSum, toSum := 0.0, 0.0
	for _, o := range fromSet {
		fromSum += weights[o]
	}
	for _, o := range toSet {
		toSum += weights[o]
	}
	if fromSum <= 0 || toSum <= 0 {
		return
	}

	fraction := biasStrength * bias
	if fraction < 0 {
		fraction = -fraction
	}
	transfer := fromSum * fraction

	for _, o := range fromSet {
		weights[o] -= transfer * weights[o] / fromSum
	}
	for _, o := range toSet {
		weights[o] += transfer * weights[o] / toSum
	}
}

// Resolve draws one outcome for a plate appearance from the weighted
// distribution using the provided random source. It is pure with respect to
// its inputs and safe for concurrent use with independent sources.
func Resolve(batter BatterStats, pitcher PitcherStats, roll DiceRoll, rng *rand.Rand) (Outcome, error) {
	weights, err := Weights(batter, pitcher, roll)
	if err != nil {
		return "", err
	}

	draw := rng.Float64()
	cumulative := 0.0
	outcomes := Outcomes()
	for i, w := range weights {
		cumulative += w
		if draw < cumulative {
			return outcomes[i], nil
		}
	}
	// Floating point drift can leave the draw above the final cumulative sum.
	return outcomes[len(outcomes)-1], nil
}
