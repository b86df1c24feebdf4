// Package dice provides deterministic dice rolling for play resolution.
package dice

import (
	"math/rand"

	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
)

// ErrMissingDice indicates a roll request had no dice specified.
var ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one die must be provided")

// ErrInvalidDiceSpec indicates a die specification has invalid fields.
var ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice must have positive sides and count")

// Spec describes a set of identical dice to roll.
type Spec struct {
	Sides int
	Count int
}

// Roll holds the values produced for one Spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Request describes a seeded roll over one or more dice specs.
type Request struct {
	Dice []Spec
	Seed int64
}

// Result holds every rolled value plus the grand total.
type Result struct {
	Rolls []Roll
	Total int
}

// RollDice rolls dice based on the provided request.
//
// RollDice is deterministic with respect to Request.Seed: given the same seed
// and the same Dice slice (including order and values), it always produces
// the same Result. Specs are processed in slice order and each Roll's Total
// is the sum of its Results; Result.Total sums every die rolled.
func RollDice(request Request) (Result, error) {
	if len(request.Dice) == 0 {
		return Result{}, ErrMissingDice
	}
	rng := rand.New(rand.NewSource(request.Seed))
	return RollWithRng(rng, request.Dice)
}

// RollWithRng rolls dice using a provided random source.
// This is useful when the caller wants to control the RNG directly.
func RollWithRng(rng *rand.Rand, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}

	rolls := make([]Roll, 0, len(specs))
	total := 0

	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Result{}, ErrInvalidDiceSpec
		}

		results := make([]int, spec.Count)
		rollTotal := 0
		for i := 0; i < spec.Count; i++ {
			value := rollDie(rng, spec.Sides)
			results[i] = value
			rollTotal += value
		}

		rolls = append(rolls, Roll{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return Result{
		Rolls: rolls,
		Total: total,
	}, nil
}

// RollPair rolls the 2d6 pair that drives play resolution.
func RollPair(rng *rand.Rand) (int, int) {
	return rollDie(rng, 6), rollDie(rng, 6)
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	return rng.Intn(sides) + 1
}
