package dice

import (
	"errors"
	"math/rand"
	"testing"
)

func TestRollDice_Basic(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{
			name: "single d6",
			request: Request{
				Dice: []Spec{{Sides: 6, Count: 1}},
				Seed: 42,
			},
		},
		{
			name: "2d6 pair",
			request: Request{
				Dice: []Spec{{Sides: 6, Count: 2}},
				Seed: 42,
			},
		},
		{
			name: "no dice",
			request: Request{
				Dice: []Spec{},
				Seed: 42,
			},
			wantErr: ErrMissingDice,
		},
		{
			name: "invalid sides",
			request: Request{
				Dice: []Spec{{Sides: 0, Count: 1}},
				Seed: 42,
			},
			wantErr: ErrInvalidDiceSpec,
		},
		{
			name: "invalid count",
			request: Request{
				Dice: []Spec{{Sides: 6, Count: 0}},
				Seed: 42,
			},
			wantErr: ErrInvalidDiceSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RollDice(tt.request)
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("RollDice() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				return
			}

			if len(result.Rolls) != len(tt.request.Dice) {
				t.Errorf("RollDice() got %d rolls, want %d", len(result.Rolls), len(tt.request.Dice))
			}

			for i, roll := range result.Rolls {
				if len(roll.Results) != tt.request.Dice[i].Count {
					t.Errorf("Roll[%d] got %d results, want %d", i, len(roll.Results), tt.request.Dice[i].Count)
				}
				sum := 0
				for j, r := range roll.Results {
					if r < 1 || r > roll.Sides {
						t.Errorf("Roll[%d].Results[%d] = %d, out of range [1, %d]", i, j, r, roll.Sides)
					}
					sum += r
				}
				if roll.Total != sum {
					t.Errorf("Roll[%d].Total = %d, want %d", i, roll.Total, sum)
				}
			}
		})
	}
}

func TestRollDice_Determinism(t *testing.T) {
	request := Request{
		Dice: []Spec{
			{Sides: 6, Count: 2},
		},
		Seed: 12345,
	}

	result1, err := RollDice(request)
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	result2, err := RollDice(request)
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}

	if result1.Total != result2.Total {
		t.Errorf("Totals differ: %d vs %d", result1.Total, result2.Total)
	}
	for i := range result1.Rolls {
		for j := range result1.Rolls[i].Results {
			if result1.Rolls[i].Results[j] != result2.Rolls[i].Results[j] {
				t.Errorf("Roll[%d].Results[%d] differs: %d vs %d", i, j, result1.Rolls[i].Results[j], result2.Rolls[i].Results[j])
			}
		}
	}
}

func TestRollPairRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		d1, d2 := RollPair(rng)
		if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
			t.Fatalf("roll out of range: %d, %d", d1, d2)
		}
	}
}
