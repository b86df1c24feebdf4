package roster

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
)

func completeLineup() [LineupSize]Slot {
	var lineup [LineupSize]Slot
	for i, pos := range Positions() {
		lineup[i] = Slot{PlayerName: "Player " + string(pos), Position: pos}
	}
	return lineup
}

func TestTeamComplete(t *testing.T) {
	team := Team{ID: "team-1", OwnerID: "user-1", Name: "Sandlot Nine", Lineup: completeLineup()}
	if !team.Complete() {
		t.Fatal("nine filled distinct slots should be complete")
	}

	missing := team
	missing.Lineup[4].PlayerName = "  "
	if missing.Complete() {
		t.Error("blank player name should be incomplete")
	}

	duplicate := team
	duplicate.Lineup[8].Position = duplicate.Lineup[0].Position
	if duplicate.Complete() {
		t.Error("duplicate positions should be incomplete")
	}

	invalid := team
	invalid.Lineup[2].Position = "QB"
	if invalid.Complete() {
		t.Error("unknown position should be incomplete")
	}
}

type fakeTeamGetter struct {
	teams map[string]Team
	err   error
}

func (f *fakeTeamGetter) GetTeam(_ context.Context, id string) (Team, error) {
	if f.err != nil {
		return Team{}, f.err
	}
	team, ok := f.teams[id]
	if !ok {
		return Team{}, apperrors.New(apperrors.CodeNotFound, "record not found")
	}
	return team, nil
}

func TestValidateOwnership(t *testing.T) {
	getter := &fakeTeamGetter{teams: map[string]Team{
		"team-1": {ID: "team-1", OwnerID: "user-1"},
	}}
	validator := NewValidator(getter)

	if err := validator.ValidateOwnership(context.Background(), "user-1", "team-1"); err != nil {
		t.Fatalf("owner should pass: %v", err)
	}

	err := validator.ValidateOwnership(context.Background(), "user-2", "team-1")
	if apperrors.CodeOf(err) != apperrors.CodeTeamNotOwned {
		t.Errorf("non-owner code = %v", apperrors.CodeOf(err))
	}

	err = validator.ValidateOwnership(context.Background(), "user-1", "missing")
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Errorf("missing team code = %v", apperrors.CodeOf(err))
	}
}

func TestValidateComplete(t *testing.T) {
	incomplete := Team{ID: "team-2", OwnerID: "user-2", Name: "Short Bench"}
	getter := &fakeTeamGetter{teams: map[string]Team{
		"team-1": {ID: "team-1", OwnerID: "user-1", Name: "Sandlot Nine", Lineup: completeLineup()},
		"team-2": incomplete,
	}}
	validator := NewValidator(getter)

	name, err := validator.ValidateComplete(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("complete team should pass: %v", err)
	}
	if name != "Sandlot Nine" {
		t.Errorf("team name = %q", name)
	}

	_, err = validator.ValidateComplete(context.Background(), "team-2")
	if apperrors.CodeOf(err) != apperrors.CodeTeamIncomplete {
		t.Errorf("incomplete code = %v", apperrors.CodeOf(err))
	}
}

func TestValidatorPropagatesStoreError(t *testing.T) {
	boom := errors.New("disk on fire")
	validator := NewValidator(&fakeTeamGetter{err: boom})
	if err := validator.ValidateOwnership(context.Background(), "u", "t"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
