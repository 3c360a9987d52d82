package battle

import (
	"math/rand"
	"testing"

	"github.com/samdwyer/pokehub/internal/entity"
	"github.com/samdwyer/pokehub/internal/gamedata"
)

func move(name string, power, pp int) entity.MoveInstance {
	category := gamedata.CategoryPhysical
	if power == 0 {
		category = gamedata.CategoryStatus
	}
	return entity.MoveInstance{
		Def: gamedata.MoveDef{Name: name, Type: "normal", Category: category, Power: power, Accuracy: 100, PP: 10},
		PP:  pp,
	}
}

func TestChooseMove(t *testing.T) {
	tests := []struct {
		name    string
		moves   []entity.MoveInstance
		allowed map[string]bool
	}{
		{
			name:    "only damaging moves with pp",
			moves:   []entity.MoveInstance{move("growl", 0, 10), move("tackle", 40, 0), move("bite", 60, 5), move("scratch", 40, 3)},
			allowed: map[string]bool{"bite": true, "scratch": true},
		},
		{
			name:    "falls back to first move",
			moves:   []entity.MoveInstance{move("growl", 0, 10), move("tackle", 40, 0)},
			allowed: map[string]bool{"growl": true},
		},
		{
			name:    "falls back even when depleted",
			moves:   []entity.MoveInstance{move("tackle", 40, 0), move("bite", 60, 0)},
			allowed: map[string]bool{"tackle": true},
		},
	}

	rng := rand.New(rand.NewSource(42))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &entity.Combatant{Name: "Rattata", Moves: tt.moves}
			for i := 0; i < 50; i++ {
				got := ChooseMove(rng, c)
				if got == nil || !tt.allowed[got.Def.Name] {
					t.Fatalf("ChooseMove picked %+v", got)
				}
			}
		})
	}
}

func TestChooseMoveReturnsPointerIntoCombatant(t *testing.T) {
	c := &entity.Combatant{Moves: []entity.MoveInstance{move("tackle", 40, 2)}}
	got := ChooseMove(rand.New(rand.NewSource(1)), c)
	got.Spend()
	if c.Moves[0].PP != 1 {
		t.Errorf("PP = %d, want 1 after spending the chosen move", c.Moves[0].PP)
	}
}

func TestChooseMoveNoMoves(t *testing.T) {
	if got := ChooseMove(rand.New(rand.NewSource(1)), &entity.Combatant{}); got != nil {
		t.Errorf("ChooseMove with no moves = %+v, want nil", got)
	}
}

func TestChooseMoveIsUniform(t *testing.T) {
	c := &entity.Combatant{Moves: []entity.MoveInstance{
		move("tackle", 40, 10), move("growl", 0, 10), move("bite", 60, 10), move("scratch", 40, 10),
	}}
	rng := rand.New(rand.NewSource(7))
	counts := make(map[string]int)
	const draws = 3000
	for i := 0; i < draws; i++ {
		counts[ChooseMove(rng, c).Def.Name]++
	}

	if counts["growl"] != 0 {
		t.Errorf("status move chosen %d times", counts["growl"])
	}
	for _, name := range []string{"tackle", "bite", "scratch"} {
		if counts[name] < draws/3-200 || counts[name] > draws/3+200 {
			t.Errorf("%s chosen %d times out of %d, want about a third", name, counts[name], draws)
		}
	}
}
