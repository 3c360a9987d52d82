package combat

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/samdwyer/pokehub/internal/gamedata"
)

// seqRand returns scripted values in order, then repeats the last one.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	if s.i >= len(s.vals) {
		return s.vals[len(s.vals)-1]
	}
	v := s.vals[s.i]
	s.i++
	return v
}

// fixedTable returns the same multiplier for every query.
type fixedTable float64

func (f fixedTable) Effectiveness(string, []string) float64 { return float64(f) }

// mockCombatant is a test implementation of the Combatant interface.
type mockCombatant struct {
	name      string
	hp, maxHP int
	level     int
	types     []string
	offense   int
	defense   int
}

func newMockCombatant(name string, hp, offense, defense int, types ...string) *mockCombatant {
	return &mockCombatant{name: name, hp: hp, maxHP: hp, level: 5, types: types, offense: offense, defense: defense}
}

func (m *mockCombatant) GetName() string                      { return m.name }
func (m *mockCombatant) IsFainted() bool                      { return m.hp <= 0 }
func (m *mockCombatant) GetLevel() int                        { return m.level }
func (m *mockCombatant) GetTypes() []string                   { return m.types }
func (m *mockCombatant) OffenseFor(gamedata.MoveCategory) int { return m.offense }
func (m *mockCombatant) DefenseFor(gamedata.MoveCategory) int { return m.defense }

func (m *mockCombatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, m.hp)
	m.hp -= actual
	return actual
}

func (m *mockCombatant) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, m.maxHP-m.hp)
	m.hp += actual
	return actual
}

var neutralInput = AttackInput{Level: 5, Offense: 50, Defense: 50, Power: 40, MoveType: "normal", Accuracy: 100}

func TestResolveAttackDamageBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		res := ResolveAttack(rng, fixedTable(1), neutralInput)
		if !res.Hit {
			t.Fatalf("100 accuracy attack missed on iteration %d", i)
		}
		if res.Critical {
			continue
		}
		if res.Damage != 4 && res.Damage != 5 {
			t.Fatalf("non-critical damage = %d, want 4 or 5", res.Damage)
		}
	}
}

func TestResolveAttackMiss(t *testing.T) {
	in := neutralInput
	in.Accuracy = 50

	res := ResolveAttack(&seqRand{vals: []float64{0.75}}, fixedTable(2), in)
	if res.Hit {
		t.Fatal("draw of 75 against accuracy 50 should miss")
	}
	if res.Damage != 0 || res.Critical {
		t.Errorf("miss = %+v, want 0 damage and not critical", res)
	}
}

func TestResolveAttackHitsAtAccuracyBoundary(t *testing.T) {
	in := neutralInput
	in.Accuracy = 50

	res := ResolveAttack(&seqRand{vals: []float64{0.5, 0.5, 0.9}}, fixedTable(1), in)
	if !res.Hit {
		t.Error("draw equal to accuracy should hit")
	}
}

func TestResolveAttackOrdering(t *testing.T) {
	tests := []struct {
		name     string
		eff      float64
		draws    []float64 // accuracy, variance, crit
		wantDmg  int
		wantCrit bool
	}{
		// base 5, x1, variance just under 1.0, no crit.
		{"neutral near max variance", 1, []float64{0, 0.9999999, 0.5}, 4, false},
		// The largest draw maps to variance 1.0, so base 5 stays 5.
		{"neutral top variance", 1, []float64{0, math.Nextafter(1, 0), 0.5}, 5, false},
		// base 5 * 2 = 10, * 0.85 = 8.5 -> 8.
		{"super effective min variance", 2, []float64{0, 0, 0.5}, 8, false},
		// base 5 * 2 = 10, * 0.85 = 8.5, * 1.5 = 12.75 -> 12.
		{"critical after variance", 2, []float64{0, 0, 0}, 12, true},
		// base 5 * 0.25 = 1.25 * 0.85 -> 1.06 -> 1.
		{"double resist clamps to one", 0.25, []float64{0, 0, 0.5}, 1, false},
		// base 5 * 0.5 = 2.5 * 0.85 = 2.125 -> 2.
		{"resisted", 0.5, []float64{0, 0, 0.5}, 2, false},
		{"immune deals nothing", 0, []float64{0, 0, 0}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResolveAttack(&seqRand{vals: tt.draws}, fixedTable(tt.eff), neutralInput)
			if !res.Hit {
				t.Fatal("expected a hit")
			}
			if res.Damage != tt.wantDmg {
				t.Errorf("Damage = %d, want %d", res.Damage, tt.wantDmg)
			}
			if res.Critical != tt.wantCrit {
				t.Errorf("Critical = %v, want %v", res.Critical, tt.wantCrit)
			}
			if res.Effectiveness != tt.eff {
				t.Errorf("Effectiveness = %v, want %v", res.Effectiveness, tt.eff)
			}
		})
	}
}

func TestResolveAttackZeroDefense(t *testing.T) {
	in := neutralInput
	in.Defense = 0

	// (20/250) * 50 * 40 + 2 = 162, * 0.85 = 137.7 -> 137.
	res := ResolveAttack(&seqRand{vals: []float64{0, 0, 0.5}}, fixedTable(1), in)
	if res.Damage != 137 {
		t.Errorf("Damage = %d, want 137", res.Damage)
	}
}

func TestResolveAttackNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	effs := []float64{0, 0.25, 0.5, 1, 2, 4}

	for i := 0; i < 1000; i++ {
		in := AttackInput{
			Level:    rng.Intn(100),
			Offense:  rng.Intn(200),
			Defense:  rng.Intn(200),
			Power:    rng.Intn(150),
			Accuracy: rng.Intn(101),
		}
		res := ResolveAttack(rng, fixedTable(effs[rng.Intn(len(effs))]), in)
		if res.Damage < 0 {
			t.Fatalf("negative damage %d for %+v", res.Damage, in)
		}
		if !res.Hit && (res.Damage != 0 || res.Critical) {
			t.Fatalf("miss returned %+v", res)
		}
	}
}

func TestResolveAttackUsesTypeTable(t *testing.T) {
	chart := gamedata.MustLoadTypeChart()
	in := neutralInput
	in.MoveType = "fire"
	in.DefenderTypes = []string{"grass", "bug"}

	res := ResolveAttack(&seqRand{vals: []float64{0, 0, 0.5}}, chart, in)
	if res.Effectiveness != 4 {
		t.Errorf("Effectiveness = %v, want 4", res.Effectiveness)
	}
	// 5 * 4 = 20 * 0.85 = 17.
	if res.Damage != 17 {
		t.Errorf("Damage = %d, want 17", res.Damage)
	}
}

func TestCommentary(t *testing.T) {
	tests := []struct {
		eff  float64
		want string
	}{
		{4, "It's super effective!"},
		{2, "It's super effective!"},
		{1, ""},
		{0.5, "It's not very effective…"},
		{0.25, "It's not very effective…"},
		{0, "It has no effect!"},
	}

	for _, tt := range tests {
		if got := Commentary(tt.eff); got != tt.want {
			t.Errorf("Commentary(%v) = %q, want %q", tt.eff, got, tt.want)
		}
	}
}

func TestResolverDamageMove(t *testing.T) {
	resolver := NewResolver(fixedTable(2))
	user := newMockCombatant("Charmander", 39, 50, 50)
	target := newMockCombatant("Bulbasaur", 45, 50, 50)
	ember := &gamedata.MoveDef{Name: "ember", Type: "fire", Category: gamedata.CategorySpecial, Power: 40, Accuracy: 100, PP: 25}

	res := resolver.Resolve(&seqRand{vals: []float64{0, 0, 0.5}}, ember, user, target)

	if res.Damage != 8 || target.hp != 37 {
		t.Errorf("Damage = %d, target HP = %d, want 8 and 37", res.Damage, target.hp)
	}
	want := []string{"Charmander used Ember!", "It's super effective!", "Bulbasaur took 8 damage."}
	if strings.Join(res.Messages, "|") != strings.Join(want, "|") {
		t.Errorf("Messages = %q, want %q", res.Messages, want)
	}
	if res.Fainted {
		t.Error("target should not have fainted")
	}
}

func TestResolverMiss(t *testing.T) {
	resolver := NewResolver(fixedTable(1))
	user := newMockCombatant("Geodude", 40, 50, 50)
	target := newMockCombatant("Pidgey", 40, 50, 50)
	move := &gamedata.MoveDef{Name: "rock-throw", Type: "rock", Category: gamedata.CategoryPhysical, Power: 50, Accuracy: 90, PP: 15}

	res := resolver.Resolve(&seqRand{vals: []float64{0.95}}, move, user, target)

	if res.Attack.Hit || res.Damage != 0 || target.hp != 40 {
		t.Errorf("miss applied damage: %+v, target HP %d", res, target.hp)
	}
	if res.Messages[len(res.Messages)-1] != "Geodude's attack missed!" {
		t.Errorf("last message = %q", res.Messages[len(res.Messages)-1])
	}
}

func TestResolverStatusMoveOnlyLogsUsage(t *testing.T) {
	resolver := NewResolver(fixedTable(1))
	user := newMockCombatant("Squirtle", 44, 50, 50)
	target := newMockCombatant("Rattata", 35, 50, 50)
	growl := &gamedata.MoveDef{Name: "growl", Type: "normal", Category: gamedata.CategoryStatus, Accuracy: 100, PP: 40}

	// A status move must not draw from rng.
	rng := &seqRand{vals: []float64{0}}
	res := resolver.Resolve(rng, growl, user, target)

	if len(res.Messages) != 1 || res.Messages[0] != "Squirtle used Growl!" {
		t.Errorf("Messages = %q, want only the usage line", res.Messages)
	}
	if target.hp != 35 || rng.i != 0 {
		t.Errorf("status move changed state: target HP %d, draws %d", target.hp, rng.i)
	}
}

func TestResolverFaint(t *testing.T) {
	resolver := NewResolver(fixedTable(1))
	user := newMockCombatant("Onix", 40, 200, 50)
	target := newMockCombatant("Magikarp", 3, 50, 10)
	move := &gamedata.MoveDef{Name: "tackle", Type: "normal", Category: gamedata.CategoryPhysical, Power: 40, Accuracy: 100, PP: 35}

	res := resolver.Resolve(&seqRand{vals: []float64{0, 0, 0.5}}, move, user, target)

	if !res.Fainted || target.hp != 0 {
		t.Errorf("target HP = %d, Fainted = %v, want 0 and true", target.hp, res.Fainted)
	}
	if res.Damage != 3 {
		t.Errorf("Damage = %d, want 3 (capped at remaining HP)", res.Damage)
	}
	if res.Messages[len(res.Messages)-1] != "Magikarp fainted!" {
		t.Errorf("last message = %q", res.Messages[len(res.Messages)-1])
	}
}

func TestResolverPreview(t *testing.T) {
	resolver := NewResolver(gamedata.MustLoadTypeChart())
	target := newMockCombatant("Pidgey", 40, 50, 50, "normal", "flying")
	mudSlap := &gamedata.MoveDef{Name: "mud-slap", Type: "ground", Category: gamedata.CategorySpecial, Power: 20, Accuracy: 100}

	if got := resolver.Preview(mudSlap, target); got != 0 {
		t.Errorf("Preview(ground vs flying) = %v, want 0", got)
	}
}
