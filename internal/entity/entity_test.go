package entity

import (
	"testing"

	"github.com/samdwyer/pokehub/internal/gamedata"
)

func testSpecies() *gamedata.SpeciesDef {
	return &gamedata.SpeciesDef{
		ID:     1,
		Name:   "bulbasaur",
		Types:  []string{"grass", "poison"},
		Sprite: "https://example.test/1.png",
		Stats:  gamedata.StatBlock{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45},
	}
}

func TestNewMember(t *testing.T) {
	species := testSpecies()
	m := NewMember(species)

	if m.Level != DefaultLevel {
		t.Errorf("Level = %d, want %d", m.Level, DefaultLevel)
	}
	if m.CurrentHP != 45 || m.MaxHP() != 45 {
		t.Errorf("HP = %d/%d, want 45/45", m.CurrentHP, m.MaxHP())
	}
	if m.Name != "Bulbasaur" {
		t.Errorf("Name = %q, want Bulbasaur", m.Name)
	}

	// Types are copied at add time.
	species.Types[0] = "fire"
	if m.Types[0] != "grass" {
		t.Errorf("member types alias the species: %v", m.Types)
	}
}

func TestMemberSetHPClamps(t *testing.T) {
	m := NewMember(testSpecies())

	m.SetHP(-10)
	if m.CurrentHP != 0 || !m.IsFainted() {
		t.Errorf("SetHP(-10) = %d, want 0 and fainted", m.CurrentHP)
	}
	m.SetHP(999)
	if m.CurrentHP != 45 {
		t.Errorf("SetHP(999) = %d, want 45", m.CurrentHP)
	}
}

func TestNewCombatantPreservesHPAndDoesNotAlias(t *testing.T) {
	m := NewMember(testSpecies())
	m.CurrentHP = 20
	moves := []gamedata.MoveDef{{Name: "tackle", Type: "normal", Category: gamedata.CategoryPhysical, Power: 40, Accuracy: 100, PP: 35}}

	c := NewCombatant(m, moves)
	if c.HP != 20 || c.MaxHP != 45 {
		t.Errorf("combatant HP = %d/%d, want 20/45", c.HP, c.MaxHP)
	}
	if len(c.Moves) != 1 || c.Moves[0].PP != 35 {
		t.Fatalf("moves = %+v, want one tackle at 35 PP", c.Moves)
	}

	c.TakeDamage(5)
	c.Types[0] = "water"
	if m.CurrentHP != 20 || m.Types[0] != "grass" {
		t.Errorf("combatant mutation leaked into member: %+v", m)
	}
}

func TestNewCombatantBaselineStats(t *testing.T) {
	m := Member{SpeciesID: 999, Name: "Missingno", Stats: gamedata.StatBlock{HP: 30}, CurrentHP: 30}
	c := NewCombatant(m, nil)

	if c.Stats.Attack != BaselineStat || c.Stats.SpecialDefense != BaselineStat || c.Stats.Speed != BaselineStat {
		t.Errorf("missing stats not defaulted: %+v", c.Stats)
	}
	if c.Stats.HP != 30 {
		t.Errorf("HP stat = %d, want 30", c.Stats.HP)
	}
	if c.Level != DefaultLevel {
		t.Errorf("Level = %d, want %d", c.Level, DefaultLevel)
	}
}

func TestBuildOpponent(t *testing.T) {
	def := gamedata.OpponentDef{SpeciesID: 74, Name: "geodude", Level: 6, Types: []string{"rock", "ground"}}
	c := BuildOpponent(def, []gamedata.MoveDef{{Name: "tackle", Power: 40, Accuracy: 100, PP: 35}})

	if c.MaxHP != 50 || c.HP != 50 {
		t.Errorf("HP = %d/%d, want 50/50", c.HP, c.MaxHP)
	}
	if c.Stats.Attack != 34 || c.Stats.Defense != 34 || c.Stats.SpecialAttack != 34 {
		t.Errorf("stats = %+v, want 34 across the board", c.Stats)
	}
	if c.Name != "Geodude" {
		t.Errorf("Name = %q, want Geodude", c.Name)
	}
}

func TestCombatantDamageAndHeal(t *testing.T) {
	c := &Combatant{HP: 10, MaxHP: 30}

	if got := c.TakeDamage(15); got != 10 {
		t.Errorf("TakeDamage(15) = %d, want 10", got)
	}
	if c.HP != 0 || !c.IsFainted() {
		t.Errorf("HP = %d, want 0 and fainted", c.HP)
	}
	if got := c.TakeDamage(-3); got != 0 {
		t.Errorf("TakeDamage(-3) = %d, want 0", got)
	}

	if got := c.Heal(50); got != 30 {
		t.Errorf("Heal(50) = %d, want 30", got)
	}
	if got := c.Heal(20); got != 0 {
		t.Errorf("Heal at full HP = %d, want 0", got)
	}
}

func TestOffenseDefenseByCategory(t *testing.T) {
	c := &Combatant{Stats: gamedata.StatBlock{Attack: 1, Defense: 2, SpecialAttack: 3, SpecialDefense: 4}}

	if c.OffenseFor(gamedata.CategoryPhysical) != 1 || c.DefenseFor(gamedata.CategoryPhysical) != 2 {
		t.Error("physical moves should use Attack/Defense")
	}
	if c.OffenseFor(gamedata.CategorySpecial) != 3 || c.DefenseFor(gamedata.CategorySpecial) != 4 {
		t.Error("special moves should use SpecialAttack/SpecialDefense")
	}
}

func TestMoveInstanceSpend(t *testing.T) {
	mi := NewMoveInstance(gamedata.MoveDef{Name: "splash", PP: 1})

	if !mi.Spend() {
		t.Fatal("first Spend should succeed")
	}
	if mi.Spend() {
		t.Error("Spend at 0 PP should fail")
	}
	if mi.PP != 0 || mi.MaxPP() != 1 {
		t.Errorf("PP = %d/%d, want 0/1", mi.PP, mi.MaxPP())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := &Combatant{Types: []string{"fire"}, Moves: []MoveInstance{{PP: 5}}}
	clone := c.Clone()

	c.Moves[0].PP = 0
	c.Types[0] = "water"
	if clone.Moves[0].PP != 5 || clone.Types[0] != "fire" {
		t.Errorf("clone shares state with original: %+v", clone)
	}
}
