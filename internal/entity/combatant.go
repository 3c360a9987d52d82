package entity

import (
	"github.com/samdwyer/pokehub/internal/combat"
	"github.com/samdwyer/pokehub/internal/gamedata"
)

// BaselineStat replaces any missing (zero) stat when a combatant is built.
const BaselineStat = 50

// MoveInstance is a per-battle copy of a move with its remaining PP.
// It is never written back to the roster.
type MoveInstance struct {
	Def gamedata.MoveDef
	PP  int
}

// NewMoveInstance creates a move instance with full PP.
func NewMoveInstance(def gamedata.MoveDef) MoveInstance {
	return MoveInstance{Def: def, PP: def.PP}
}

// MaxPP returns the move's maximum PP.
func (mi *MoveInstance) MaxPP() int { return mi.Def.PP }

// Usable reports whether the move has PP left.
func (mi *MoveInstance) Usable() bool { return mi.PP > 0 }

// Spend decrements PP, returning false when none is left.
func (mi *MoveInstance) Spend() bool {
	if mi.PP <= 0 {
		return false
	}
	mi.PP--
	return true
}

// Combatant is a battle-local creature. It is owned exclusively by one battle
// session and never aliases a roster Member.
type Combatant struct {
	SpeciesID int
	Name      string
	Types     []string
	Level     int
	Stats     gamedata.StatBlock
	HP        int
	MaxHP     int
	Moves     []MoveInstance
}

// NewCombatant copies a roster member into a combatant, preserving its
// current HP, and gives it fresh move instances.
func NewCombatant(m Member, moves []gamedata.MoveDef) *Combatant {
	stats := withBaseline(m.Stats)
	level := m.Level
	if level <= 0 {
		level = DefaultLevel
	}
	c := &Combatant{
		SpeciesID: m.SpeciesID,
		Name:      m.Name,
		Types:     append([]string(nil), m.Types...),
		Level:     level,
		Stats:     stats,
		MaxHP:     stats.HP,
		HP:        clamp(m.CurrentHP, 0, stats.HP),
	}
	c.ResetMoves(moves)
	return c
}

// BuildOpponent derives a full-HP combatant from a preset opponent.
// HP is 20 + 5*level and every other stat is 10 + 4*level.
func BuildOpponent(def gamedata.OpponentDef, moves []gamedata.MoveDef) *Combatant {
	level := def.Level
	if level <= 0 {
		level = 1
	}
	stat := 10 + 4*level
	stats := gamedata.StatBlock{
		HP:             20 + 5*level,
		Attack:         stat,
		Defense:        stat,
		SpecialAttack:  stat,
		SpecialDefense: stat,
		Speed:          stat,
	}
	c := &Combatant{
		SpeciesID: def.SpeciesID,
		Name:      gamedata.DisplayName(def.Name),
		Types:     append([]string(nil), def.Types...),
		Level:     level,
		Stats:     stats,
		HP:        stats.HP,
		MaxHP:     stats.HP,
	}
	c.ResetMoves(moves)
	return c
}

// ResetMoves replaces the combatant's moves with fresh full-PP instances.
func (c *Combatant) ResetMoves(moves []gamedata.MoveDef) {
	c.Moves = make([]MoveInstance, len(moves))
	for i, def := range moves {
		c.Moves[i] = NewMoveInstance(def)
	}
}

// Clone returns a deep copy for read-only rendering.
func (c *Combatant) Clone() Combatant {
	clone := *c
	clone.Types = append([]string(nil), c.Types...)
	clone.Moves = append([]MoveInstance(nil), c.Moves...)
	return clone
}

func withBaseline(s gamedata.StatBlock) gamedata.StatBlock {
	for _, stat := range []*int{&s.HP, &s.Attack, &s.Defense, &s.SpecialAttack, &s.SpecialDefense, &s.Speed} {
		if *stat <= 0 {
			*stat = BaselineStat
		}
	}
	return s
}

// =============================================================================
// combat.Combatant implementation
// =============================================================================

// GetName returns the combatant's display name.
func (c *Combatant) GetName() string { return c.Name }

// IsFainted returns true once HP reaches 0.
func (c *Combatant) IsFainted() bool { return c.HP <= 0 }

// GetLevel returns the combatant's level.
func (c *Combatant) GetLevel() int { return c.Level }

// GetTypes returns the combatant's type tags.
func (c *Combatant) GetTypes() []string { return c.Types }

// OffenseFor returns Attack for physical moves and SpecialAttack otherwise.
func (c *Combatant) OffenseFor(category gamedata.MoveCategory) int {
	if category == gamedata.CategorySpecial {
		return c.Stats.SpecialAttack
	}
	return c.Stats.Attack
}

// DefenseFor returns Defense for physical moves and SpecialDefense otherwise.
func (c *Combatant) DefenseFor(category gamedata.MoveCategory) int {
	if category == gamedata.CategorySpecial {
		return c.Stats.SpecialDefense
	}
	return c.Stats.Defense
}

// TakeDamage reduces HP (floored at 0) and returns actual damage taken.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, c.HP)
	c.HP -= actual
	return actual
}

// Heal restores HP up to MaxHP and returns the actual amount healed.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, c.MaxHP-c.HP)
	c.HP += actual
	return actual
}

// Ensure Combatant implements combat.Combatant
var _ combat.Combatant = (*Combatant)(nil)
