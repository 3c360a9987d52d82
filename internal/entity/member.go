// Package entity provides the creatures that take part in battles: roster
// members owned by the player and the battle-local combatants copied from them.
package entity

import (
	"github.com/samdwyer/pokehub/internal/gamedata"
)

// DefaultLevel is the level a newly added roster member starts at.
const DefaultLevel = 5

// Member is an owned creature in the player's team.
//
// Types and Stats are copied from the species when the member is added and are
// never recalculated. CurrentHP stays within [0, Stats.HP].
type Member struct {
	SpeciesID int                `json:"speciesId"`
	Name      string             `json:"name"`
	Sprite    string             `json:"sprite"`
	Types     []string           `json:"types"`
	Level     int                `json:"level"`
	Stats     gamedata.StatBlock `json:"stats"`
	CurrentHP int                `json:"currentHp"`
}

// NewMember creates a full-HP member from a species snapshot.
func NewMember(species *gamedata.SpeciesDef) Member {
	types := make([]string, len(species.Types))
	copy(types, species.Types)
	return Member{
		SpeciesID: species.ID,
		Name:      species.Label(),
		Sprite:    species.Sprite,
		Types:     types,
		Level:     DefaultLevel,
		Stats:     species.Stats,
		CurrentHP: species.Stats.HP,
	}
}

// MaxHP returns the member's maximum HP.
func (m *Member) MaxHP() int { return m.Stats.HP }

// IsFainted returns true if the member has no HP left.
func (m *Member) IsFainted() bool { return m.CurrentHP <= 0 }

// SetHP sets current HP, clamped to [0, MaxHP].
func (m *Member) SetHP(hp int) {
	m.CurrentHP = clamp(hp, 0, m.MaxHP())
}

// Clone returns a copy that shares no slices with m.
func (m Member) Clone() Member {
	m.Types = append([]string(nil), m.Types...)
	return m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
