// Package combat provides move resolution for battles: the damage formula and
// the resolver that applies a move from one combatant to another.
package combat

import (
	"fmt"

	"github.com/samdwyer/pokehub/internal/gamedata"
)

// Combatant is the interface for any creature that can take part in a battle.
// Both the player's creatures and opponents implement it.
type Combatant interface {
	// Identity
	GetName() string
	IsFainted() bool

	// Stats
	GetLevel() int
	GetTypes() []string
	OffenseFor(category gamedata.MoveCategory) int
	DefenseFor(category gamedata.MoveCategory) int

	// Mutations
	TakeDamage(amount int) int // Returns actual damage taken
	Heal(amount int) int       // Returns actual amount healed
}

// MoveResult contains the outcome of using one move.
type MoveResult struct {
	Attack   AttackResult // Zero for status moves
	Damage   int          // Damage actually applied to the target
	Fainted  bool         // Target fainted as a result
	Messages []string     // Human-readable log lines, in order
}

// Resolver applies moves between combatants.
type Resolver struct {
	table TypeTable
}

// NewResolver creates a resolver backed by the given type table.
func NewResolver(table TypeTable) *Resolver {
	return &Resolver{table: table}
}

// Resolve uses move from user on target and returns what happened.
// Status moves only produce a usage message. PP is the caller's concern.
func (r *Resolver) Resolve(rng Rand, move *gamedata.MoveDef, user Combatant, target Combatant) MoveResult {
	result := MoveResult{
		Messages: []string{fmt.Sprintf("%s used %s!", user.GetName(), move.Label())},
	}

	if !move.IsDamaging() {
		return result
	}

	attack := ResolveAttack(rng, r.table, AttackInput{
		Level:         user.GetLevel(),
		Offense:       user.OffenseFor(move.Category),
		Defense:       target.DefenseFor(move.Category),
		Power:         move.Power,
		MoveType:      move.Type,
		DefenderTypes: target.GetTypes(),
		Accuracy:      move.Accuracy,
	})
	result.Attack = attack

	if !attack.Hit {
		result.Messages = append(result.Messages, fmt.Sprintf("%s's attack missed!", user.GetName()))
		return result
	}

	if attack.Critical {
		result.Messages = append(result.Messages, "A critical hit!")
	}
	if line := Commentary(attack.Effectiveness); line != "" {
		result.Messages = append(result.Messages, line)
	}

	result.Damage = target.TakeDamage(attack.Damage)
	if result.Damage > 0 {
		result.Messages = append(result.Messages, fmt.Sprintf("%s took %d damage.", target.GetName(), result.Damage))
	}
	if target.IsFainted() {
		result.Fainted = true
		result.Messages = append(result.Messages, fmt.Sprintf("%s fainted!", target.GetName()))
	}

	return result
}

// Preview returns the effectiveness of move against target without rolling.
func (r *Resolver) Preview(move *gamedata.MoveDef, target Combatant) float64 {
	if !move.IsDamaging() {
		return 1
	}
	return r.table.Effectiveness(move.Type, target.GetTypes())
}
