package battle

import "github.com/samdwyer/pokehub/internal/entity"

// Rand is the randomness a battle draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Perm(n int) []int
}

// ChooseMove picks the opponent's move: a uniformly random move with PP left
// and nonzero power, or the first move when none qualify, even if it is
// depleted or a status move. It returns nil only for a combatant with no moves.
func ChooseMove(rng Rand, c *entity.Combatant) *entity.MoveInstance {
	if len(c.Moves) == 0 {
		return nil
	}

	// Shuffle and take the first usable damaging move.
	for _, idx := range rng.Perm(len(c.Moves)) {
		mi := &c.Moves[idx]
		if mi.PP > 0 && mi.Def.Power > 0 {
			return mi
		}
	}

	return &c.Moves[0]
}
