package combat

import "math"

// CritChance is the probability of a critical hit.
const CritChance = 1.0 / 16

// CritMultiplier scales the damage of a critical hit.
const CritMultiplier = 1.5

// Variance bounds applied after effectiveness.
const (
	MinVariance = 0.85
	MaxVariance = 1.00
)

// maxUnit is the largest value Float64 returns. Scaling by it makes the
// variance range include MaxVariance.
var maxUnit = math.Nextafter(1, 0)

// Rand is the randomness the damage engine draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// TypeTable answers type-effectiveness queries. *gamedata.TypeChart satisfies it.
type TypeTable interface {
	Effectiveness(moveType string, defenderTypes []string) float64
}

// AttackInput holds everything needed to resolve one damaging move.
type AttackInput struct {
	Level         int
	Offense       int
	Defense       int
	Power         int
	MoveType      string
	DefenderTypes []string
	Accuracy      int
}

// AttackResult is the outcome of a single attack roll.
type AttackResult struct {
	Hit           bool
	Damage        int
	Critical      bool
	Effectiveness float64
}

// ResolveAttack rolls accuracy, then computes damage in a fixed order:
// base formula, effectiveness, variance, critical hit, floor.
//
// Exactly three values are drawn from rng on a hit (accuracy, variance,
// critical) and one on a miss.
func ResolveAttack(rng Rand, table TypeTable, in AttackInput) AttackResult {
	eff := table.Effectiveness(in.MoveType, in.DefenderTypes)

	if rng.Float64()*100 > float64(in.Accuracy) {
		return AttackResult{Effectiveness: eff}
	}

	base := math.Floor((float64(2*in.Level+10)/250)*(float64(in.Offense)/float64(max(1, in.Defense)))*float64(in.Power) + 2)
	dmg := base * eff
	dmg *= variance(rng.Float64())

	critical := rng.Float64() < CritChance
	if critical {
		dmg *= CritMultiplier
	}

	damage := int(math.Floor(dmg))
	if damage < 1 && eff > 0 {
		damage = 1
	}
	if damage < 0 {
		damage = 0
	}

	return AttackResult{
		Hit:           true,
		Damage:        damage,
		Critical:      critical,
		Effectiveness: eff,
	}
}

// Commentary returns the battle log line for an effectiveness multiplier,
// or "" when the move is neutral.
func Commentary(eff float64) string {
	switch {
	case eff == 0:
		return "It has no effect!"
	case eff > 1:
		return "It's super effective!"
	case eff < 1:
		return "It's not very effective…"
	default:
		return ""
	}
}

// variance maps a draw in [0, 1) onto [MinVariance, MaxVariance].
func variance(draw float64) float64 {
	t := min(draw/maxUnit, 1)
	return MinVariance + t*(MaxVariance-MinVariance)
}
