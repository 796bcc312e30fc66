// Package progress implements the leveling arithmetic shared by every
// progressable entity. It is pure: callers read an entity's front matter,
// apply a point delta here, and write the result back themselves.
package progress

import "math"

// Kind selects the points-required curve. Each entity kind levels on its own
// quadratic (or, for the player, linear-difference) curve.
type Kind string

const (
	KindStat        Kind = "stat"
	KindSkill       Kind = "skill"
	KindClass       Kind = "class"
	KindMasterClass Kind = "master-class"
	KindPlayer      Kind = "player"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindStat, KindSkill, KindClass, KindMasterClass, KindPlayer:
		return true
	default:
		return false
	}
}

// statValuePerLevel is the cosmetic display-value bump a stat gains per
// level-up, decoupled from its level/current/required triple.
const statValuePerLevel = 15

// State is the progression quadruple stored in an entity's front matter.
// Value is only meaningful for the stat kind.
type State struct {
	Level    int
	Current  float64
	Required float64
	Value    float64
}

type Result struct {
	State
	LeveledUp    bool
	LevelsGained int
}

// RequiredPoints returns the points needed to clear the given level.
// Strictly increasing in level for every kind, which is what guarantees the
// Apply loop terminates.
func RequiredPoints(kind Kind, level int) float64 {
	if level < 1 {
		level = 1
	}
	l := float64(level)
	switch kind {
	case KindMasterClass:
		return 100 * l * l
	case KindClass:
		return 50 * l * l
	case KindSkill:
		return 20 * l * l
	case KindPlayer:
		return (2*l - 1) * 1000
	default:
		return 10 * l * l
	}
}

// Apply adds delta to the state and settles level-ups until the current
// points sit below the threshold again. Required is recomputed from the
// formula even when no level-up happens, so a curve change takes effect on
// the next update. Negative deltas are treated as zero.
func Apply(kind Kind, state State, delta float64) Result {
	if state.Level < 1 {
		state.Level = 1
	}
	if delta > 0 {
		state.Current += delta
	}

	result := Result{State: state}
	for result.Current >= RequiredPoints(kind, result.Level) {
		result.Current -= RequiredPoints(kind, result.Level)
		result.Level++
		result.LevelsGained++
		result.LeveledUp = true
		if kind == KindStat {
			result.Value += statValuePerLevel
		}
	}
	result.Required = RequiredPoints(kind, result.Level)
	return result
}

// CoinsForXP is the default coin award for an experience delta.
func CoinsForXP(xp float64) float64 {
	return math.Round(xp * 0.1)
}
