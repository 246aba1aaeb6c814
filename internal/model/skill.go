package model

import "math"

// CalculateSkill converts experience into a skill level.
func CalculateSkill(exp, mult float64) int {
	if mult <= 0 {
		mult = 1
	}
	value := math.Floor(mult * (32*math.Log(exp+534.6) - 200))
	if value < 1 || math.IsNaN(value) {
		return 1
	}
	if value > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(value)
}

// CalculateExp is the experience needed to reach skill at the given multiplier.
func CalculateExp(skill int, mult float64) float64 {
	if mult <= 0 {
		mult = 1
	}
	return math.Exp((float64(skill)/mult+200)/32) - 534.6
}

// SkillProgress describes where exp sits between two skill levels.
type SkillProgress struct {
	CurrentSkill     int
	NextSkill        int
	BaseExperience   float64
	Experience       float64
	NextExperience   float64
	CurrentExpInto   float64
	RemainingExp     float64
	ProgressFraction float64
}

// CalculateSkillProgress returns the progress towards the next skill level.
// ProgressFraction is always in [0, 1].
func CalculateSkillProgress(exp, mult float64) SkillProgress {
	current := CalculateSkill(exp, mult)
	next := current + 1

	base := CalculateExp(current, mult)
	nextExp := CalculateExp(next, mult)
	if base < 0 {
		base = 0
	}
	if nextExp < 0 {
		nextExp = 0
	}

	needed := nextExp - base
	into := exp - base
	remaining := nextExp - exp

	frac := 0.0
	if needed > 0 {
		frac = into / needed
	}
	if frac < 0 || math.IsNaN(frac) {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	return SkillProgress{
		CurrentSkill:     current,
		NextSkill:        next,
		BaseExperience:   base,
		Experience:       exp,
		NextExperience:   nextExp,
		CurrentExpInto:   into,
		RemainingExp:     remaining,
		ProgressFraction: frac,
	}
}
