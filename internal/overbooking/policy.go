package overbooking

import (
	"github.com/wolfman30/noshow-decision-demo/internal/decision"
)

// Sampling ranges of the simulated state and the level thresholds.
const (
	MinExpectedAttendance = 25.0
	MaxExpectedAttendance = 38.0
	MinStdDev             = 3.0
	MaxStdDev             = 7.0

	HighLoadBelow   = 30.0
	MediumLoadBelow = 36.0
	RiskyStdDev     = 6.0

	// FixedExpectedAttendance is reported by FixedPolicy.
	FixedExpectedAttendance = 34.6
)

// Policy recommends an overbooking level for the day.
type Policy interface {
	Recommend() Result
}

// RandomPolicy samples the attendance state and maps it to a level, standing in
// for the DQN policy.
type RandomPolicy struct {
	src decision.Source
}

// NewRandomPolicy draws states from src.
func NewRandomPolicy(src decision.Source) *RandomPolicy {
	return &RandomPolicy{src: src}
}

// Sample draws expected attendance from [25, 38) and std-dev from [3, 7).
func (p *RandomPolicy) Sample() State {
	return State{
		ExpectedAttendance: decision.Uniform(p.src, MinExpectedAttendance, MaxExpectedAttendance),
		AttendanceStdDev:   decision.Uniform(p.src, MinStdDev, MaxStdDev),
	}
}

func (p *RandomPolicy) Recommend() Result {
	state := p.Sample()
	return NewResult(state, Choose(state))
}

// Choose picks the level for state: the attendance band first, then the
// std-dev refinement.
func Choose(state State) Level {
	return Refine(SelectLevel(state.ExpectedAttendance), state.AttendanceStdDev)
}

// SelectLevel overbooks aggressively when few patients are expected.
func SelectLevel(expectedAttendance float64) Level {
	switch {
	case expectedAttendance < HighLoadBelow:
		return LevelHigh
	case expectedAttendance < MediumLoadBelow:
		return LevelMid
	default:
		return LevelLow
	}
}

// Refine pulls an aggressive level back to medium when attendance is too
// volatile.
func Refine(level Level, stdDev float64) Level {
	if stdDev > RiskyStdDev && level.Label == LevelHigh.Label {
		return LevelMid
	}
	return level
}

// FixedPolicy always returns the precomputed best result.
type FixedPolicy struct{}

func (FixedPolicy) Recommend() Result {
	return NewResult(State{ExpectedAttendance: FixedExpectedAttendance}, LevelDynamic)
}
