package game

import "time"

type Phase string

const (
	PhaseBetting   Phase = "BETTING"
	PhaseRevealing Phase = "REVEALING"
	PhaseSettled   Phase = "SETTLED"
)

// Rank orders phases along the round lifecycle.
func (p Phase) Rank() int {
	switch p {
	case PhaseBetting:
		return 0
	case PhaseRevealing:
		return 1
	case PhaseSettled:
		return 2
	default:
		return -1
	}
}

type Timing struct {
	BetSeconds    int
	RevealSeconds int
}

func (t Timing) BetDuration() time.Duration {
	return time.Duration(t.BetSeconds) * time.Second
}

func (t Timing) Total() time.Duration {
	return time.Duration(t.BetSeconds+t.RevealSeconds) * time.Second
}

// Derive computes the phase a round started at startedAt should be in at now,
// and the whole seconds left in that phase (rounded up, 0 once SETTLED).
// A start in the future counts as zero elapsed.
func Derive(now, startedAt time.Time, t Timing) (Phase, int) {
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	switch {
	case elapsed < t.BetDuration():
		return PhaseBetting, ceilSeconds(t.BetDuration() - elapsed)
	case elapsed < t.Total():
		return PhaseRevealing, ceilSeconds(t.Total() - elapsed)
	default:
		return PhaseSettled, 0
	}
}

func ceilSeconds(d time.Duration) int {
	s := int(d / time.Second)
	if d%time.Second != 0 {
		s++
	}
	return s
}
