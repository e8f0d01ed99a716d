// Package difficulty adapts the target word length between rounds.
package difficulty

import (
	"fmt"

	"github.com/verte-zerg/tuicatch/internal/model"
)

// Defaults for a session.
const (
	DefaultMinWordLength         = 3
	DefaultMaxWordLength         = 10
	DefaultPerfectStreakRequired = 2
)

// Policy bounds the word length and sets how many perfect rounds earn an upgrade.
type Policy struct {
	MinWordLength         int
	MaxWordLength         int
	PerfectStreakRequired int
	// Adaptive disables length changes when false; rounds are still counted.
	Adaptive bool
}

// DefaultPolicy returns the adaptive default policy.
func DefaultPolicy() Policy {
	return Policy{
		MinWordLength:         DefaultMinWordLength,
		MaxWordLength:         DefaultMaxWordLength,
		PerfectStreakRequired: DefaultPerfectStreakRequired,
		Adaptive:              true,
	}
}

// Validate reports an inconsistent policy.
func (p Policy) Validate() error {
	if p.MinWordLength <= 0 {
		return fmt.Errorf("min word length must be > 0")
	}
	if p.MaxWordLength < p.MinWordLength {
		return fmt.Errorf("max word length must be >= min word length")
	}
	if p.PerfectStreakRequired <= 0 {
		return fmt.Errorf("perfect streak must be > 0")
	}
	return nil
}

// State carries difficulty across the rounds of a session.
type State struct {
	CurrentWordLength  int
	MinWordLength      int
	MaxWordLength      int
	CompletedWords     int
	UsedWords          map[string]struct{}
	ConsecutivePerfect int
}

// NewState starts a session at start, clamped into the policy bounds.
func NewState(p Policy, start int) State {
	return State{
		CurrentWordLength: clamp(start, p.MinWordLength, p.MaxWordLength),
		MinWordLength:     p.MinWordLength,
		MaxWordLength:     p.MaxWordLength,
		UsedWords:         map[string]struct{}{},
	}
}

// Level returns the 1-based level of the current word length.
func (s State) Level() int {
	return LevelFromWordLength(s.CurrentWordLength, s.MinWordLength)
}

// Apply folds the result of a finished round into the state.
//
// A perfect round extends the streak and upgrades once the streak reaches
// the policy threshold. A round with both errors and misses downgrades. Any
// other round keeps the length. The streak resets on every non-perfect round
// and after an upgrade. UsedWords only ever grows.
func Apply(s State, stats model.PerformanceStats, word string, p Policy) (State, model.ProgressionResult) {
	next := s
	next.UsedWords = make(map[string]struct{}, len(s.UsedWords)+1)
	for w := range s.UsedWords {
		next.UsedWords[w] = struct{}{}
	}
	if word != "" {
		next.UsedWords[word] = struct{}{}
	}
	next.CompletedWords++

	result := model.ProgressionResult{Type: model.ProgressionStay}
	switch {
	case stats.ErrorCount == 0 && stats.MissedLetters == 0:
		next.ConsecutivePerfect++
		if next.ConsecutivePerfect >= p.PerfectStreakRequired {
			next.ConsecutivePerfect = 0
			switch {
			case !p.Adaptive:
				result.Message = "Perfect streak! Word length is fixed."
			case next.CurrentWordLength < next.MaxWordLength:
				next.CurrentWordLength++
				result.Type = model.ProgressionUpgrade
				result.Message = fmt.Sprintf("Level up! Words now have %d letters.", next.CurrentWordLength)
			default:
				result.Message = "Perfect! You are at the top length."
			}
		} else {
			result.Message = fmt.Sprintf("Perfect! %d/%d perfect rounds to level up.", next.ConsecutivePerfect, p.PerfectStreakRequired)
		}
	case stats.ErrorCount > 0 && stats.MissedLetters > 0:
		next.ConsecutivePerfect = 0
		if p.Adaptive && next.CurrentWordLength > next.MinWordLength {
			next.CurrentWordLength--
			result.Type = model.ProgressionDowngrade
			result.Message = fmt.Sprintf("Easing off. Words now have %d letters.", next.CurrentWordLength)
		} else {
			result.Message = "Keep going, staying at this length."
		}
	default:
		next.ConsecutivePerfect = 0
		result.Message = "Staying at this length."
	}

	next.CurrentWordLength = clamp(next.CurrentWordLength, next.MinWordLength, next.MaxWordLength)
	result.NewWordLength = next.CurrentWordLength
	result.ConsecutivePerfect = next.ConsecutivePerfect
	return next, result
}

// LevelFromWordLength maps a word length to a 1-based level.
func LevelFromWordLength(length, minLength int) int {
	return length - minLength + 1
}

// WordLengthFromLevel is the inverse of LevelFromWordLength.
func WordLengthFromLevel(level, minLength int) int {
	return level + minLength - 1
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
