package difficulty

import (
	"testing"

	"github.com/verte-zerg/tuicatch/internal/model"
)

func perfect() model.PerformanceStats {
	return model.PerformanceStats{IsPerfect: true}
}

func TestPerfectRoundUpgradesWithStreakOfOne(t *testing.T) {
	p := Policy{MinWordLength: 3, MaxWordLength: 10, PerfectStreakRequired: 1, Adaptive: true}
	s := NewState(p, 5)
	next, res := Apply(s, perfect(), "house", p)
	if res.Type != model.ProgressionUpgrade || res.NewWordLength != 6 {
		t.Fatalf("expected upgrade to 6, got %s %d", res.Type, res.NewWordLength)
	}
	if next.ConsecutivePerfect != 0 || res.ConsecutivePerfect != 0 {
		t.Fatalf("expected streak reset after upgrade")
	}
	if next.CompletedWords != 1 {
		t.Fatalf("expected completed words 1, got %d", next.CompletedWords)
	}
	if _, ok := next.UsedWords["house"]; !ok {
		t.Fatalf("expected word recorded as used")
	}
	if len(s.UsedWords) != 0 {
		t.Fatalf("input state was mutated")
	}
}

func TestPerfectRoundBuildsStreak(t *testing.T) {
	p := Policy{MinWordLength: 3, MaxWordLength: 10, PerfectStreakRequired: 3, Adaptive: true}
	s := NewState(p, 4)
	s, res := Apply(s, perfect(), "a", p)
	if res.Type != model.ProgressionStay || res.ConsecutivePerfect != 1 {
		t.Fatalf("expected stay with streak 1, got %s %d", res.Type, res.ConsecutivePerfect)
	}
	s, _ = Apply(s, perfect(), "b", p)
	s, res = Apply(s, perfect(), "c", p)
	if res.Type != model.ProgressionUpgrade || s.CurrentWordLength != 5 {
		t.Fatalf("expected upgrade on third perfect round, got %s %d", res.Type, s.CurrentWordLength)
	}
}

func TestMixedRoundsKeepLengthAndResetStreak(t *testing.T) {
	p := Policy{MinWordLength: 3, MaxWordLength: 10, PerfectStreakRequired: 2, Adaptive: true}
	s := NewState(p, 6)
	s, _ = Apply(s, perfect(), "a", p)
	for _, stats := range []model.PerformanceStats{{ErrorCount: 2}, {MissedLetters: 1}} {
		var res model.ProgressionResult
		s, res = Apply(s, stats, "x", p)
		if res.Type != model.ProgressionStay || res.NewWordLength != 6 || s.ConsecutivePerfect != 0 {
			t.Fatalf("expected stay at 6 with streak reset, got %s %d streak=%d", res.Type, res.NewWordLength, s.ConsecutivePerfect)
		}
	}
}

func TestBothCountersDowngrade(t *testing.T) {
	p := DefaultPolicy()
	s := NewState(p, 6)
	s, res := Apply(s, model.PerformanceStats{ErrorCount: 1, MissedLetters: 1}, "x", p)
	if res.Type != model.ProgressionDowngrade || s.CurrentWordLength != 5 {
		t.Fatalf("expected downgrade to 5, got %s %d", res.Type, s.CurrentWordLength)
	}
}

func TestLengthStaysWithinBounds(t *testing.T) {
	p := Policy{MinWordLength: 3, MaxWordLength: 5, PerfectStreakRequired: 1, Adaptive: true}
	s := NewState(p, 4)
	for i := 0; i < 20; i++ {
		s, _ = Apply(s, perfect(), "w", p)
		if s.CurrentWordLength < p.MinWordLength || s.CurrentWordLength > p.MaxWordLength {
			t.Fatalf("length left bounds: %d", s.CurrentWordLength)
		}
	}
	if s.CurrentWordLength != 5 {
		t.Fatalf("expected to settle at max, got %d", s.CurrentWordLength)
	}
	_, res := Apply(s, perfect(), "w", p)
	if res.Type != model.ProgressionStay {
		t.Fatalf("upgrade at max should report stay, got %s", res.Type)
	}
	for i := 0; i < 20; i++ {
		s, _ = Apply(s, model.PerformanceStats{ErrorCount: 3, MissedLetters: 3}, "w", p)
		if s.CurrentWordLength < p.MinWordLength || s.CurrentWordLength > p.MaxWordLength {
			t.Fatalf("length left bounds: %d", s.CurrentWordLength)
		}
	}
	if s.CurrentWordLength != 3 {
		t.Fatalf("expected to settle at min, got %d", s.CurrentWordLength)
	}
}

func TestNonAdaptiveKeepsLength(t *testing.T) {
	p := DefaultPolicy()
	p.PerfectStreakRequired = 1
	p.Adaptive = false
	s := NewState(p, 4)
	s, res := Apply(s, perfect(), "w", p)
	if res.Type != model.ProgressionStay || s.CurrentWordLength != 4 {
		t.Fatalf("expected fixed length, got %s %d", res.Type, s.CurrentWordLength)
	}
	if s.CompletedWords != 1 {
		t.Fatalf("rounds should still be counted")
	}
	if res.Message != "Perfect streak! Word length is fixed." {
		t.Fatalf("unexpected message below max: %q", res.Message)
	}
}

func TestUsedWordsNeverShrink(t *testing.T) {
	p := DefaultPolicy()
	s := NewState(p, 3)
	for i, w := range []string{"cat", "dog", "cat", "owl"} {
		s, _ = Apply(s, model.PerformanceStats{ErrorCount: i}, w, p)
	}
	if len(s.UsedWords) != 3 {
		t.Fatalf("expected 3 distinct used words, got %d", len(s.UsedWords))
	}
}

func TestLevelRoundTrip(t *testing.T) {
	for n := DefaultMinWordLength; n <= DefaultMaxWordLength; n++ {
		level := LevelFromWordLength(n, DefaultMinWordLength)
		if got := WordLengthFromLevel(level, DefaultMinWordLength); got != n {
			t.Fatalf("round trip %d -> %d -> %d", n, level, got)
		}
	}
	if LevelFromWordLength(DefaultMinWordLength, DefaultMinWordLength) != 1 {
		t.Fatalf("minimum length should be level 1")
	}
}

func TestNewStateClampsStart(t *testing.T) {
	p := DefaultPolicy()
	if s := NewState(p, 1); s.CurrentWordLength != p.MinWordLength {
		t.Fatalf("expected clamp to min, got %d", s.CurrentWordLength)
	}
	if s := NewState(p, 99); s.CurrentWordLength != p.MaxWordLength {
		t.Fatalf("expected clamp to max, got %d", s.CurrentWordLength)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
	bad := DefaultPolicy()
	bad.MaxWordLength = 2
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for max < min")
	}
}
