// Package stats contains round classification, scoring and summary reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuicatch/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Category is the feedback bucket for a finished round.
type Category int

const (
	CategoryPerfect Category = iota
	CategoryGoodAccuracy
	CategoryGoodEfficiency
	CategoryKeepPracticing
)

// String returns the feedback message shown for c.
func (c Category) String() string {
	switch c {
	case CategoryPerfect:
		return "Perfect round!"
	case CategoryGoodAccuracy:
		return "Good accuracy! Watch for letters slipping past."
	case CategoryGoodEfficiency:
		return "Good efficiency! Mind the wrong keys."
	default:
		return "Keep practicing!"
	}
}

// Classify derives the performance stats of a round.
func Classify(errorCount, missedLetters int) model.PerformanceStats {
	return model.PerformanceStats{
		ErrorCount:    errorCount,
		MissedLetters: missedLetters,
		IsPerfect:     errorCount == 0 && missedLetters == 0,
	}
}

// Feedback maps round stats to a feedback category.
func Feedback(s model.PerformanceStats) Category {
	switch {
	case s.ErrorCount == 0 && s.MissedLetters == 0:
		return CategoryPerfect
	case s.ErrorCount == 0:
		return CategoryGoodAccuracy
	case s.MissedLetters == 0:
		return CategoryGoodEfficiency
	default:
		return CategoryKeepPracticing
	}
}

// Score rates how few rounds it took to reach level, in [0, 100].
func Score(level, wordsCompleted int) int {
	if wordsCompleted <= 0 {
		return 0
	}
	score := level * 100 / wordsCompleted
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// SummaryLines builds the plain session summary: totals, score and a round table.
func SummaryLines(rounds []model.RoundRecord, totals model.RoundTotals, level int) []string {
	if len(rounds) == 0 {
		return []string{"No rounds completed."}
	}
	lines := []string{
		fmt.Sprintf("Rounds: %d  Perfect: %d", totals.Rounds, totals.Perfect),
		fmt.Sprintf("Level: %d  Best level: %d  Score: %d", level, totals.MaxLevel, Score(level, totals.Rounds)),
		fmt.Sprintf("Catches: %d  Errors: %d  Missed: %d", totals.CatchCount, totals.ErrorCount, totals.MissedLetters),
	}

	faults := make([]float64, len(rounds))
	for i, r := range rounds {
		faults[i] = float64(r.ErrorCount + r.MissedLetters)
	}
	lines = append(lines, "Faults trend: "+Sparkline(MovingAverage(faults, 3)), "")

	headers := []string{"#", "Word", "Level", "Errors", "Missed", "Result"}
	rows := make([][]string, 0, len(rounds))
	for i, r := range rounds {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.Word,
			fmt.Sprintf("%d", r.Level),
			fmt.Sprintf("%d", r.ErrorCount),
			fmt.Sprintf("%d", r.MissedLetters),
			string(r.Progression),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true}
	return append(lines, formatTable(headers, rows, rightAlign)...)
}

// RenderSummary prints the session summary.
func RenderSummary(w io.Writer, rounds []model.RoundRecord, totals model.RoundTotals, level int) error {
	for _, line := range SummaryLines(rounds, totals, level) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
