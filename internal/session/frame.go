package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/tuicatch/internal/difficulty"
	"github.com/verte-zerg/tuicatch/internal/game"
	"github.com/verte-zerg/tuicatch/internal/model"
	"github.com/verte-zerg/tuicatch/internal/stats"
)

// Row is one board cell as the renderer sees it. Row 0 is the spawn end.
type Row struct {
	Char      rune
	Empty     bool
	Caught    bool
	CatchLine bool
}

// Frame is the plain content of the screen; styling is up to the renderer.
type Frame struct {
	Phase      Phase
	Rows       []Row
	Target     string
	Typed      string
	Round      int
	Level      int
	WordLength int
	Errors     int
	Missed     int
	Feedback   string
	Remaining  time.Duration
	Timed      bool
	// Notice holds completion, progression or end-of-session lines.
	Notice []string
}

// Frame snapshots the session for rendering at now.
func (s *Session) Frame(now time.Time) Frame {
	f := Frame{
		Phase:      s.phase,
		Target:     s.target,
		Typed:      s.state.TypedProgress,
		Round:      s.round,
		Level:      s.diff.Level(),
		WordLength: s.diff.CurrentWordLength,
		Errors:     s.state.ErrorCount,
		Missed:     s.state.MissedLetters,
		Feedback:   keyFeedback(s.lastKind),
		Timed:      s.cfg.Duration > 0,
	}
	if f.Timed && s.phase != PhaseIdle {
		f.Remaining = s.cfg.Duration - now.Sub(s.startedAt)
		if f.Remaining < 0 || s.phase == PhaseStopped {
			f.Remaining = 0
		}
	}

	f.Rows = make([]Row, model.BoardSize)
	for i, slot := range s.state.Board {
		row := Row{Empty: slot == nil, CatchLine: i == model.CatchLineIndex}
		if slot != nil {
			row.Char = slot.Char
			row.Caught = slot.Caught
		}
		f.Rows[i] = row
	}

	switch s.phase {
	case PhaseAwaitingContinue:
		f.Notice = s.completionNotice()
	case PhaseStopped:
		f.Notice = []string{"Session over: " + s.endReason}
	}
	return f
}

func (s *Session) completionNotice() []string {
	lines := []string{}
	if s.cfg.ShowCompletion {
		lines = append(lines,
			"Word complete: "+strings.ToUpper(s.target),
			s.lastFeedback.String(),
			fmt.Sprintf("Errors: %d  Missed: %d", s.state.ErrorCount, s.state.MissedLetters),
		)
	}
	if s.cfg.ShowProgression && s.lastProgress.Message != "" {
		lines = append(lines, s.lastProgress.Message)
	}
	if s.promptArmed {
		lines = append(lines, "Press any key for the next word")
	}
	return lines
}

func keyFeedback(k game.Kind) string {
	switch k {
	case game.KindSuccess:
		return "Caught!"
	case game.KindError:
		return "Not that letter yet"
	case game.KindMiss:
		return "Wrong key"
	default:
		return ""
	}
}

// WriteSummary writes the end-of-session report built from the ledger to w.
func (s *Session) WriteSummary(ctx context.Context, w io.Writer) error {
	if s.deps.Ledger == nil {
		_, err := fmt.Fprintf(w, "Rounds: %d  Level: %d\n", s.diff.CompletedWords, s.diff.Level())
		return err
	}
	rounds, err := s.deps.Ledger.ListRounds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rounds: %w", err)
	}
	totals, err := s.deps.Ledger.Totals(ctx)
	if err != nil {
		return fmt.Errorf("failed to total rounds: %w", err)
	}
	return stats.RenderSummary(w, rounds, totals, s.diff.Level())
}

// Score is the session score for the current level and completed rounds.
func (s *Session) Score() int {
	return stats.Score(difficulty.LevelFromWordLength(s.diff.CurrentWordLength, s.diff.MinWordLength), s.diff.CompletedWords)
}
