package session

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicatch/internal/cue"
	"github.com/verte-zerg/tuicatch/internal/game"
	"github.com/verte-zerg/tuicatch/internal/generator"
	"github.com/verte-zerg/tuicatch/internal/model"
	"github.com/verte-zerg/tuicatch/internal/store"
	"github.com/verte-zerg/tuicatch/internal/wordlist"
)

type recordingPlayer struct {
	cues []cue.Cue
}

func (p *recordingPlayer) Play(c cue.Cue) { p.cues = append(p.cues, c) }
func (p *recordingPlayer) Close()           {}

func (p *recordingPlayer) count(c cue.Cue) int {
	n := 0
	for _, got := range p.cues {
		if got == c {
			n++
		}
	}
	return n
}

var epoch = time.Unix(1700000000, 0)

func testConfig() model.Config {
	return model.Config{
		TickInterval:    100 * time.Millisecond,
		Adaptive:        true,
		MinWordLength:   3,
		MaxWordLength:   5,
		StartWordLength: 3,
		PerfectStreak:   1,
		CompletionDelay: 500 * time.Millisecond,
	}
}

func newTestSession(t *testing.T, cfg model.Config, words []string) (*Session, *recordingPlayer, *store.Store) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	player := &recordingPlayer{}
	s, err := New(cfg, Deps{
		Pool:   wordlist.BuildPool(words),
		Gen:    generator.NewSeeded(42),
		Sound:  player,
		Ledger: st,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, player, st
}

// playRound ticks and presses needed letters until the round completes.
func playRound(t *testing.T, s *Session, now time.Time) Request {
	t.Helper()
	for i := 0; i < 5000; i++ {
		slot := s.State().Board[model.CatchLineIndex]
		if slot != nil && !slot.Caught {
			if next, ok := game.NextExpected(s.State().TypedProgress, s.Target()); ok && slot.Char == next {
				req := s.Key(slot.Char, now)
				if s.Phase() == PhaseAwaitingContinue {
					return req
				}
				continue
			}
		}
		s.Tick(s.Gen(), now)
	}
	t.Fatalf("round did not complete")
	return Request{}
}

func TestStartBeginsRound(t *testing.T) {
	s, _, _ := newTestSession(t, testConfig(), []string{"cat"})
	req := s.Start(epoch)
	if s.Phase() != PhaseRunning || !req.Tick || req.Gen != s.Gen() {
		t.Fatalf("expected running with tick request, got %s %+v", s.Phase(), req)
	}
	if s.Target() != "cat" {
		t.Fatalf("unexpected target %q", s.Target())
	}
	if again := s.Start(epoch); again.Tick {
		t.Fatalf("second start must not arm another tick")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	s, _, _ := newTestSession(t, testConfig(), []string{"cat"})
	req := s.Start(epoch)
	stale := s.Tick(req.Gen-1, epoch)
	if stale.Tick || s.State().TickCount != 0 {
		t.Fatalf("stale tick should not advance the board")
	}
	next := s.Tick(req.Gen, epoch)
	if !next.Tick || s.State().TickCount != 1 {
		t.Fatalf("expected board to advance and re-arm")
	}
}

func TestCompletedRoundAwaitsTimeoutThenContinues(t *testing.T) {
	s, player, st := newTestSession(t, testConfig(), []string{"cat", "bird"})
	s.Start(epoch)
	req := playRound(t, s, epoch.Add(time.Second))
	if req.Timeout != 500*time.Millisecond || req.Tick {
		t.Fatalf("expected timeout request, got %+v", req)
	}
	if player.count(cue.CueComplete) != 1 {
		t.Fatalf("expected completion cue")
	}
	if got := s.Tick(req.Gen, epoch); got.Tick {
		t.Fatalf("ticks must not run while awaiting continue")
	}
	if got := s.Key('x', epoch); got.Tick || s.Phase() != PhaseAwaitingContinue {
		t.Fatalf("keys before the timeout must be ignored")
	}

	rounds, err := st.ListRounds(context.Background())
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 1 || rounds[0].Word != "cat" || rounds[0].Level != 1 {
		t.Fatalf("unexpected ledger: %+v", rounds)
	}

	next := s.Timeout(req.Gen, epoch.Add(2*time.Second))
	if s.Phase() != PhaseRunning || !next.Tick {
		t.Fatalf("expected next round to start, got %s %+v", s.Phase(), next)
	}
	if rounds[0].Progression == model.ProgressionUpgrade {
		if s.Target() != "bird" || player.count(cue.CueUpgrade) != 1 {
			t.Fatalf("expected upgrade to bird, got %q", s.Target())
		}
	}
}

func TestCompletionScreenWaitsForKey(t *testing.T) {
	cfg := testConfig()
	cfg.ShowCompletion = true
	cfg.ShowProgression = true
	s, _, _ := newTestSession(t, cfg, []string{"cat", "bird"})
	s.Start(epoch)
	req := playRound(t, s, epoch)

	if got := s.Timeout(req.Gen, epoch); got.Tick || s.Phase() != PhaseAwaitingContinue {
		t.Fatalf("timeout should arm the prompt only")
	}
	notice := strings.Join(s.Frame(epoch).Notice, "\n")
	for _, needle := range []string{"Word complete: CAT", "Press any key"} {
		if !strings.Contains(notice, needle) {
			t.Fatalf("notice missing %q: %s", needle, notice)
		}
	}
	if got := s.Key('z', epoch); !got.Tick || s.Phase() != PhaseRunning {
		t.Fatalf("key should start the next round")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s, player, _ := newTestSession(t, testConfig(), []string{"cat"})
	req := s.Start(epoch)
	if !s.Stop() {
		t.Fatalf("first stop should report true")
	}
	if s.Stop() {
		t.Fatalf("second stop should report false")
	}
	if player.count(cue.CueSessionEnd) != 1 {
		t.Fatalf("expected one session end cue, got %d", player.count(cue.CueSessionEnd))
	}
	if got := s.Tick(req.Gen, epoch); got.Tick {
		t.Fatalf("tick source must stay halted")
	}
	if got := s.Key('c', epoch); got.Tick {
		t.Fatalf("keys must be ignored after stop")
	}
	if s.Difficulty().CompletedWords != 0 {
		t.Fatalf("stop must not count rounds")
	}
}

func TestDurationEndsSession(t *testing.T) {
	cfg := testConfig()
	cfg.Duration = time.Minute
	s, _, _ := newTestSession(t, cfg, []string{"cat"})
	req := s.Start(epoch)
	if got := s.Tick(req.Gen, epoch.Add(30*time.Second)); !got.Tick {
		t.Fatalf("session should still run")
	}
	if rem := s.Frame(epoch.Add(30 * time.Second)).Remaining; rem != 30*time.Second {
		t.Fatalf("unexpected remaining time %v", rem)
	}
	got := s.Tick(req.Gen, epoch.Add(time.Minute))
	if !got.Stopped || s.Phase() != PhaseStopped {
		t.Fatalf("expected session to stop, got %+v", got)
	}
	if s.EndReason() != "time is up" {
		t.Fatalf("unexpected end reason %q", s.EndReason())
	}
}

func TestDurationEndsSessionDuringPrompt(t *testing.T) {
	cfg := testConfig()
	cfg.Duration = time.Minute
	cfg.ShowCompletion = true
	s, _, _ := newTestSession(t, cfg, []string{"cat", "bird"})
	s.Start(epoch)
	req := playRound(t, s, epoch.Add(10*time.Second))

	armed := s.Timeout(req.Gen, epoch.Add(20*time.Second))
	if s.Phase() != PhaseAwaitingContinue || armed.Timeout != 40*time.Second {
		t.Fatalf("expected prompt with expiry timeout, got %s %+v", s.Phase(), armed)
	}
	got := s.Timeout(armed.Gen, epoch.Add(time.Minute))
	if !got.Stopped || s.Phase() != PhaseStopped || s.EndReason() != "time is up" {
		t.Fatalf("expected session to stop at expiry, got %s %+v", s.Phase(), got)
	}
}

func TestNoWordsStopsSession(t *testing.T) {
	s, _, _ := newTestSession(t, testConfig(), []string{"elephant"})
	req := s.Start(epoch)
	if !req.Stopped || s.Phase() != PhaseStopped {
		t.Fatalf("expected stop when no word fits the bounds")
	}
	if !strings.Contains(s.EndReason(), "no words") {
		t.Fatalf("unexpected end reason %q", s.EndReason())
	}
}

func TestNearestLengthFallback(t *testing.T) {
	s, _, _ := newTestSession(t, testConfig(), []string{"bird"})
	s.Start(epoch)
	if s.Target() != "bird" {
		t.Fatalf("expected fallback to a 4-letter word, got %q", s.Target())
	}
}

func TestEventsIgnoredWhileIdle(t *testing.T) {
	s, _, _ := newTestSession(t, testConfig(), []string{"cat"})
	if got := s.Key('c', epoch); got.Tick || s.Phase() != PhaseIdle {
		t.Fatalf("idle session must ignore keys")
	}
	if got := s.Tick(0, epoch); got.Tick {
		t.Fatalf("idle session must ignore ticks")
	}
}

func TestFrameRows(t *testing.T) {
	s, _, _ := newTestSession(t, testConfig(), []string{"cat"})
	s.Start(epoch)
	f := s.Frame(epoch)
	if len(f.Rows) != model.BoardSize || !f.Rows[model.CatchLineIndex].CatchLine {
		t.Fatalf("unexpected rows: %+v", f.Rows)
	}
	if f.Target != "cat" || f.Typed != "" {
		t.Fatalf("unexpected progress: %q/%q", f.Typed, f.Target)
	}
}

func TestSummaryFromLedger(t *testing.T) {
	s, _, _ := newTestSession(t, testConfig(), []string{"cat", "bird"})
	s.Start(epoch)
	playRound(t, s, epoch)
	s.Stop()
	var buf bytes.Buffer
	if err := s.WriteSummary(context.Background(), &buf); err != nil {
		t.Fatalf("summary: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Rounds: 1") || !strings.Contains(out, "cat") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TickInterval = 0
	if _, err := New(cfg, Deps{}); err == nil {
		t.Fatalf("expected error for zero tick interval")
	}
	cfg = testConfig()
	cfg.MaxWordLength = 1
	if _, err := New(cfg, Deps{}); err == nil {
		t.Fatalf("expected error for bad bounds")
	}
	cfg = testConfig()
	cfg.CompletionDelay = 0
	if _, err := New(cfg, Deps{}); err == nil {
		t.Fatalf("expected error for zero completion delay")
	}
}

func TestSessionDoesNotLinkAudioBackend(t *testing.T) {
	pkgs, err := parser.ParseDir(token.NewFileSet(), ".", func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ImportsOnly)
	if err != nil {
		t.Fatalf("parse package: %v", err)
	}
	for _, pkg := range pkgs {
		for name, file := range pkg.Files {
			for _, imp := range file.Imports {
				if strings.HasSuffix(strings.Trim(imp.Path.Value, `"`), "/internal/sound") {
					t.Fatalf("%s imports the audio backend", name)
				}
			}
		}
	}
}

func TestNewDefaultsToSilentPlayer(t *testing.T) {
	s, err := New(testConfig(), Deps{Pool: wordlist.BuildPool([]string{"cat"})})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Start(epoch)
	if !s.Stop() {
		t.Fatalf("expected stop without a player")
	}
}
