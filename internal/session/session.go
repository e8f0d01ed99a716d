// Package session drives rounds: it owns the game state and dispatches tick,
// key and timeout events through an explicit phase machine.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuicatch/internal/cue"
	"github.com/verte-zerg/tuicatch/internal/difficulty"
	"github.com/verte-zerg/tuicatch/internal/game"
	"github.com/verte-zerg/tuicatch/internal/generator"
	"github.com/verte-zerg/tuicatch/internal/model"
	"github.com/verte-zerg/tuicatch/internal/stats"
	"github.com/verte-zerg/tuicatch/internal/wordlist"
)

// Phase is the scheduler state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseAwaitingContinue
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseAwaitingContinue:
		return "awaiting-continue"
	case PhaseStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Ledger records finished rounds and reports on them.
type Ledger interface {
	InsertRound(ctx context.Context, r model.RoundRecord) (int64, error)
	ListRounds(ctx context.Context) ([]model.RoundRecord, error)
	Totals(ctx context.Context) (model.RoundTotals, error)
}

// Player plays cues without blocking.
type Player interface {
	Play(cue.Cue)
}

type silentPlayer struct{}

func (silentPlayer) Play(cue.Cue) {}

// Deps are the collaborators of a session.
type Deps struct {
	Pool   wordlist.Pool
	Gen    *generator.Generator
	Sound  Player
	Ledger Ledger
	Logger zerolog.Logger
}

// Request tells the caller which timers to arm after an event.
type Request struct {
	// Tick asks for the next tick event tagged with Gen after the tick interval.
	Tick bool
	// Timeout asks for a timeout event tagged with Gen after this delay.
	Timeout time.Duration
	Gen     int
	// Stopped reports that the session ended during this event.
	Stopped bool
}

// Session is one play session spanning many rounds.
type Session struct {
	cfg    model.Config
	policy difficulty.Policy
	deps   Deps

	phase     Phase
	gen       int
	startedAt time.Time

	diff           difficulty.State
	target         string
	state          model.GameState
	bag            []rune
	roundStartedAt time.Time
	round          int

	lastKind     game.Kind
	promptArmed  bool
	lastFeedback stats.Category
	lastProgress model.ProgressionResult
	endReason    string
}

// New builds an idle session.
func New(cfg model.Config, deps Deps) (*Session, error) {
	policy := difficulty.Policy{
		MinWordLength:         cfg.MinWordLength,
		MaxWordLength:         cfg.MaxWordLength,
		PerfectStreakRequired: cfg.PerfectStreak,
		Adaptive:              cfg.Adaptive,
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be > 0")
	}
	if cfg.CompletionDelay <= 0 {
		return nil, fmt.Errorf("completion delay must be > 0")
	}
	if deps.Gen == nil {
		deps.Gen = generator.New()
	}
	if deps.Sound == nil {
		deps.Sound = silentPlayer{}
	}
	return &Session{
		cfg:    cfg,
		policy: policy,
		deps:   deps,
		diff:   difficulty.NewState(policy, cfg.StartWordLength),
	}, nil
}

// Phase returns the current scheduler phase.
func (s *Session) Phase() Phase { return s.phase }

// Gen returns the current timer generation.
func (s *Session) Gen() int { return s.gen }

// Target returns the word of the current round.
func (s *Session) Target() string { return s.target }

// State returns the current round snapshot.
func (s *Session) State() model.GameState { return s.state }

// Difficulty returns the session difficulty state.
func (s *Session) Difficulty() difficulty.State { return s.diff }

// EndReason explains why the session stopped, if it did.
func (s *Session) EndReason() string { return s.endReason }

// Start begins the first round.
func (s *Session) Start(now time.Time) Request {
	if s.phase != PhaseIdle {
		return Request{Gen: s.gen}
	}
	s.startedAt = now
	s.deps.Logger.Info().
		Int("length", s.diff.CurrentWordLength).
		Bool("adaptive", s.policy.Adaptive).
		Msg("session started")
	return s.beginRound(now)
}

// Tick advances the board when gen matches the running round.
func (s *Session) Tick(gen int, now time.Time) Request {
	if s.phase != PhaseRunning || gen != s.gen {
		return Request{Gen: s.gen}
	}
	if s.expired(now) {
		return s.stop("time is up")
	}
	s.state = game.AdvanceTick(s.state, s.deps.Gen.Spawn(s.bag), s.target)
	return Request{Tick: true, Gen: s.gen}
}

// Key resolves a pressed rune. Control keys must be filtered by the caller.
func (s *Session) Key(r rune, now time.Time) Request {
	switch s.phase {
	case PhaseRunning:
		return s.resolve(r, now)
	case PhaseAwaitingContinue:
		if !s.promptArmed {
			return Request{Gen: s.gen}
		}
		return s.continueRound(now)
	default:
		return Request{Gen: s.gen}
	}
}

// Timeout ends the pause after a completed round. While the prompt waits for
// a key in a timed session it also fires when the session time runs out.
func (s *Session) Timeout(gen int, now time.Time) Request {
	if s.phase != PhaseAwaitingContinue || gen != s.gen {
		return Request{Gen: s.gen}
	}
	if s.expired(now) {
		return s.stop("time is up")
	}
	if s.promptArmed {
		return s.expiryRequest(now)
	}
	if s.cfg.ShowCompletion || s.cfg.ShowProgression {
		s.promptArmed = true
		return s.expiryRequest(now)
	}
	return s.continueRound(now)
}

// expiryRequest asks for a timeout at the end of a timed session.
func (s *Session) expiryRequest(now time.Time) Request {
	if s.cfg.Duration <= 0 {
		return Request{Gen: s.gen}
	}
	return Request{Timeout: s.cfg.Duration - now.Sub(s.startedAt), Gen: s.gen}
}

// Stop ends the session. It reports false when the session had already stopped.
func (s *Session) Stop() bool {
	if s.phase == PhaseStopped {
		return false
	}
	s.stop("stopped")
	return true
}

func (s *Session) stop(reason string) Request {
	s.phase = PhaseStopped
	s.gen++
	s.endReason = reason
	s.deps.Sound.Play(cue.CueSessionEnd)
	s.deps.Logger.Info().
		Str("reason", reason).
		Int("rounds", s.diff.CompletedWords).
		Int("level", s.diff.Level()).
		Msg("session stopped")
	return Request{Gen: s.gen, Stopped: true}
}

func (s *Session) expired(now time.Time) bool {
	return s.cfg.Duration > 0 && now.Sub(s.startedAt) >= s.cfg.Duration
}

func (s *Session) beginRound(now time.Time) Request {
	word, ok := s.selectWord()
	if !ok {
		return s.stop(fmt.Sprintf("no words between %d and %d letters", s.diff.MinWordLength, s.diff.MaxWordLength))
	}
	s.round++
	s.target = word
	s.state = game.NewState()
	s.bag = generator.GenerateBag(s.state.TypedProgress, s.target)
	s.roundStartedAt = now
	s.lastKind = game.KindEmpty
	s.promptArmed = false
	s.phase = PhaseRunning
	s.gen++
	s.deps.Logger.Debug().Int("round", s.round).Str("word", word).Msg("round started")
	return Request{Tick: true, Gen: s.gen}
}

// selectWord picks a word at the current length, falling back to the nearest
// length inside the bounds that has words.
func (s *Session) selectWord() (string, bool) {
	cur := s.diff.CurrentWordLength
	if word, ok := s.deps.Pool.Select(s.deps.Gen, cur, s.diff.UsedWords); ok {
		return word, true
	}
	span := s.diff.MaxWordLength - s.diff.MinWordLength
	for d := 1; d <= span; d++ {
		for _, n := range []int{cur - d, cur + d} {
			if n < s.diff.MinWordLength || n > s.diff.MaxWordLength {
				continue
			}
			if word, ok := s.deps.Pool.Select(s.deps.Gen, n, s.diff.UsedWords); ok {
				s.deps.Logger.Warn().Int("wanted", cur).Int("used", n).Msg("no words at length, using nearest")
				return word, true
			}
		}
	}
	return "", false
}

func (s *Session) resolve(r rune, now time.Time) Request {
	res := game.Resolve(r, s.state, s.target)
	s.state = res.State
	s.lastKind = res.Kind
	s.deps.Sound.Play(res.Cue)
	if res.Kind != game.KindSuccess {
		return Request{Gen: s.gen}
	}
	s.bag = generator.GenerateBag(s.state.TypedProgress, s.target)
	if !res.IsComplete {
		return Request{Gen: s.gen}
	}
	return s.completeRound(now)
}

func (s *Session) completeRound(now time.Time) Request {
	perf := stats.Classify(s.state.ErrorCount, s.state.MissedLetters)
	level := s.diff.Level()
	s.diff, s.lastProgress = difficulty.Apply(s.diff, perf, s.target, s.policy)
	s.lastFeedback = stats.Feedback(perf)

	record := model.RoundRecord{
		StartedAt:     s.roundStartedAt,
		EndedAt:       now,
		Word:          s.target,
		WordLength:    len([]rune(s.target)),
		Level:         level,
		ErrorCount:    s.state.ErrorCount,
		MissedLetters: s.state.MissedLetters,
		CatchCount:    s.state.CatchCount,
		TickCount:     s.state.TickCount,
		Progression:   s.lastProgress.Type,
	}
	if s.deps.Ledger != nil {
		if _, err := s.deps.Ledger.InsertRound(context.Background(), record); err != nil {
			s.deps.Logger.Error().Err(err).Msg("failed to record round")
		}
	}
	s.deps.Logger.Debug().
		Str("word", s.target).
		Int("errors", perf.ErrorCount).
		Int("missed", perf.MissedLetters).
		Str("progression", string(s.lastProgress.Type)).
		Msg("round complete")

	s.deps.Sound.Play(cue.CueComplete)
	s.phase = PhaseAwaitingContinue
	s.promptArmed = false
	s.gen++
	return Request{Timeout: s.cfg.CompletionDelay, Gen: s.gen}
}

func (s *Session) continueRound(now time.Time) Request {
	if s.expired(now) {
		return s.stop("time is up")
	}
	switch s.lastProgress.Type {
	case model.ProgressionUpgrade:
		s.deps.Sound.Play(cue.CueUpgrade)
	case model.ProgressionDowngrade:
		s.deps.Sound.Play(cue.CueDowngrade)
	}
	return s.beginRound(now)
}
