// Package model defines shared data structures.
package model

import "time"

const (
	// BoardSize is the fixed number of slots on the scrolling board.
	BoardSize = 16
	// CatchLineIndex is the slot evaluated against keypresses.
	CatchLineIndex = 13
)

// Slot is a single occupied board cell.
type Slot struct {
	Char   rune
	Caught bool
}

// Board holds the scrolling slots. Index 0 is the spawn end; nil is an empty cell.
type Board [BoardSize]*Slot

// GameState is an immutable snapshot of a round in progress.
type GameState struct {
	Board         Board
	TypedProgress string
	ErrorCount    int
	MissedLetters int
	CatchCount    int
	TickCount     int
}

// Clone returns a copy whose board slots can be modified without touching s.
func (s GameState) Clone() GameState {
	out := s
	for i, slot := range s.Board {
		if slot == nil {
			continue
		}
		cp := *slot
		out.Board[i] = &cp
	}
	return out
}

// PerformanceStats summarizes a completed round.
type PerformanceStats struct {
	ErrorCount    int
	MissedLetters int
	IsPerfect     bool
}

// ProgressionType describes how the word length changed after a round.
type ProgressionType string

const (
	ProgressionUpgrade   ProgressionType = "upgrade"
	ProgressionStay      ProgressionType = "stay"
	ProgressionDowngrade ProgressionType = "downgrade"
)

// ProgressionResult is the outcome of the difficulty controller for one round.
type ProgressionResult struct {
	NewWordLength      int
	Type               ProgressionType
	Message            string
	ConsecutivePerfect int
}

// Config defines session settings.
type Config struct {
	Lang            string
	TickInterval    time.Duration
	Duration        time.Duration
	Adaptive        bool
	ShowCompletion  bool
	ShowProgression bool
	MinWordLength   int
	MaxWordLength   int
	StartWordLength int
	PerfectStreak   int
	CompletionDelay time.Duration
	Sound           bool
	WordListPath    string
}

// RoundRecord captures a completed round for the session ledger.
type RoundRecord struct {
	StartedAt     time.Time
	EndedAt       time.Time
	Word          string
	WordLength    int
	Level         int
	ErrorCount    int
	MissedLetters int
	CatchCount    int
	TickCount     int
	Progression   ProgressionType
}

// RoundTotals aggregates every round in the ledger.
type RoundTotals struct {
	Rounds        int
	Perfect       int
	ErrorCount    int
	MissedLetters int
	CatchCount    int
	MaxLevel      int
}
