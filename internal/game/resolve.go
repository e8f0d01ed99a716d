package game

import (
	"github.com/verte-zerg/tuicatch/internal/cue"
	"github.com/verte-zerg/tuicatch/internal/model"
)

// Kind classifies a keypress.
type Kind int

const (
	// KindEmpty means no letter sat on the catch line.
	KindEmpty Kind = iota
	// KindSuccess means the pressed key caught the next needed letter.
	KindSuccess
	// KindError means the key matched the catch-line letter but it was not needed yet.
	KindError
	// KindMiss means the key did not match the catch-line letter.
	KindMiss
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindMiss:
		return "miss"
	default:
		return "empty"
	}
}

// Resolution is the result of resolving one keypress.
type Resolution struct {
	State      model.GameState
	Kind       Kind
	IsComplete bool
	Cue        cue.Cue
}

// Resolve classifies pressed against the catch-line slot and the target progress.
func Resolve(pressed rune, state model.GameState, target string) Resolution {
	slot := state.Board[model.CatchLineIndex]
	if slot == nil {
		return Resolution{State: state, Kind: KindEmpty, Cue: cue.CueNone}
	}

	if !sameLetter(pressed, slot.Char) {
		next := state.Clone()
		next.ErrorCount++
		return Resolution{State: next, Kind: KindMiss, Cue: cue.CueError}
	}

	expected, ok := NextExpected(state.TypedProgress, target)
	if !ok || !sameLetter(slot.Char, expected) {
		next := state.Clone()
		next.ErrorCount++
		return Resolution{State: next, Kind: KindError, Cue: cue.CueError}
	}

	tone := cue.CatchCue(state.CatchCount)
	next := state.Clone()
	next.Board[model.CatchLineIndex].Caught = true
	next.TypedProgress += string(expected)
	next.CatchCount++
	return Resolution{
		State:      next,
		Kind:       KindSuccess,
		IsComplete: next.TypedProgress == target,
		Cue:        tone,
	}
}
