// Package game implements the board tick engine and keypress resolution.
package game

import (
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/tuicatch/internal/model"
)

// NewBoard returns a board with every cell empty.
func NewBoard() model.Board {
	return model.Board{}
}

// NewState returns the starting state of a round: an empty board and no progress.
func NewState() model.GameState {
	return model.GameState{Board: NewBoard()}
}

// AdvanceTick scrolls the board by one slot, spawning spawned at the head.
//
// A letter still waiting at the catch line that is the next one the target
// needs is counted as missed before it scrolls past. A blank spawn leaves the
// head cell empty.
func AdvanceTick(state model.GameState, spawned rune, target string) model.GameState {
	next := state.Clone()

	if slot := state.Board[model.CatchLineIndex]; slot != nil && !slot.Caught {
		if expected, ok := NextExpected(state.TypedProgress, target); ok && sameLetter(slot.Char, expected) {
			next.MissedLetters++
		}
	}

	copy(next.Board[1:], next.Board[:model.BoardSize-1])
	next.Board[0] = nil
	if spawned != ' ' && spawned != 0 {
		next.Board[0] = &model.Slot{Char: spawned}
	}
	next.TickCount++
	return next
}

// NextExpected returns the target rune following typed, if any remains.
func NextExpected(typed, target string) (rune, bool) {
	n := utf8.RuneCountInString(typed)
	runes := []rune(target)
	if n >= len(runes) {
		return 0, false
	}
	return runes[n], true
}

func sameLetter(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}
