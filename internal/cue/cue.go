// Package cue names the sound cues game events emit.
package cue

// CatchLadderSize is the number of rising pitches used for consecutive catches.
const CatchLadderSize = 30

// Cue identifies a sound to play. Values 0 to CatchLadderSize-1 are catch pitches.
type Cue int

// CueNone plays nothing.
const CueNone Cue = -1

const (
	CueError Cue = CatchLadderSize + iota
	CueComplete
	CueUpgrade
	CueDowngrade
	CueSessionEnd
)

// CatchCue returns the ladder cue for the given number of earlier catches in a round.
func CatchCue(catches int) Cue {
	if catches < 0 {
		catches = 0
	}
	if catches > CatchLadderSize-1 {
		catches = CatchLadderSize - 1
	}
	return Cue(catches)
}

// IsCatch reports whether c is a catch ladder cue.
func (c Cue) IsCatch() bool {
	return c >= 0 && c < CatchLadderSize
}

func (c Cue) String() string {
	switch {
	case c == CueNone:
		return "none"
	case c.IsCatch():
		return "catch"
	case c == CueError:
		return "error"
	case c == CueComplete:
		return "complete"
	case c == CueUpgrade:
		return "upgrade"
	case c == CueDowngrade:
		return "downgrade"
	case c == CueSessionEnd:
		return "session-end"
	default:
		return "unknown"
	}
}
