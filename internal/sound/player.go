// Package sound plays short fire-and-forget cues for game events.
package sound

import "github.com/verte-zerg/tuicatch/internal/cue"

// Player plays cues. Implementations never block the caller and ignore failures.
type Player interface {
	Play(cue.Cue)
	Close()
}

// Nop is a Player that discards every cue.
type Nop struct{}

// Play implements Player.
func (Nop) Play(cue.Cue) {}

// Close implements Player.
func (Nop) Close() {}
