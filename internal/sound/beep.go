package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/verte-zerg/tuicatch/internal/cue"
)

const (
	sampleRate     = beep.SampleRate(44100)
	ladderBaseFreq = 440.0
	catchDuration  = 90 * time.Millisecond
	errorDuration  = 140 * time.Millisecond
	chimeDuration  = 320 * time.Millisecond
	sweepDuration  = 260 * time.Millisecond
	attack         = 5 * time.Millisecond
	release        = 40 * time.Millisecond
)

// BeepPlayer synthesizes cues and plays them through the speaker mixer.
type BeepPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	closed bool
}

// NewBeepPlayer initializes the speaker. volume is a linear gain in (0, 1].
func NewBeepPlayer(volume float64) (*BeepPlayer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, err
	}
	p := &BeepPlayer{mixer: &beep.Mixer{}, volume: volume}
	speaker.Play(p.mixer)
	return p, nil
}

// Play implements Player.
func (p *BeepPlayer) Play(c cue.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	s := Streamer(c, sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(withVolume(s, p.volume))
	speaker.Unlock()
}

// Close silences pending cues. Safe to call more than once.
func (p *BeepPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
}

// LadderFrequency returns the pitch of catch ladder step i, one semitone apart.
func LadderFrequency(i int) float64 {
	return ladderBaseFreq * math.Pow(2, float64(i)/12)
}

// Streamer builds the finite stream for a cue, or nil for CueNone and unknown cues.
func Streamer(c cue.Cue, rate beep.SampleRate) beep.Streamer {
	switch {
	case c.IsCatch():
		return tone(LadderFrequency(int(c)), catchDuration, rate)
	case c == cue.CueError:
		return tone(110, errorDuration, rate)
	case c == cue.CueComplete:
		return beep.Seq(
			tone(LadderFrequency(12), chimeDuration/2, rate),
			tone(LadderFrequency(19), chimeDuration/2, rate),
		)
	case c == cue.CueUpgrade:
		return beep.Seq(
			tone(LadderFrequency(7), sweepDuration/3, rate),
			tone(LadderFrequency(12), sweepDuration/3, rate),
			tone(LadderFrequency(19), sweepDuration/3, rate),
		)
	case c == cue.CueDowngrade:
		return beep.Seq(
			tone(LadderFrequency(7), sweepDuration/2, rate),
			tone(LadderFrequency(0), sweepDuration/2, rate),
		)
	case c == cue.CueSessionEnd:
		return beep.Mix(
			tone(LadderFrequency(0), chimeDuration, rate),
			tone(LadderFrequency(7), chimeDuration, rate),
		)
	default:
		return nil
	}
}

func tone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		src:     &sine{freq: freq, rate: rate, remaining: rate.N(d)},
		total:   rate.N(d),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

type sine struct {
	freq      float64
	phase     float64
	rate      beep.SampleRate
	remaining int
}

func (s *sine) Stream(samples [][2]float64) (int, bool) {
	if s.remaining <= 0 {
		return 0, false
	}
	n := len(samples)
	if n > s.remaining {
		n = s.remaining
	}
	for i := 0; i < n; i++ {
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = v
		samples[i][1] = v
		s.phase += s.freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
	}
	s.remaining -= n
	return n, true
}

func (s *sine) Err() error { return nil }

// envelope fades a stream in over attack samples and out over the last release samples.
type envelope struct {
	src     beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.src.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			gain = math.Min(gain, float64(left)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.src.Err() }
