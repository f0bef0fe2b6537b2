package player

import (
	"math/rand/v2"
	"time"
)

// Sink is a single audio output channel.
//
// A new source starts paused at position zero; Play starts it. OnEnded registers the callback fired when the
// current source plays to its natural end. Implementations must not invoke it while holding locks the controller
// could wait on.
type Sink interface {
	SetSource(url string) error
	HasSource() bool
	Play() error
	Pause()
	Paused() bool
	Ended() bool
	Position() time.Duration
	Duration() time.Duration
	SetPosition(d time.Duration) error
	SetVolume(v float64)
	Volume() float64
	OnEnded(fn func())
}

// Rand picks shuffle indices. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }
