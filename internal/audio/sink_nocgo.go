//go:build !((linux && cgo) || windows || darwin)

package audio

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
)

// Available reports whether this build can drive the speaker.
// Linux builds need cgo for the native sound libraries.
const Available = false

// Sink decodes sources and keeps time on the wall clock without producing sound.
type Sink struct {
	mu sync.Mutex

	client  *http.Client
	logger  *log.Logger
	timeout time.Duration

	source    string
	format    beep.Format
	length    int
	offset    time.Duration // position when the clock last stopped
	startedAt time.Time     // zero while paused
	ended     bool
	level     float64
	onEnded   func()

	timer      *time.Timer
	playbackID uint64
}

// NewSink creates a silent [Sink].
func NewSink(opts SinkOpts) *Sink {
	opts.defaults()
	opts.Logger.Warn("audio output unavailable in this build; playback is silent")
	return &Sink{client: opts.HTTPClient, logger: opts.Logger, timeout: opts.Timeout, level: 1}
}

// SetSource replaces the current source with src, paused at position zero.
func (s *Sink) SetSource(src string) error {
	streamer, format, err := load(s.client, s.timeout, src)
	if err != nil {
		return err
	}
	length := streamer.Len()
	streamer.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopClockLocked()
	s.source = src
	s.format = format
	s.length = length
	s.offset = 0
	s.ended = false
	return nil
}

func (s *Sink) durationLocked() time.Duration {
	if s.source == "" {
		return 0
	}
	return s.format.SampleRate.D(s.length)
}

func (s *Sink) positionLocked() time.Duration {
	pos := s.offset
	if !s.startedAt.IsZero() {
		pos += time.Since(s.startedAt)
	}
	return min(pos, s.durationLocked())
}

// stopClockLocked freezes the position and disarms the end timer.
func (s *Sink) stopClockLocked() {
	s.offset = s.positionLocked()
	s.startedAt = time.Time{}
	s.playbackID++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Sink) startClockLocked() {
	s.stopClockLocked()
	s.startedAt = time.Now()

	id := s.playbackID
	s.timer = time.AfterFunc(s.durationLocked()-s.offset, func() { s.finished(id) })
}

func (s *Sink) finished(id uint64) {
	s.mu.Lock()
	if id != s.playbackID {
		s.mu.Unlock()
		return
	}
	s.offset = s.durationLocked()
	s.startedAt = time.Time{}
	s.timer = nil
	s.ended = true
	fn := s.onEnded
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (s *Sink) HasSource() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source != ""
}

// Play starts or resumes the clock. An ended source restarts from the beginning.
func (s *Sink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return errors.New("no source")
	}
	if s.ended {
		s.offset = 0
		s.ended = false
	}
	if s.startedAt.IsZero() {
		s.startClockLocked()
	}
	return nil
}

func (s *Sink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopClockLocked()
}

func (s *Sink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt.IsZero()
}

func (s *Sink) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Sink) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Sink) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durationLocked()
}

// SetPosition moves the clock to d, clamped to the source, keeping the transport state.
func (s *Sink) SetPosition(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return nil
	}

	playing := !s.startedAt.IsZero()
	s.stopClockLocked()
	s.offset = max(0, min(d, s.durationLocked()))
	s.ended = false
	if playing {
		s.startClockLocked()
	}
	return nil
}

func (s *Sink) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = v
}

func (s *Sink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *Sink) OnEnded(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnded = fn
}

// Close releases the current source.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopClockLocked()
	s.source = ""
	s.offset = 0
	return nil
}
