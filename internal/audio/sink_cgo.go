//go:build (linux && cgo) || windows || darwin

package audio

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// Available reports whether this build can drive the speaker.
const Available = true

// Sink plays one source at a time on the default output device.
type Sink struct {
	mu sync.Mutex

	client  *http.Client
	logger  *log.Logger
	timeout time.Duration

	initialized bool
	source      string
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	vol         *effects.Volume
	level       float64
	ended       bool
	playbackID  uint64
	onEnded     func()
}

// NewSink creates a [Sink]. The speaker is opened on the first source.
func NewSink(opts SinkOpts) *Sink {
	opts.defaults()
	return &Sink{client: opts.HTTPClient, logger: opts.Logger, timeout: opts.Timeout, level: 1}
}

func (s *Sink) initSpeaker() error {
	if s.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to open speaker: %w", err)
	}
	s.initialized = true
	return nil
}

// SetSource replaces the current source with src, paused at position zero.
func (s *Sink) SetSource(src string) error {
	streamer, format, err := load(s.client, s.timeout, src)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	if err := s.initSpeaker(); err != nil {
		streamer.Close()
		return err
	}

	s.source = src
	s.streamer = streamer
	s.format = format
	s.ended = false
	s.queueLocked(true)

	s.logger.Debug("source loaded", "src", src, "rate", format.SampleRate, "duration", format.SampleRate.D(streamer.Len()))
	return nil
}

// queueLocked puts the current streamer on the speaker behind fresh pause and volume controls.
func (s *Sink) queueLocked(paused bool) {
	s.playbackID++
	id := s.playbackID

	resampled := beep.Resample(4, s.format.SampleRate, SampleRate, s.streamer)
	s.ctrl = &beep.Ctrl{Streamer: resampled, Paused: paused}
	s.vol = &effects.Volume{Streamer: s.ctrl}
	gain(s.vol, s.level)

	speaker.Play(beep.Seq(s.vol, beep.Callback(func() {
		// runs on the speaker goroutine with the speaker locked
		go s.finished(id)
	})))
}

func (s *Sink) finished(id uint64) {
	s.mu.Lock()
	if id != s.playbackID || s.streamer == nil {
		s.mu.Unlock()
		return
	}
	s.ended = true
	fn := s.onEnded
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (s *Sink) stopLocked() {
	if s.initialized {
		speaker.Clear()
	}
	if s.streamer != nil {
		s.streamer.Close()
	}
	s.playbackID++
	s.source = ""
	s.streamer = nil
	s.ctrl = nil
	s.vol = nil
	s.ended = false
}

func (s *Sink) HasSource() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source != ""
}

// Play starts or resumes the source. An ended source restarts from the beginning.
func (s *Sink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return errors.New("no source")
	}

	if s.ended {
		speaker.Lock()
		err := s.streamer.Seek(0)
		speaker.Unlock()
		if err != nil {
			return fmt.Errorf("failed to rewind: %w", err)
		}
		s.ended = false
		s.queueLocked(false)
		return nil
	}

	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (s *Sink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (s *Sink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl == nil || s.ended {
		return true
	}
	speaker.Lock()
	defer speaker.Unlock()
	return s.ctrl.Paused
}

func (s *Sink) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Sink) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := s.streamer.Position()
	speaker.Unlock()
	return s.format.SampleRate.D(pos)
}

func (s *Sink) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return 0
	}
	return s.format.SampleRate.D(s.streamer.Len())
}

func (s *Sink) SetPosition(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return nil
	}

	speaker.Lock()
	defer speaker.Unlock()
	n := min(max(s.format.SampleRate.N(d), 0), s.streamer.Len())
	return s.streamer.Seek(n)
}

func (s *Sink) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = v
	if s.vol != nil {
		speaker.Lock()
		gain(s.vol, v)
		speaker.Unlock()
	}
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

// Close stops playback and releases the current source.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}
