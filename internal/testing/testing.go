// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// FakeSink is an in-memory audio sink that behaves like a browser audio element:
// a fresh source starts paused at position zero, and Finish simulates the track ending.
type FakeSink struct {
	mu       sync.Mutex
	source   string
	sources  []string
	paused   bool
	ended    bool
	position time.Duration
	duration time.Duration
	volume   float64
	onEnded  func()
	plays    int

	PlayErr   error // returned by Play when set
	SourceErr error // returned by SetSource when set
}

// NewFakeSink returns a paused sink with no source at full volume.
func NewFakeSink() *FakeSink {
	return &FakeSink{paused: true, volume: 1}
}

func (f *FakeSink) SetSource(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SourceErr != nil {
		return f.SourceErr
	}
	f.source = url
	f.sources = append(f.sources, url)
	f.paused = true
	f.ended = false
	f.position = 0
	return nil
}

func (f *FakeSink) HasSource() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source != ""
}

func (f *FakeSink) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	if f.PlayErr != nil {
		return f.PlayErr
	}
	if f.ended {
		f.position = 0
	}
	f.paused = false
	f.ended = false
	return nil
}

func (f *FakeSink) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
}

func (f *FakeSink) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *FakeSink) Ended() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ended
}

func (f *FakeSink) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *FakeSink) Duration() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *FakeSink) SetPosition(d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = d
	return nil
}

func (f *FakeSink) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
}

func (f *FakeSink) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *FakeSink) OnEnded(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onEnded = fn
}

// Source returns the current source URL.
func (f *FakeSink) Source() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source
}

// Sources returns every source URL set so far, oldest first.
func (f *FakeSink) Sources() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sources...)
}

// Plays returns how many times Play was called.
func (f *FakeSink) Plays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

// SetDuration sets the duration reported for the current source.
func (f *FakeSink) SetDuration(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duration = d
}

// Advance moves the playhead forward by d.
func (f *FakeSink) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position += d
}

// Finish marks the track as ended and fires the registered end callback.
func (f *FakeSink) Finish() {
	f.mu.Lock()
	f.ended = true
	f.paused = true
	f.position = f.duration
	fn := f.onEnded
	f.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// StaticLoader serves fixed folder listings; unknown folders yield no tracks.
type StaticLoader struct {
	mu      sync.Mutex
	Folders map[string][]string
	calls   []string

	// Gate, when set for a folder, blocks Load for that folder until the channel is closed.
	Gate map[string]chan struct{}
}

// NewStaticLoader creates a StaticLoader from a folder → tracks map.
func NewStaticLoader(folders map[string][]string) *StaticLoader {
	return &StaticLoader{Folders: folders, Gate: map[string]chan struct{}{}}
}

func (s *StaticLoader) Load(ctx context.Context, folder string) []string {
	s.mu.Lock()
	s.calls = append(s.calls, folder)
	gate := s.Gate[folder]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return []string{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.Folders[folder]...)
}

// Calls returns the folders requested so far.
func (s *StaticLoader) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// EventRecorder collects events delivered to OnEvent.
type EventRecorder[E any] struct {
	mu     sync.Mutex
	events []E
}

func (r *EventRecorder[E]) OnEvent(e E) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns the recorded events, oldest first.
func (r *EventRecorder[E]) Events() []E {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]E(nil), r.events...)
}

// Reset drops everything recorded so far.
func (r *EventRecorder[E]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
