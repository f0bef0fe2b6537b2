package player

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/shared"
)

const (
	// DefaultVolume is the initial level and the initial last non-zero level.
	DefaultVolume = 0.75
	// MuteThreshold is the level at or below which the sink counts as muted.
	MuteThreshold = 0.01
)

// ErrSuperseded is returned by [Controller.SelectFolder] when a newer selection replaced it before it completed.
var ErrSuperseded = errors.New("folder selection superseded")

// State is the coarse playback state.
type State int

const (
	Idle State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

// ControllerOpts configures a [Controller]. Sink and Loader are required.
type ControllerOpts struct {
	Sink          Sink
	Loader        library.Loader
	Artists       *library.Artists
	BaseURL       string // prefix for track URLs; empty keeps them server-relative
	Logger        *log.Logger
	Rand          Rand
	InitialVolume float64 // zero selects DefaultVolume
	AutoplayDelay time.Duration
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Folder   string
	Artist   string
	Tracks   []string
	Index    int
	Track    string
	Random   bool
	State    State
	Volume   float64
	Muted    bool
	Position time.Duration
	Duration time.Duration
}

// Controller is the playback state machine for one sink.
type Controller struct {
	mu sync.Mutex

	// loadMu serialises sink loads, which run without mu held.
	loadMu sync.Mutex

	sink          Sink
	loader        library.Loader
	artists       *library.Artists
	baseURL       string
	logger        *log.Logger
	rand          Rand
	autoplayDelay time.Duration

	folder     string
	tracks     []string
	index      int
	random     bool
	volume     float64
	lastVolume float64
	generation uint64
	playID     uint64

	listeners []Listener
}

// NewController creates a [Controller], applies the initial volume to the sink and registers for its
// end-of-track notification.
func NewController(opts ControllerOpts) (*Controller, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("%w: sink is required", shared.ErrInvalidInput)
	}
	if opts.Loader == nil {
		return nil, fmt.Errorf("%w: loader is required", shared.ErrInvalidInput)
	}
	if opts.Artists == nil {
		opts.Artists = library.DefaultArtists()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Rand == nil {
		opts.Rand = globalRand{}
	}

	volume := DefaultVolume
	if opts.InitialVolume > 0 {
		volume = clamp(opts.InitialVolume, 0, 1)
	}
	last := volume
	if last <= MuteThreshold {
		last = DefaultVolume
	}

	c := &Controller{
		sink:          opts.Sink,
		loader:        opts.Loader,
		artists:       opts.Artists,
		baseURL:       opts.BaseURL,
		logger:        opts.Logger,
		rand:          opts.Rand,
		autoplayDelay: opts.AutoplayDelay,
		index:         -1,
		volume:        volume,
		lastVolume:    last,
	}

	c.sink.SetVolume(volume)
	c.sink.OnEnded(func() {
		if err := c.Ended(); err != nil {
			c.logger.Debug("auto-advance failed", "err", err)
		}
	})
	return c, nil
}

// Subscribe adds a listener. Listeners are called in subscription order.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Controller) emit(events []Event) {
	if len(events) == 0 {
		return
	}

	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, e := range events {
		for _, l := range listeners {
			l.OnEvent(e)
		}
	}
}

// SelectFolder replaces the track list with the listing of folder and plays its first track.
//
// The index resets to -1. A folder with no tracks publishes an empty [TrackList] event and makes no playback attempt.
// Otherwise the first track starts after the configured autoplay delay. If another selection starts before this one
// completes, this one returns [ErrSuperseded] without changing state. An empty folder name is a no-op.
func (c *Controller) SelectFolder(ctx context.Context, folder string) error {
	return c.SelectFolderAt(ctx, folder, 0, false)
}

// SelectFolderAt is [Controller.SelectFolder] starting at index instead of the first track. With random set a
// uniformly random track starts and index is ignored. An index outside the listing starts the first track.
func (c *Controller) SelectFolderAt(ctx context.Context, folder string, index int, random bool) error {
	if folder == "" {
		return nil
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	tracks := c.loader.Load(ctx, folder)
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale listing", "folder", folder)
		return ErrSuperseded
	}
	c.folder = folder
	c.tracks = slices.Clone(tracks)
	if c.tracks == nil {
		c.tracks = []string{}
	}
	c.index = -1
	c.random = false
	c.playID++
	listed := Event{
		Kind:   TrackList,
		Folder: folder,
		Tracks: slices.Clone(c.tracks),
		Artist: c.artists.Resolve(folder),
		Index:  -1,
	}
	c.mu.Unlock()

	c.logger.Info("loaded songs", "folder", folder, "count", len(tracks))
	c.emit([]Event{listed})

	if len(tracks) == 0 {
		return nil
	}

	if c.autoplayDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.autoplayDelay):
		}
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if random {
		index = c.rand.IntN(len(c.tracks))
	} else if index < 0 || index >= len(c.tracks) {
		index = 0
	}
	req, ok := c.chooseLocked(index, random)
	c.mu.Unlock()

	return c.start(req, ok)
}

// Play starts the track at index. Random marks a shuffle-started track in the now-playing display.
//
// It is a no-op when no folder is selected or index is outside the track list. A sink failure is logged and returned
// wrapped in [shared.ErrPlaybackFailed]; the index has already moved and no other track is tried.
func (c *Controller) Play(index int, random bool) error {
	c.mu.Lock()
	req, ok := c.chooseLocked(index, random)
	c.mu.Unlock()

	return c.start(req, ok)
}

// playRequest is a track chosen under mu and loaded into the sink without it.
type playRequest struct {
	id     uint64
	folder string
	index  int
	track  string
	random bool
}

// chooseLocked moves the index to the requested track. It reports false when there is nothing to play.
func (c *Controller) chooseLocked(index int, random bool) (playRequest, bool) {
	if c.folder == "" || index < 0 || index >= len(c.tracks) {
		return playRequest{}, false
	}

	c.index = index
	c.random = random
	c.playID++
	return playRequest{id: c.playID, folder: c.folder, index: index, track: c.tracks[index], random: random}, true
}

func (c *Controller) current(req playRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return req.id == c.playID
}

// start loads req into the sink and publishes the now-playing events. Fetching a source can take as long as a
// download, so mu is released meanwhile and the volume keys stay responsive. A request overtaken by a newer one
// publishes nothing and returns nil.
func (c *Controller) start(req playRequest, ok bool) error {
	if !ok {
		return nil
	}

	c.loadMu.Lock()
	if !c.current(req) {
		c.loadMu.Unlock()
		return nil
	}
	err := c.sink.SetSource(library.TrackURL(c.baseURL, req.folder, req.track))
	if err == nil {
		err = c.sink.Play()
	}
	c.loadMu.Unlock()

	c.mu.Lock()
	if req.id != c.playID {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded track", "folder", req.folder, "track", req.track)
		return nil
	}
	events := []Event{
		{
			Kind:   NowPlaying,
			Folder: req.folder,
			Artist: c.artists.Resolve(req.folder),
			Index:  req.index,
			Track:  req.track,
			Title:  library.Title(req.track),
			Random: req.random,
		},
		{Kind: Highlight, Index: req.index, Track: req.track},
		c.transportLocked(),
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("playback failed", "folder", req.folder, "track", req.track, "err", err)
		err = fmt.Errorf("%w: %s: %v", shared.ErrPlaybackFailed, req.track, err)
	}

	c.emit(events)
	return err
}

func (c *Controller) transportLocked() Event {
	return Event{Kind: Transport, Playing: c.sink.HasSource() && !c.sink.Paused() && !c.sink.Ended()}
}

// TogglePlayPause pauses or resumes the current track.
//
// When the sink has no source, has ended, or sits at position zero, it instead plays a uniformly random track
// (shuffle-start). With no tracks loaded that case is a no-op.
func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()

	var (
		events []Event
		err    error
	)
	switch {
	case !c.sink.HasSource() || c.sink.Ended() || c.sink.Position() == 0:
		if len(c.tracks) == 0 {
			c.mu.Unlock()
			return nil
		}
		req, ok := c.chooseLocked(c.rand.IntN(len(c.tracks)), true)
		c.mu.Unlock()
		return c.start(req, ok)
	case c.sink.Paused():
		if err = c.sink.Play(); err != nil {
			c.logger.Error("resume failed", "folder", c.folder, "err", err)
			err = fmt.Errorf("%w: %v", shared.ErrPlaybackFailed, err)
		}
		events = []Event{c.transportLocked()}
	default:
		c.sink.Pause()
		events = []Event{c.transportLocked()}
	}
	c.mu.Unlock()

	c.emit(events)
	return err
}

// Previous plays the track before the current one, wrapping to the last track from index 0 or -1.
func (c *Controller) Previous() error {
	return c.step(func() int {
		if c.index <= 0 {
			return len(c.tracks) - 1
		}
		return c.index - 1
	})
}

// Next plays the track after the current one, wrapping to index 0 from the last track or from -1.
func (c *Controller) Next() error {
	return c.step(c.nextIndexLocked)
}

// Ended handles the sink's natural end of track with the same wrap rule as [Controller.Next].
func (c *Controller) Ended() error {
	return c.step(c.nextIndexLocked)
}

func (c *Controller) nextIndexLocked() int {
	if c.index == -1 || c.index >= len(c.tracks)-1 {
		return 0
	}
	return c.index + 1
}

func (c *Controller) step(pick func() int) error {
	c.mu.Lock()
	if len(c.tracks) == 0 {
		c.mu.Unlock()
		return nil
	}
	req, ok := c.chooseLocked(pick(), false)
	c.mu.Unlock()

	return c.start(req, ok)
}

// Seek moves to percent (clamped to [0,100]) of the current track's duration.
// It is a no-op while the duration is unknown.
func (c *Controller) Seek(percent float64) error {
	if math.IsNaN(percent) {
		return nil
	}
	percent = clamp(percent, 0, 100)

	c.mu.Lock()
	dur := c.sink.Duration()
	if !c.sink.HasSource() || dur <= 0 {
		c.mu.Unlock()
		return nil
	}
	err := c.seekLocked(time.Duration(float64(dur) * percent / 100))
	events := c.progressLocked()
	c.mu.Unlock()

	c.emit(events)
	return err
}

// SeekBy moves the position by delta, clamped to the track bounds. It is a no-op while the duration is unknown.
func (c *Controller) SeekBy(delta time.Duration) error {
	c.mu.Lock()
	dur := c.sink.Duration()
	if !c.sink.HasSource() || dur <= 0 {
		c.mu.Unlock()
		return nil
	}
	pos := min(max(c.sink.Position()+delta, 0), dur)
	err := c.seekLocked(pos)
	events := c.progressLocked()
	c.mu.Unlock()

	c.emit(events)
	return err
}

func (c *Controller) seekLocked(pos time.Duration) error {
	if err := c.sink.SetPosition(pos); err != nil {
		c.logger.Warn("seek failed", "position", pos, "err", err)
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// SetVolume sets the sink volume to v clamped to [0,1]. Levels above [MuteThreshold] become the level restored
// by [Controller.ToggleMute].
func (c *Controller) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}

	c.mu.Lock()
	events := c.setVolumeLocked(v)
	c.mu.Unlock()

	c.emit(events)
}

// ChangeVolume adjusts the volume by delta.
func (c *Controller) ChangeVolume(delta float64) {
	c.mu.Lock()
	events := c.setVolumeLocked(c.volume + delta)
	c.mu.Unlock()

	c.emit(events)
}

// ToggleMute zeroes an audible volume, remembering it, or restores the last audible volume.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	var events []Event
	if c.volume > MuteThreshold {
		c.lastVolume = c.volume
		events = c.setVolumeLocked(0)
	} else {
		events = c.setVolumeLocked(c.lastVolume)
	}
	c.mu.Unlock()

	c.emit(events)
}

func (c *Controller) setVolumeLocked(v float64) []Event {
	v = clamp(v, 0, 1)
	c.volume = v
	c.sink.SetVolume(v)
	if v > MuteThreshold {
		c.lastVolume = v
	}
	return []Event{{Kind: Volume, Level: v, Muted: v <= MuteThreshold}}
}

// Tick publishes a [Progress] event for the current position. Nothing is published while the duration is unknown.
func (c *Controller) Tick() {
	c.mu.Lock()
	events := c.progressLocked()
	c.mu.Unlock()

	c.emit(events)
}

func (c *Controller) progressLocked() []Event {
	dur := c.sink.Duration()
	if !c.sink.HasSource() || dur <= 0 {
		return nil
	}
	pos := c.sink.Position()
	return []Event{{
		Kind:     Progress,
		Position: pos,
		Duration: dur,
		Percent:  clamp(float64(pos)/float64(dur)*100, 0, 100),
		Label:    shared.ClockLabel(pos, dur),
	}}
}

// Index returns the current track index, -1 when nothing is loaded.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Tracks returns a copy of the track list.
func (c *Controller) Tracks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tracks)
}

// Folder returns the selected folder, empty before the first selection.
func (c *Controller) Folder() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.folder
}

// Volume returns the current volume in [0,1].
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// State returns the coarse playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.index < 0 || !c.sink.HasSource():
		return Idle
	case c.sink.Paused() || c.sink.Ended():
		return Paused
	default:
		return Playing
	}
}

// Snapshot returns a consistent copy of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Folder: c.folder,
		Tracks: slices.Clone(c.tracks),
		Index:  c.index,
		Random: c.random,
		State:  c.stateLocked(),
		Volume: c.volume,
		Muted:  c.volume <= MuteThreshold,
	}
	if c.folder != "" {
		s.Artist = c.artists.Resolve(c.folder)
	}
	if c.index >= 0 && c.index < len(c.tracks) {
		s.Track = c.tracks[c.index]
	}
	if c.sink.HasSource() {
		s.Position = c.sink.Position()
		s.Duration = c.sink.Duration()
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
