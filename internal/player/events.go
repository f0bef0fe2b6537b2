package player

import "time"

// EventKind identifies what changed in an [Event].
type EventKind int

const (
	TrackList  EventKind = iota // a folder's listing replaced the track list
	NowPlaying                  // a track started
	Highlight                   // the now-playing row moved
	Transport                   // play/pause state changed
	Volume                      // volume or mute changed
	Progress                    // periodic position update
)

func (k EventKind) String() string {
	switch k {
	case TrackList:
		return "track-list"
	case NowPlaying:
		return "now-playing"
	case Highlight:
		return "highlight"
	case Transport:
		return "transport"
	case Volume:
		return "volume"
	case Progress:
		return "progress"
	default:
		return "unknown"
	}
}

// EmptyListMessage is shown in place of the track list when a folder has no tracks.
const EmptyListMessage = "No songs found in this playlist"

// Event is a state-change notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	// TrackList, NowPlaying
	Folder string
	Tracks []string
	Artist string

	// NowPlaying, Highlight
	Index  int
	Track  string
	Title  string
	Random bool

	// Transport
	Playing bool

	// Volume
	Level float64
	Muted bool

	// Progress
	Position time.Duration
	Duration time.Duration
	Percent  float64
	Label    string
}

// Subtitle is the artist line of the now-playing display.
func (e Event) Subtitle() string {
	if e.Random {
		return e.Artist + " • Random"
	}
	return e.Artist
}

// Empty reports whether a TrackList event carries no tracks.
func (e Event) Empty() bool { return e.Kind == TrackList && len(e.Tracks) == 0 }

// Listener receives controller events.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a function to [Listener].
type ListenerFunc func(e Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }
