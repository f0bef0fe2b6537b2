// Package ui implements the interactive terminal player using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [FolderView] : Browse the configured playlists (folders) and pick one with enter
//  2. [TrackView] : The selected folder's songs with the now-playing row marked
//
// A transport bar under both views shows the current title and artist, the play/pause glyph, a progress bar with
// the elapsed and total time, and the volume.
//
// The [Model] never mutates playback state itself. Key presses become commands that call the [player.Controller],
// and the controller's events flow back through a channel, become messages and update the view. A one-second tick
// asks the controller for a progress event.
//
// Keys: space play/pause, n/p next/previous, ←/→ seek, +/- volume, m mute, tab switch view, enter select, q quit.
package ui
