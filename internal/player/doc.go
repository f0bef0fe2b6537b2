// Package player owns playback state for one track list and one audio sink.
//
// # Controller
//
// [Controller] holds the current folder, its track list, the current index (-1 when nothing is loaded) and the
// volume with its last non-zero level. Adapters (the TUI, the headless play command) drive it through named methods:
// [Controller.SelectFolder], [Controller.Play], [Controller.TogglePlayPause], [Controller.Next],
// [Controller.Previous], [Controller.Seek], [Controller.SetVolume] and [Controller.ToggleMute]. The sink's
// end-of-track notification calls [Controller.Ended], and a periodic [Controller.Tick] publishes progress.
//
// The controller never touches UI elements. Each transition produces [Event] values that are dispatched to every
// subscribed [Listener] after the controller's lock is released, so listeners may call back into the controller.
//
// # Folder selection
//
// Selecting a folder fetches its listing through a [library.Loader] without holding the lock. Every call bumps a
// generation counter and a listing that arrives after a newer selection is discarded with [ErrSuperseded].
//
// # Sink
//
// [Sink] abstracts an audio element: a source URL, paused and ended flags, position, duration and volume.
// The beep-backed implementation lives in the audio package.
package player
