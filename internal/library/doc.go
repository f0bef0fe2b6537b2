// Package library resolves folders of tracks into ordered filename listings.
//
// # Directory Loader
//
// The [Loader] interface is the single data-fetch collaborator of the playback controller.
// [HTTPLoader] fetches GET /songs/{folder}/ from a songs server and collects every anchor whose href ends in the
// audio extension, keeping document order. Failures never surface as errors: a network error, a non-2xx status or an
// unreadable body all degrade to an empty listing and a log line, and the UI shows its empty-state message.
//
// [DirLoader] implements the same contract over a local directory tree and backs the songs server.
//
// # Display helpers
//
// [Artists] maps folder names to artist labels with a fallback, and [Title] strips the audio extension for display.
// [ListingURL] and [TrackURL] build the two server paths the player uses.
package library
