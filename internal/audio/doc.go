// Package audio implements [player.Sink] on top of gopxl/beep.
//
// A source is fetched whole into memory (over HTTP, or from disk for plain paths), decoded by extension and
// queued on the speaker behind a pause control and a volume effect. Each queued source carries a playback id so an
// end-of-stream callback from a replaced source is ignored.
//
// Builds without cgo on Linux cannot open the speaker; there [Available] is false and [Sink] only tracks state.
package audio
