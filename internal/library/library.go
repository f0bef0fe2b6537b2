package library

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/samber/lo"
)

// DefaultExtension is the audio extension listings are filtered by unless configured otherwise.
const DefaultExtension = ".mp3"

// audioExtensions are stripped by [Title] and served by the songs server.
var audioExtensions = []string{".mp3", ".wav", ".ogg", ".flac", ".m4a"}

// Loader resolves a folder into its ordered list of audio filenames.
//
// Implementations return an empty slice, never an error, when the folder cannot be listed.
type Loader interface {
	Load(ctx context.Context, folder string) []string
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, folder string) []string

func (f LoaderFunc) Load(ctx context.Context, folder string) []string { return f(ctx, folder) }

// ListingURL returns the directory listing URL for folder: {base}/songs/{folder}/
func ListingURL(base, folder string) string {
	return strings.TrimRight(base, "/") + "/songs/" + url.PathEscape(folder) + "/"
}

// TrackURL returns the audio resource URL for track in folder: {base}/songs/{folder}/{track}
func TrackURL(base, folder, track string) string {
	return strings.TrimRight(base, "/") + "/songs/" + url.PathEscape(folder) + "/" + url.PathEscape(track)
}

// HasExtension reports whether name ends in ext, ignoring case.
func HasExtension(name, ext string) bool {
	return len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext)
}

// IsAudio reports whether name carries one of the known audio extensions.
func IsAudio(name string) bool {
	return lo.SomeBy(audioExtensions, func(ext string) bool { return HasExtension(name, ext) })
}

// Title returns the display title of a track filename: the name without its audio extension.
func Title(track string) string {
	ext := path.Ext(track)
	if ext != "" && IsAudio(track) {
		return track[:len(track)-len(ext)]
	}
	return track
}

// ValidName reports whether name is a plain, non-hidden folder or file name that cannot escape the songs root.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}
