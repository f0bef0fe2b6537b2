package models

import (
	"errors"
	"strings"
	"time"
)

var _ Model = (*Folder)(nil)

// Folder is a scanned playlist folder and its cached listing.
type Folder struct {
	id        string
	sequence  int
	name      string
	artist    string
	tracks    []string
	scannedAt time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewFolder creates a Folder stamped with the current time; the ID is assigned by the repository.
func NewFolder(sequence int, name, artist string, tracks []string) *Folder {
	now := time.Now().UTC()
	return &Folder{
		sequence:  sequence,
		name:      name,
		artist:    artist,
		tracks:    append([]string{}, tracks...),
		scannedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreFolder rebuilds a Folder from stored columns.
func RestoreFolder(id string, sequence int, name, artist string, tracks []string, scannedAt, createdAt, updatedAt time.Time) *Folder {
	return &Folder{
		id:        id,
		sequence:  sequence,
		name:      name,
		artist:    artist,
		tracks:    tracks,
		scannedAt: scannedAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (f *Folder) ID() string           { return f.id }
func (f *Folder) Sequence() int        { return f.sequence }
func (f *Folder) Name() string         { return f.name }
func (f *Folder) Artist() string       { return f.artist }
func (f *Folder) Tracks() []string     { return append([]string{}, f.tracks...) }
func (f *Folder) TrackCount() int      { return len(f.tracks) }
func (f *Folder) ScannedAt() time.Time { return f.scannedAt }
func (f *Folder) CreatedAt() time.Time { return f.createdAt }
func (f *Folder) UpdatedAt() time.Time { return f.updatedAt }

func (f *Folder) SetID(id string)           { f.id = id }
func (f *Folder) SetSequence(seq int)       { f.sequence = seq }
func (f *Folder) SetArtist(artist string)   { f.artist = artist }
func (f *Folder) SetUpdatedAt(t time.Time)  { f.updatedAt = t }
func (f *Folder) SetScannedAt(t time.Time)  { f.scannedAt = t }
func (f *Folder) SetTracks(tracks []string) { f.tracks = append([]string{}, tracks...) }

// Summary drops the track list.
func (f *Folder) Summary() FolderSummary {
	return FolderSummary{Name: f.name, Artist: f.artist, Tracks: len(f.tracks)}
}

// Playlist converts the folder into its DTO form.
func (f *Folder) Playlist() *Playlist {
	return &Playlist{Folder: f.name, Artist: f.artist, Tracks: f.Tracks()}
}

func (f *Folder) Validate() error {
	if strings.TrimSpace(f.name) == "" {
		return errors.New("folder name is required")
	}
	if strings.ContainsAny(f.name, `/\`) || f.name == "." || f.name == ".." {
		return errors.New("folder name cannot contain path separators")
	}
	if f.artist == "" {
		return errors.New("folder artist is required")
	}
	return nil
}
