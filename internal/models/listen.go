package models

import (
	"errors"
	"time"
)

var _ Model = (*Listen)(nil)

// Listen records one started track.
type Listen struct {
	id        string
	sequence  int
	folder    string
	track     string
	artist    string
	random    bool
	playedAt  time.Time
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewListen creates a Listen for a track that started now.
func NewListen(folder, track, artist string, random bool) *Listen {
	now := time.Now().UTC()
	return &Listen{
		folder:    folder,
		track:     track,
		artist:    artist,
		random:    random,
		playedAt:  now,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreListen rebuilds a Listen from stored columns.
func RestoreListen(id string, sequence int, folder, track, artist string, random bool, playedAt, createdAt, updatedAt time.Time, deletedAt *time.Time) *Listen {
	return &Listen{
		id:        id,
		sequence:  sequence,
		folder:    folder,
		track:     track,
		artist:    artist,
		random:    random,
		playedAt:  playedAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (l *Listen) ID() string            { return l.id }
func (l *Listen) Sequence() int         { return l.sequence }
func (l *Listen) Folder() string        { return l.folder }
func (l *Listen) Track() string         { return l.track }
func (l *Listen) Artist() string        { return l.artist }
func (l *Listen) Random() bool          { return l.random }
func (l *Listen) PlayedAt() time.Time   { return l.playedAt }
func (l *Listen) CreatedAt() time.Time  { return l.createdAt }
func (l *Listen) UpdatedAt() time.Time  { return l.updatedAt }
func (l *Listen) DeletedAt() *time.Time { return l.deletedAt }
func (l *Listen) IsDeleted() bool       { return l.deletedAt != nil }

func (l *Listen) SetID(id string)          { l.id = id }
func (l *Listen) SetSequence(seq int)      { l.sequence = seq }
func (l *Listen) SetUpdatedAt(t time.Time) { l.updatedAt = t }

func (l *Listen) Validate() error {
	if l.folder == "" {
		return errors.New("listen folder is required")
	}
	if l.track == "" {
		return errors.New("listen track is required")
	}
	return nil
}
