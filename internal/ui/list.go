package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/models"
)

var (
	_ list.Item = folderItem{}
	_ list.Item = trackItem{}
)

// folderItem wraps [models.FolderSummary] to implement [list.Item].
type folderItem struct {
	folder models.FolderSummary
}

func (i folderItem) FilterValue() string { return i.folder.Name }
func (i folderItem) Title() string       { return i.folder.Name }
func (i folderItem) Description() string {
	if i.folder.Tracks > 0 {
		return fmt.Sprintf("%s • %d tracks", i.folder.Artist, i.folder.Tracks)
	}
	return i.folder.Artist
}

// trackItem is one row of the song list.
type trackItem struct {
	track   string
	artist  string
	playing bool
}

func (i trackItem) FilterValue() string { return i.track }
func (i trackItem) Title() string {
	if i.playing {
		return "♪ " + library.Title(i.track)
	}
	return library.Title(i.track)
}
func (i trackItem) Description() string { return i.artist }

func folderItems(folders []models.FolderSummary) []list.Item {
	items := make([]list.Item, len(folders))
	for i, f := range folders {
		items[i] = folderItem{folder: f}
	}
	return items
}

func trackItems(tracks []string, artist string, playing int) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, artist: artist, playing: i == playing}
	}
	return items
}
