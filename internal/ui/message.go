package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdeck/internal/player"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlayerEvent MsgKind = iota
	MsgTick
	MsgFolderSelected
	MsgCommandDone
	MsgEventsClosed
)

// playerEventMsg is the constructor for [MsgPlayerEvent]
func playerEventMsg(e player.Event) Msg {
	return Msg{kind: MsgPlayerEvent, data: e}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg() Msg {
	return Msg{kind: MsgTick}
}

// folderSelectedMsg is the constructor for [MsgFolderSelected]
func folderSelectedMsg(folder string, err error) Msg {
	return Msg{
		kind: MsgFolderSelected,
		data: struct {
			folder string
			err    error
		}{folder, err},
	}
}

// commandDoneMsg is the constructor for [MsgCommandDone]
func commandDoneMsg(err error) Msg {
	return Msg{kind: MsgCommandDone, data: err}
}

// eventsClosedMsg is the constructor for [MsgEventsClosed]
func eventsClosedMsg() Msg {
	return Msg{kind: MsgEventsClosed}
}
