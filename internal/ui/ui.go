package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/player"
)

// PlaceholderMessage fills the song list before any folder is selected.
const PlaceholderMessage = "Select a playlist to load songs"

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FolderView ViewState = iota
	TrackView
)

// ModelOpts tunes the step sizes of the seek and volume keys.
type ModelOpts struct {
	SeekStep   time.Duration
	VolumeStep float64
	Title      string
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	controller *player.Controller
	events     chan player.Event
	width      int
	height     int
	folderList list.Model
	trackList  list.Model
	loading    string
	folder     string
	artist     string
	tracks     []string
	playingIdx int
	now        player.Event
	playing    bool
	volume     float64
	muted      bool
	percent    float64
	clock      string
	bar        progress.Model
	err        error
	help       help.Model
	keys       keyMap
	seekStep   time.Duration
	volumeStep float64
	title      string
}

// NewModel creates a TUI model over controller and subscribes to its events.
func NewModel(ctx context.Context, controller *player.Controller, folders []models.FolderSummary, opts ModelOpts) *Model {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = 0.05
	}
	if opts.Title == "" {
		opts.Title = "songdeck"
	}

	m := &Model{
		ctx:        ctx,
		view:       FolderView,
		controller: controller,
		events:     make(chan player.Event, 64),
		playingIdx: -1,
		volume:     controller.Volume(),
		muted:      controller.Volume() <= player.MuteThreshold,
		clock:      "0:00 / 0:00",
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:       help.New(),
		keys:       newKeyMap(),
		seekStep:   opts.SeekStep,
		volumeStep: opts.VolumeStep,
		title:      opts.Title,
	}

	m.folderList = newList(folderItems(folders), "Playlists")
	m.trackList = newList(nil, "Songs")
	controller.Subscribe(player.ListenerFunc(m.forward))
	return m
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}

// forward hands controller events to the UI loop. Progress events are dropped when the loop falls behind.
func (m *Model) forward(e player.Event) {
	if e.Kind == player.Progress {
		select {
		case m.events <- e:
		default:
		}
		return
	}

	select {
	case m.events <- e:
	case <-m.ctx.Done():
	}
}

// Init starts listening for controller events and schedules the progress tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.folderList.SetSize(msg.Width-4, msg.Height-10)
		m.trackList.SetSize(msg.Width-4, msg.Height-10)
		m.bar.Width = max(msg.Width-30, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgPlayerEvent:
			m.apply(msg.data.(player.Event))
			return m, m.waitForEvent()
		case MsgTick:
			return m, tea.Batch(m.tickController(), tick())
		case MsgFolderSelected:
			data := msg.data.(struct {
				folder string
				err    error
			})
			if m.loading == data.folder {
				m.loading = ""
			}
			if data.err != nil && !errors.Is(data.err, player.ErrSuperseded) && !errors.Is(data.err, context.Canceled) {
				m.err = data.err
			}
			return m, nil
		case MsgCommandDone:
			if err, _ := msg.data.(error); err != nil {
				m.err = err
			}
			return m, nil
		case MsgEventsClosed:
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// apply folds one controller event into the view state.
func (m *Model) apply(e player.Event) {
	switch e.Kind {
	case player.TrackList:
		m.folder = e.Folder
		m.artist = e.Artist
		m.tracks = e.Tracks
		m.playingIdx = -1
		m.trackList.Title = fmt.Sprintf("%s · %s", e.Folder, e.Artist)
		m.trackList.SetItems(trackItems(e.Tracks, e.Artist, -1))
		m.trackList.Select(0)
		m.view = TrackView
		m.err = nil
		if m.loading == e.Folder {
			m.loading = ""
		}
	case player.NowPlaying:
		m.now = e
	case player.Highlight:
		m.playingIdx = e.Index
		m.trackList.SetItems(trackItems(m.tracks, m.artist, e.Index))
		if e.Index >= 0 && e.Index < len(m.tracks) {
			m.trackList.Select(e.Index)
		}
	case player.Transport:
		m.playing = e.Playing
	case player.Volume:
		m.volume = e.Level
		m.muted = e.Muted
	case player.Progress:
		m.percent = e.Percent / 100
		m.clock = e.Label
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		if m.view == FolderView {
			m.view = TrackView
		} else {
			m.view = FolderView
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		return m, m.selectCurrent()
	case key.Matches(msg, m.keys.toggle):
		return m, m.do(m.controller.TogglePlayPause)
	case key.Matches(msg, m.keys.next):
		return m, m.do(m.controller.Next)
	case key.Matches(msg, m.keys.previous):
		return m, m.do(m.controller.Previous)
	case key.Matches(msg, m.keys.back):
		return m, m.do(func() error { return m.controller.SeekBy(-m.seekStep) })
	case key.Matches(msg, m.keys.forward):
		return m, m.do(func() error { return m.controller.SeekBy(m.seekStep) })
	case key.Matches(msg, m.keys.louder):
		return m, m.do(func() error { m.controller.ChangeVolume(m.volumeStep); return nil })
	case key.Matches(msg, m.keys.quieter):
		return m, m.do(func() error { m.controller.ChangeVolume(-m.volumeStep); return nil })
	case key.Matches(msg, m.keys.mute):
		return m, m.do(func() error { m.controller.ToggleMute(); return nil })
	}

	return m.updateLists(msg)
}

func (m *Model) selectCurrent() tea.Cmd {
	switch m.view {
	case FolderView:
		item, ok := m.folderList.SelectedItem().(folderItem)
		if !ok {
			return nil
		}
		folder := item.folder.Name
		m.loading = folder
		return func() tea.Msg {
			return folderSelectedMsg(folder, m.controller.SelectFolder(m.ctx, folder))
		}
	case TrackView:
		if len(m.tracks) == 0 {
			return nil
		}
		index := m.trackList.Index()
		return m.do(func() error { return m.controller.Play(index, false) })
	}
	return nil
}

func (m *Model) do(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg(fn())
	}
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FolderView:
		m.folderList, cmd = m.folderList.Update(msg)
	case TrackView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.events:
			return playerEventMsg(e)
		case <-m.ctx.Done():
			return eventsClosedMsg()
		}
	}
}

func (m *Model) tickController() tea.Cmd {
	return func() tea.Msg {
		m.controller.Tick()
		return nil
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg() })
}

// View renders the active list above the transport bar.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(m.title))
	b.WriteString("\n")

	switch m.view {
	case FolderView:
		b.WriteString(m.folderList.View())
	case TrackView:
		b.WriteString(m.renderTracks())
	}

	b.WriteString("\n")
	b.WriteString(m.renderTransport())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderTracks() string {
	switch {
	case m.loading != "":
		return styles.help.Render(fmt.Sprintf("Loading %s...", m.loading))
	case m.folder == "":
		return styles.help.Render(PlaceholderMessage)
	case len(m.tracks) == 0:
		return styles.warn.Render(player.EmptyListMessage)
	default:
		return m.trackList.View()
	}
}

func (m *Model) renderTransport() string {
	glyph := "▶"
	if m.playing {
		glyph = "❚❚"
	}

	title := "Nothing playing"
	subtitle := ""
	if m.now.Kind == player.NowPlaying {
		title = m.now.Title
		subtitle = m.now.Subtitle()
	}

	vol := fmt.Sprintf("🔊 %d%%", int(m.volume*100+0.5))
	if m.muted {
		vol = "🔇 muted"
	}

	line1 := fmt.Sprintf("%s  %s", styles.playing.Render(glyph), styles.playing.Render(title))
	if m.playingIdx >= 0 && len(m.tracks) > 0 {
		line1 += fmt.Sprintf(" (%d/%d)", m.playingIdx+1, len(m.tracks))
	}
	if subtitle != "" {
		line1 += "  " + styles.help.Render(subtitle)
	}
	line2 := fmt.Sprintf("%s  %s  %s", m.bar.ViewAs(m.percent), m.clock, vol)
	return styles.bar.Render(line1 + "\n" + line2)
}
