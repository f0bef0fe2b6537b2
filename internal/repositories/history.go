package repositories

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/player"
	"github.com/desertthunder/songdeck/internal/shared"
)

var _ player.Listener = (*HistoryRecorder)(nil)

// HistoryRecorder writes a listen for every NowPlaying event it receives.
//
// Storage failures are logged and never surface to the player.
type HistoryRecorder struct {
	repo   *ListenRepository
	logger *log.Logger
}

// NewHistoryRecorder creates a HistoryRecorder backed by repo.
func NewHistoryRecorder(repo *ListenRepository, logger *log.Logger) *HistoryRecorder {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HistoryRecorder{repo: repo, logger: logger}
}

func (h *HistoryRecorder) OnEvent(e player.Event) {
	if e.Kind != player.NowPlaying || e.Track == "" {
		return
	}

	listen := models.NewListen(e.Folder, e.Track, e.Artist, e.Random)
	if err := h.repo.Create(listen); err != nil {
		h.logger.Warn("failed to record listen", "folder", e.Folder, "track", e.Track, "err", err)
		return
	}
	h.logger.Debug("recorded listen", "id", listen.ID(), "track", e.Track)
}
