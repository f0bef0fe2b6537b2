package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

// APIHandler serves folder metadata as JSON.
type APIHandler struct {
	dir     *library.DirLoader
	artists *library.Artists
	logger  *log.Logger
}

// NewAPIHandler creates an [APIHandler].
func NewAPIHandler(dir *library.DirLoader, artists *library.Artists, logger *log.Logger) *APIHandler {
	if artists == nil {
		artists = library.DefaultArtists()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &APIHandler{dir: dir, artists: artists, logger: logger}
}

func (h *APIHandler) Routes() []string {
	return []string{"/health", "/api/folders", "/api/folders/"}
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch {
	case r.URL.Path == "/health":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case r.URL.Path == "/api/folders":
		h.folders(w)
	case strings.HasPrefix(r.URL.Path, "/api/folders/"):
		h.folder(w, strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/folders/"), "/"))
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *APIHandler) folders(w http.ResponseWriter) {
	names, err := h.dir.Folders()
	if err != nil {
		h.logger.Error("failed to list folders", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list folders")
		return
	}

	summaries := make([]models.FolderSummary, 0, len(names))
	for _, name := range names {
		tracks, err := h.dir.Tracks(name)
		if err != nil {
			h.logger.Warn("skipping unreadable folder", "folder", name, "err", err)
			continue
		}
		summaries = append(summaries, models.FolderSummary{Name: name, Artist: h.artists.Resolve(name), Tracks: len(tracks)})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *APIHandler) folder(w http.ResponseWriter, name string) {
	tracks, err := h.dir.Tracks(name)
	if err != nil {
		if errors.Is(err, shared.ErrFolderNotFound) {
			writeError(w, http.StatusNotFound, "folder not found")
			return
		}
		h.logger.Error("failed to list folder", "folder", name, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list folder")
		return
	}
	writeJSON(w, http.StatusOK, models.Playlist{Folder: name, Artist: h.artists.Resolve(name), Tracks: tracks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// NewRouter wires the songs and API handlers behind recovery and request logging.
func NewRouter(dir *library.DirLoader, artists *library.Artists, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))
	router.Handler(NewSongsHandler(dir, logger))
	router.Handler(NewAPIHandler(dir, artists, logger))
	return router
}
