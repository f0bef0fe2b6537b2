package server

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/shared"
)

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE HTML>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Directory listing for {{.Path}}</title>
</head>
<body>
<h1>Directory listing for {{.Path}}</h1>
<hr>
<ul>
{{- range .Entries}}
<li><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
</ul>
<hr>
</body>
</html>
`))

type listingEntry struct {
	Name string
	Href string
}

type listingPage struct {
	Path    string
	Entries []listingEntry
}

// SongsHandler serves a songs directory as browsable listings and audio files.
type SongsHandler struct {
	dir    *library.DirLoader
	logger *log.Logger
}

// NewSongsHandler creates a [SongsHandler] over dir.
func NewSongsHandler(dir *library.DirLoader, logger *log.Logger) *SongsHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SongsHandler{dir: dir, logger: logger}
}

func (h *SongsHandler) Routes() []string {
	return []string{"/songs/"}
}

func (h *SongsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/songs/")
	if rest == "" {
		h.serveIndex(w, r)
		return
	}

	folder, file, nested := strings.Cut(rest, "/")
	switch {
	case !library.ValidName(folder):
		http.NotFound(w, r)
	case !nested:
		http.Redirect(w, r, "/songs/"+url.PathEscape(folder)+"/", http.StatusMovedPermanently)
	case file == "":
		h.serveFolder(w, r, folder)
	case strings.Contains(file, "/"):
		http.NotFound(w, r)
	default:
		h.serveFile(w, r, folder, file)
	}
}

func (h *SongsHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	folders, err := h.dir.Folders()
	if err != nil {
		h.logger.Error("failed to list songs directory", "root", h.dir.Root(), "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := listingPage{Path: "/songs/"}
	for _, folder := range folders {
		page.Entries = append(page.Entries, listingEntry{Name: folder + "/", Href: url.PathEscape(folder) + "/"})
	}
	h.render(w, page)
}

func (h *SongsHandler) serveFolder(w http.ResponseWriter, r *http.Request, folder string) {
	files, err := h.dir.Files(folder)
	if err != nil {
		if errors.Is(err, shared.ErrFolderNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to list folder", "folder", folder, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := listingPage{Path: "/songs/" + folder + "/"}
	for _, name := range files {
		page.Entries = append(page.Entries, listingEntry{Name: name, Href: url.PathEscape(name)})
	}
	h.render(w, page)
}

func (h *SongsHandler) serveFile(w http.ResponseWriter, r *http.Request, folder, name string) {
	p, err := h.dir.Path(folder, name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(p)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (h *SongsHandler) render(w http.ResponseWriter, page listingPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listingTemplate.Execute(w, page); err != nil {
		h.logger.Error("failed to render listing", "path", page.Path, "err", err)
	}
}
