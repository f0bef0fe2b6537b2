package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
	th "github.com/desertthunder/songdeck/internal/testing"
)

func samplePlaylist() *models.Playlist {
	return &models.Playlist{
		Folder: "guru-randhawa",
		Artist: "Guru Randhawa",
		Tracks: []string{"Lahore.mp3", "High Rated, Gabru.mp3"},
	}
}

func sampleHistory() []*models.Listen {
	played := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []*models.Listen{
		models.RestoreListen("l1", 1, "guru-randhawa", "Lahore.mp3", "Guru Randhawa", false, played, played, played, nil),
		models.RestoreListen("l2", 2, "no-copyright-vibes", "Chill | Lofi.mp3", "No Copyright Vibes", true, played.Add(time.Minute), played, played, nil),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Text, false},
		{"txt", Text, false},
		{"TEXT", Text, false},
		{"csv", CSV, false},
		{"markdown", Markdown, false},
		{"md", Markdown, false},
		{" json ", JSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("Extension", func(t *testing.T) {
		want := map[Format]string{Text: ".txt", CSV: ".csv", Markdown: ".md", JSON: ".json"}
		for _, f := range Formats {
			if got := f.Extension(); got != want[f] {
				t.Errorf("%s: expected %s, got %s", f, want[f], got)
			}
		}
	})
}

func TestPlaylistExporters(t *testing.T) {
	t.Run("PlaylistToCSV", func(t *testing.T) {
		data, err := PlaylistToCSV(samplePlaylist())
		if err != nil {
			t.Fatalf("PlaylistToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Position,Title,Filename,Artist") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Lahore,Lahore.mp3,Guru Randhawa") {
			t.Errorf("CSV missing first track, got: %s", output)
		}
		if !strings.Contains(output, `"High Rated, Gabru.mp3"`) {
			t.Errorf("CSV should quote fields containing commas, got: %s", output)
		}
	})

	t.Run("PlaylistToMarkdown", func(t *testing.T) {
		data, err := PlaylistToMarkdown(samplePlaylist())
		if err != nil {
			t.Fatalf("PlaylistToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"# guru-randhawa", "**Artist**: Guru Randhawa", "**Tracks**: 2", "1. Lahore (`Lahore.mp3`)"} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}

		t.Run("empty folder", func(t *testing.T) {
			data, err := PlaylistToMarkdown(&models.Playlist{Folder: "empty", Artist: "Hemant Yadav"})
			if err != nil {
				t.Fatalf("PlaylistToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "No songs found in this playlist") {
				t.Errorf("expected empty-state line, got: %s", data)
			}
		})
	})

	t.Run("PlaylistToText", func(t *testing.T) {
		data, err := PlaylistToText(samplePlaylist())
		if err != nil {
			t.Fatalf("PlaylistToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: guru-randhawa") || !strings.Contains(output, "Tracks: 2") {
			t.Errorf("text missing header, got: %s", output)
		}
		if !strings.Contains(output, "2. High Rated, Gabru\n") {
			t.Errorf("text missing second track, got: %s", output)
		}
	})

	t.Run("RenderPlaylist JSON", func(t *testing.T) {
		data, err := RenderPlaylist(samplePlaylist(), JSON)
		if err != nil {
			t.Fatalf("RenderPlaylist failed: %v", err)
		}

		var decoded models.Playlist
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Folder != "guru-randhawa" || len(decoded.Tracks) != 2 {
			t.Errorf("unexpected playlist: %+v", decoded)
		}
	})

	t.Run("RenderPlaylist unknown format", func(t *testing.T) {
		if _, err := RenderPlaylist(samplePlaylist(), Format("xml")); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestHistoryExporters(t *testing.T) {
	t.Run("HistoryToCSV", func(t *testing.T) {
		data, err := HistoryToCSV(sampleHistory())
		if err != nil {
			t.Fatalf("HistoryToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Played At,Folder,Title,Artist,Random") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "2026-03-14T09:30:00Z,guru-randhawa,Lahore,Guru Randhawa,false") {
			t.Errorf("CSV missing first listen, got: %s", output)
		}
	})

	t.Run("HistoryToMarkdown", func(t *testing.T) {
		data, err := HistoryToMarkdown(sampleHistory())
		if err != nil {
			t.Fatalf("HistoryToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "| Played At | Folder | Title | Artist | Random |") {
			t.Errorf("Markdown missing table header, got: %s", output)
		}
		if !strings.Contains(output, `Chill \| Lofi`) {
			t.Errorf("Markdown should escape pipes, got: %s", output)
		}
		if !strings.Contains(output, "| yes |") {
			t.Errorf("Markdown missing random marker, got: %s", output)
		}
	})

	t.Run("HistoryToText", func(t *testing.T) {
		data, err := HistoryToText(sampleHistory())
		if err != nil {
			t.Fatalf("HistoryToText failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d: %s", len(lines), data)
		}
		if !strings.Contains(lines[0], "Guru Randhawa - Lahore [guru-randhawa]") {
			t.Errorf("unexpected first line: %s", lines[0])
		}
		if !strings.HasSuffix(lines[1], " • Random") {
			t.Errorf("expected random suffix, got: %s", lines[1])
		}
	})

	t.Run("empty history", func(t *testing.T) {
		for _, f := range []Format{Text, Markdown} {
			data, err := RenderHistory(nil, f)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", f, err)
			}
			if !strings.Contains(string(data), "Nothing played yet") {
				t.Errorf("%s: expected empty-state line, got: %s", f, data)
			}
		}
	})

	t.Run("RenderHistory JSON", func(t *testing.T) {
		data, err := RenderHistory(sampleHistory(), JSON)
		if err != nil {
			t.Fatalf("RenderHistory failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[1]["random"] != true || decoded[0]["track"] != "Lahore.mp3" {
			t.Errorf("unexpected history JSON: %s", data)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.txt")

		if err := WriteExport([]byte("hello\n"), path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertFileExists(t, path)
		if got := th.MustReadFile(t, path); got != "hello\n" {
			t.Errorf("unexpected content: %q", got)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if err := WriteExport([]byte("x"), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "out.txt")
		if err := WriteExport([]byte("x"), path); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}
