package library

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songdeck/internal/shared"
	tu "github.com/desertthunder/songdeck/internal/testing"
)

const pythonListing = `<!DOCTYPE HTML>
<html lang="en">
<head><title>Directory listing for /songs/lofi/</title></head>
<body>
<h1>Directory listing for /songs/lofi/</h1>
<hr>
<ul>
<li><a href="cover.jpg">cover.jpg</a></li>
<li><a href="Night%20Drive.mp3">Night Drive.mp3</a></li>
<li><a href="info.json">info.json</a></li>
<li><a href="/songs/lofi/Rain.MP3">Rain.MP3</a></li>
<li><a href="http://127.0.0.1:3000/songs/lofi/sunrise.mp3?v=2">sunrise.mp3</a></li>
<li><a>no href</a></li>
</ul>
</body>
</html>
`

func TestParseListing(t *testing.T) {
	t.Run("keeps document order and filters by extension", func(t *testing.T) {
		tracks, err := ParseListing(strings.NewReader(pythonListing), ".mp3")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"Night Drive.mp3", "Rain.MP3", "sunrise.mp3"}
		if len(tracks) != len(want) {
			t.Fatalf("expected %d tracks, got %d: %v", len(want), len(tracks), tracks)
		}
		for i := range want {
			if tracks[i] != want[i] {
				t.Errorf("track %d: expected %q, got %q", i, want[i], tracks[i])
			}
		}
	})

	t.Run("other extensions", func(t *testing.T) {
		tracks, _ := ParseListing(strings.NewReader(`<a href="a.ogg">a</a><a href="b.mp3">b</a>`), ".ogg")
		if len(tracks) != 1 || tracks[0] != "a.ogg" {
			t.Errorf("expected [a.ogg], got %v", tracks)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		tracks, err := ParseListing(strings.NewReader(""), ".mp3")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tracks == nil || len(tracks) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", tracks)
		}
	})
}

func TestHTTPLoader(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: "http://example.com"})

		if loader.ext != DefaultExtension {
			t.Errorf("expected default extension, got %s", loader.ext)
		}
		if loader.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient to be used")
		}
		if loader.logger == nil {
			t.Error("expected default logger")
		}
		if loader.BaseURL() != "http://example.com" {
			t.Errorf("unexpected base URL %s", loader.BaseURL())
		}
	})

	t.Run("Load", func(t *testing.T) {
		t.Run("requests the folder listing", func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, pythonListing)
			}))
			defer server.Close()

			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: server.URL, Logger: shared.NewLogger(&strings.Builder{})})
			tracks := loader.Load(context.Background(), "lofi beats")

			if gotPath != "/songs/lofi beats/" {
				t.Errorf("expected /songs/lofi beats/, got %s", gotPath)
			}
			if len(tracks) != 3 {
				t.Errorf("expected 3 tracks, got %v", tracks)
			}
		})

		t.Run("non-success status yields empty listing", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusNotFound)
			}))
			defer server.Close()

			logs := &strings.Builder{}
			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: server.URL, Logger: shared.NewLogger(logs)})
			tracks := loader.Load(context.Background(), "missing")

			if tracks == nil || len(tracks) != 0 {
				t.Errorf("expected empty slice, got %#v", tracks)
			}
			if !strings.Contains(logs.String(), "error loading songs") {
				t.Errorf("expected failure to be logged, got %q", logs.String())
			}
		})

		t.Run("network error yields empty listing", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: "http://example.com", HTTPClient: client, Logger: shared.NewLogger(&strings.Builder{})})

			if tracks := loader.Load(context.Background(), "lofi"); len(tracks) != 0 {
				t.Errorf("expected no tracks, got %v", tracks)
			}
		})
	})

	t.Run("Fetch", func(t *testing.T) {
		t.Run("wraps network errors", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: "http://example.com", HTTPClient: client})

			_, err := loader.Fetch(context.Background(), "lofi")
			if !errors.Is(err, shared.ErrListingFailed) {
				t.Errorf("expected ErrListingFailed, got %v", err)
			}
		})

		t.Run("wraps status errors", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusInternalServerError,
				Body:       http.NoBody,
				Header:     http.Header{},
			}, nil)}
			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: "http://example.com", HTTPClient: client})

			_, err := loader.Fetch(context.Background(), "lofi")
			if !errors.Is(err, shared.ErrListingFailed) || !strings.Contains(err.Error(), "500") {
				t.Errorf("expected status error, got %v", err)
			}
		})

		t.Run("wraps body read errors", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil)}
			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: "http://example.com", HTTPClient: client})

			if _, err := loader.Fetch(context.Background(), "lofi"); !errors.Is(err, shared.ErrListingFailed) {
				t.Errorf("expected ErrListingFailed, got %v", err)
			}
		})

		t.Run("invalid base URL", func(t *testing.T) {
			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: "http://exa mple.com\x00"})
			if _, err := loader.Fetch(context.Background(), "lofi"); err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected request creation error, got %v", err)
			}
		})
	})

	t.Run("Folders", func(t *testing.T) {
		t.Run("decodes the folder index", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/folders" {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `[{"name":"lofi","artist":"Hemant Yadav","tracks":3}]`)
			}))
			defer server.Close()

			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: server.URL + "/"})
			folders, err := loader.Folders(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(folders) != 1 || folders[0].Name != "lofi" || folders[0].Tracks != 3 {
				t.Errorf("unexpected folders: %+v", folders)
			}
		})

		t.Run("non-success status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: server.URL})
			if _, err := loader.Folders(context.Background()); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("invalid JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<html>")
			}))
			defer server.Close()

			loader := NewHTTPLoader(HTTPLoaderOpts{BaseURL: server.URL})
			if _, err := loader.Folders(context.Background()); err == nil || !strings.Contains(err.Error(), "failed to decode") {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	})
}

func TestURLs(t *testing.T) {
	if got := ListingURL("http://h:3000/", "karan ahujla"); got != "http://h:3000/songs/karan%20ahujla/" {
		t.Errorf("unexpected listing URL %s", got)
	}
	if got := TrackURL("", "lofi", "Night Drive.mp3"); got != "/songs/lofi/Night%20Drive.mp3" {
		t.Errorf("unexpected track URL %s", got)
	}
}

func TestTitle(t *testing.T) {
	tc := []struct{ in, want string }{
		{"Night Drive.mp3", "Night Drive"},
		{"SHOUT.MP3", "SHOUT"},
		{"song.flac", "song"},
		{"notes.txt", "notes.txt"},
		{"no extension", "no extension"},
		{"v1.2 remix.mp3", "v1.2 remix"},
	}
	for _, tt := range tc {
		if got := Title(tt.in); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArtists(t *testing.T) {
	t.Run("builtin table", func(t *testing.T) {
		a := DefaultArtists()
		tc := map[string]string{
			"guru-randhawa":      "Guru Randhawa",
			"karan-ahujla":       "Karan Aujla",
			"karan ahujla":       "Karan Aujla",
			"no-copyright-vibes": "No Copyright Vibes",
			"anything-else":      "Hemant Yadav",
		}
		for folder, want := range tc {
			if got := a.Resolve(folder); got != want {
				t.Errorf("Resolve(%q) = %q, want %q", folder, got, want)
			}
		}
	})

	t.Run("overrides and fallback", func(t *testing.T) {
		a := NewArtists(map[string]string{"lofi": "Various", "guru-randhawa": "Guru", "blank": ""}, "Unknown")
		if a.Resolve("lofi") != "Various" || a.Resolve("guru-randhawa") != "Guru" {
			t.Error("expected overrides to apply")
		}
		if a.Resolve("blank") != "Unknown" || a.Resolve("nope") != "Unknown" {
			t.Error("expected fallback label")
		}
	})

	t.Run("nil receiver", func(t *testing.T) {
		var a *Artists
		if a.Resolve("x") != DefaultArtist {
			t.Error("expected nil Artists to resolve to the default label")
		}
	})
}

func TestDirLoader(t *testing.T) {
	root := t.TempDir()
	tu.MustWriteFile(t, filepath.Join(root, "lofi", "b.mp3"), []byte("b"))
	tu.MustWriteFile(t, filepath.Join(root, "lofi", "a.MP3"), []byte("a"))
	tu.MustWriteFile(t, filepath.Join(root, "lofi", "cover.jpg"), []byte("c"))
	tu.MustWriteFile(t, filepath.Join(root, "rock", "x.mp3"), []byte("x"))
	tu.MustWriteFile(t, filepath.Join(root, ".hidden", "y.mp3"), []byte("y"))
	tu.MustWriteFile(t, filepath.Join(root, "loose.mp3"), []byte("z"))

	loader := NewDirLoader(root, "", shared.NewLogger(&strings.Builder{}))

	t.Run("Load", func(t *testing.T) {
		tracks := loader.Load(context.Background(), "lofi")
		if len(tracks) != 2 || tracks[0] != "a.MP3" || tracks[1] != "b.mp3" {
			t.Errorf("expected sorted audio files, got %v", tracks)
		}
	})

	t.Run("Load missing folder", func(t *testing.T) {
		if tracks := loader.Load(context.Background(), "jazz"); tracks == nil || len(tracks) != 0 {
			t.Errorf("expected empty slice, got %#v", tracks)
		}
	})

	t.Run("Fetch", func(t *testing.T) {
		if _, err := loader.Fetch(context.Background(), "jazz"); !errors.Is(err, shared.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound, got %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := loader.Fetch(ctx, "lofi"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Tracks rejects traversal", func(t *testing.T) {
		for _, folder := range []string{"..", "../etc", "lofi/../rock", ""} {
			if _, err := loader.Tracks(folder); !errors.Is(err, shared.ErrFolderNotFound) {
				t.Errorf("Tracks(%q): expected ErrFolderNotFound, got %v", folder, err)
			}
		}
	})

	t.Run("Folders", func(t *testing.T) {
		folders, err := loader.Folders()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(folders) != 2 || folders[0] != "lofi" || folders[1] != "rock" {
			t.Errorf("expected [lofi rock], got %v", folders)
		}
	})

	t.Run("Path", func(t *testing.T) {
		p, err := loader.Path("lofi", "a.MP3")
		if err != nil || p != filepath.Join(root, "lofi", "a.MP3") {
			t.Errorf("unexpected path %q (%v)", p, err)
		}
		if _, err := loader.Path("lofi", "../rock/x.mp3"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})
}
