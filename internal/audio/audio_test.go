package audio

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/wav"
)

func writeWAV(t *testing.T, path string, samples int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(samples), format); err != nil {
		t.Fatalf("failed to encode wav: %v", err)
	}
}

func TestGain(t *testing.T) {
	tc := []struct {
		level  float64
		volume float64
		silent bool
	}{
		{1, 0, false},
		{0.5, -1, false},
		{0.25, -2, false},
		{0, 0, true},
	}

	for _, tt := range tc {
		v := &effects.Volume{}
		gain(v, tt.level)
		if v.Base != 2 || v.Silent != tt.silent || math.Abs(v.Volume-tt.volume) > 1e-9 {
			t.Errorf("gain(%v) = %+v, want volume %v silent %v", tt.level, *v, tt.volume, tt.silent)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeWAV(t, path, int(SampleRate))

	t.Run("file", func(t *testing.T) {
		streamer, format, err := load(http.DefaultClient, 0, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer streamer.Close()

		if format.SampleRate != SampleRate || format.NumChannels != 2 {
			t.Errorf("unexpected format %+v", format)
		}
		if d := format.SampleRate.D(streamer.Len()); d != time.Second {
			t.Errorf("expected 1s, got %v", d)
		}
	})

	t.Run("http", func(t *testing.T) {
		server := httptest.NewServer(http.FileServer(http.Dir(dir)))
		defer server.Close()

		streamer, _, err := load(server.Client(), time.Second, server.URL+"/tone.wav")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer streamer.Close()

		if streamer.Len() != int(SampleRate) {
			t.Errorf("expected %d samples, got %d", int(SampleRate), streamer.Len())
		}
	})

	t.Run("http status", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, _, err := load(server.Client(), 0, server.URL+"/missing.mp3"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		other := filepath.Join(dir, "tone.flac")
		if err := os.WriteFile(other, []byte("fLaC"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := load(http.DefaultClient, 0, other); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("corrupt data", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.wav")
		if err := os.WriteFile(bad, []byte("not a wav"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := load(http.DefaultClient, 0, bad); err == nil {
			t.Error("expected a decode error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := load(http.DefaultClient, 0, filepath.Join(dir, "nope.mp3")); err == nil {
			t.Error("expected a read error")
		}
	})
}
