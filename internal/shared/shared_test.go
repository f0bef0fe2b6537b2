package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tu "github.com/desertthunder/songdeck/internal/testing"
)

func TestFormatClock(t *testing.T) {
	tc := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "zero", in: 0, want: "0:00"},
		{name: "negative", in: -5 * time.Second, want: "0:00"},
		{name: "under a minute", in: 7 * time.Second, want: "0:07"},
		{name: "truncates fractions", in: 59*time.Second + 900*time.Millisecond, want: "0:59"},
		{name: "minutes", in: 3*time.Minute + 25*time.Second, want: "3:25"},
		{name: "over an hour", in: 61 * time.Minute, want: "61:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatClock(tt.in); got != tt.want {
				t.Errorf("FormatClock(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	t.Run("ClockLabel", func(t *testing.T) {
		got := ClockLabel(65*time.Second, 4*time.Minute)
		if got != "1:05 / 4:00" {
			t.Errorf("expected 1:05 / 4:00, got %q", got)
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "folder", "lofi")
		logger.Info("loaded songs")

		out := buf.String()
		if !strings.Contains(out, "loaded songs") || !strings.Contains(out, "folder=lofi") {
			t.Errorf("expected message and key/value in output, got %q", out)
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "nested", "songdeck.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Warn("hello")
		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "hello") {
			t.Error("expected log line in file")
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("expected two distinct uuids, got %q and %q", a, b)
		}
	})
}
