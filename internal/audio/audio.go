package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/player"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

var _ player.Sink = (*Sink)(nil)

// SampleRate is the rate the speaker is opened at; sources are resampled to it.
const SampleRate = beep.SampleRate(44100)

// SinkOpts configures a [Sink].
type SinkOpts struct {
	HTTPClient *http.Client
	Logger     *log.Logger
	Timeout    time.Duration // per-source fetch timeout, zero for none
}

func (o *SinkOpts) defaults() {
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	if o.Logger == nil {
		o.Logger = shared.NewLogger(nil)
	}
}

// gain maps a linear [0,1] level onto a base-2 [effects.Volume]; zero is silent.
func gain(v *effects.Volume, level float64) {
	v.Base = 2
	v.Silent = level <= 0
	if v.Silent {
		v.Volume = 0
		return
	}
	v.Volume = math.Log2(level)
}

// fetch reads the whole resource at src: an http(s) URL or a filesystem path.
func fetch(ctx context.Context, client *http.Client, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		data, err := os.ReadFile(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", shared.ErrTrackNotFound, src, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return data, nil
}

// decode picks a decoder from the extension of src.
func decode(src string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	name := src
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		name = u.Path
	}

	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".mp3":
		return mp3.Decode(nopCloser{bytes.NewReader(data)})
	case ".wav":
		return wav.Decode(bytes.NewReader(data))
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, ext)
	}
}

// load fetches and decodes src.
func load(client *http.Client, timeout time.Duration, src string) (beep.StreamSeekCloser, beep.Format, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	data, err := fetch(ctx, client, src)
	if err != nil {
		return nil, beep.Format{}, err
	}

	streamer, format, err := decode(src, data)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to decode %s: %w", path.Base(src), err)
	}
	return streamer, format, nil
}

// nopCloser keeps the reader seekable, which mp3 seeking depends on.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
