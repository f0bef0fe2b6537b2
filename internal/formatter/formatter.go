// package formatter renders folder listings and play history as plain text, CSV, Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/songdeck/internal/library"
	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

// Format names an output encoding accepted by --format.
type Format string

const (
	Text     Format = "txt"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// Formats lists every supported format in help order.
var Formats = []Format{Text, CSV, Markdown, JSON}

// ParseFormat maps a --format value to a [Format]. "text" and "md" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return Text, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (expected txt, csv, markdown or json)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension used when writing f to disk.
func (f Format) Extension() string {
	switch f {
	case CSV:
		return ".csv"
	case Markdown:
		return ".md"
	case JSON:
		return ".json"
	default:
		return ".txt"
	}
}

// RenderPlaylist encodes a folder listing in format f.
func RenderPlaylist(p *models.Playlist, f Format) ([]byte, error) {
	switch f {
	case Text:
		return PlaylistToText(p)
	case CSV:
		return PlaylistToCSV(p)
	case Markdown:
		return PlaylistToMarkdown(p)
	case JSON:
		return toJSON(p)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// RenderHistory encodes play history in format f.
func RenderHistory(listens []*models.Listen, f Format) ([]byte, error) {
	switch f {
	case Text:
		return HistoryToText(listens)
	case CSV:
		return HistoryToCSV(listens)
	case Markdown:
		return HistoryToMarkdown(listens)
	case JSON:
		return toJSON(historyRecords(listens))
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// PlaylistToCSV converts a folder listing to CSV with columns: Position, Title, Filename, Artist
func PlaylistToCSV(p *models.Playlist) ([]byte, error) {
	rows := make([][]string, 0, len(p.Tracks))
	for i, track := range p.Tracks {
		rows = append(rows, []string{strconv.Itoa(i + 1), library.Title(track), track, p.Artist})
	}
	return writeCSV([]string{"Position", "Title", "Filename", "Artist"}, rows)
}

// PlaylistToMarkdown converts a folder listing to a Markdown document
func PlaylistToMarkdown(p *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Folder)
	fmt.Fprintf(&buf, "**Artist**: %s\n", p.Artist)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(p.Tracks))

	if len(p.Tracks) == 0 {
		buf.WriteString("_No songs found in this playlist_\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("## Tracks\n\n")
	for i, track := range p.Tracks {
		fmt.Fprintf(&buf, "%d. %s (`%s`)\n", i+1, library.Title(track), track)
	}

	return buf.Bytes(), nil
}

// PlaylistToText converts a folder listing to plain text
func PlaylistToText(p *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Folder)
	fmt.Fprintf(&buf, "Artist: %s\n", p.Artist)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(p.Tracks))

	for i, track := range p.Tracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, library.Title(track))
	}

	return buf.Bytes(), nil
}

// HistoryToCSV converts play history to CSV with columns: Played At, Folder, Title, Artist, Random
func HistoryToCSV(listens []*models.Listen) ([]byte, error) {
	rows := make([][]string, 0, len(listens))
	for _, l := range listens {
		rows = append(rows, []string{
			l.PlayedAt().Format(time.RFC3339),
			l.Folder(),
			library.Title(l.Track()),
			l.Artist(),
			strconv.FormatBool(l.Random()),
		})
	}
	return writeCSV([]string{"Played At", "Folder", "Title", "Artist", "Random"}, rows)
}

// HistoryToMarkdown converts play history to a Markdown table
func HistoryToMarkdown(listens []*models.Listen) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# History\n\n")
	if len(listens) == 0 {
		buf.WriteString("_Nothing played yet_\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| Played At | Folder | Title | Artist | Random |\n")
	buf.WriteString("|---|---|---|---|---|\n")
	for _, l := range listens {
		random := ""
		if l.Random() {
			random = "yes"
		}
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s |\n",
			l.PlayedAt().Local().Format("2006-01-02 15:04"),
			escapeCell(l.Folder()),
			escapeCell(library.Title(l.Track())),
			escapeCell(l.Artist()),
			random,
		)
	}

	return buf.Bytes(), nil
}

// HistoryToText converts play history to plain text, one listen per line
func HistoryToText(listens []*models.Listen) ([]byte, error) {
	var buf bytes.Buffer

	if len(listens) == 0 {
		buf.WriteString("Nothing played yet\n")
		return buf.Bytes(), nil
	}

	for _, l := range listens {
		line := fmt.Sprintf("%s  %s - %s [%s]", l.PlayedAt().Local().Format("2006-01-02 15:04"), l.Artist(), library.Title(l.Track()), l.Folder())
		if l.Random() {
			line += " • Random"
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// WriteExport writes rendered data to path, creating or truncating it.
func WriteExport(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path is required", shared.ErrMissingArgument)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

type historyRecord struct {
	ID       string    `json:"id"`
	Folder   string    `json:"folder"`
	Track    string    `json:"track"`
	Artist   string    `json:"artist"`
	Random   bool      `json:"random"`
	PlayedAt time.Time `json:"played_at"`
}

func historyRecords(listens []*models.Listen) []historyRecord {
	records := make([]historyRecord, 0, len(listens))
	for _, l := range listens {
		records = append(records, historyRecord{
			ID:       l.ID(),
			Folder:   l.Folder(),
			Track:    l.Track(),
			Artist:   l.Artist(),
			Random:   l.Random(),
			PlayedAt: l.PlayedAt(),
		})
	}
	return records
}

func toJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
