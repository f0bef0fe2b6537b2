package library

// DefaultArtist is shown for folders missing from the lookup table.
const DefaultArtist = "Hemant Yadav"

var builtinArtists = map[string]string{
	"guru-randhawa":      "Guru Randhawa",
	"karan-ahujla":       "Karan Aujla",
	"karan ahujla":       "Karan Aujla",
	"no-copyright-vibes": "No Copyright Vibes",
}

// Artists is a static folder → artist label lookup with a fallback label.
type Artists struct {
	table    map[string]string
	fallback string
}

// DefaultArtists returns the built-in lookup table.
func DefaultArtists() *Artists {
	return NewArtists(nil, "")
}

// NewArtists layers overrides on top of the built-in table.
// An empty fallback keeps [DefaultArtist].
func NewArtists(overrides map[string]string, fallback string) *Artists {
	table := make(map[string]string, len(builtinArtists)+len(overrides))
	for k, v := range builtinArtists {
		table[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			table[k] = v
		}
	}
	if fallback == "" {
		fallback = DefaultArtist
	}
	return &Artists{table: table, fallback: fallback}
}

// Resolve returns the artist label for folder.
func (a *Artists) Resolve(folder string) string {
	if a == nil {
		return DefaultArtist
	}
	if artist, ok := a.table[folder]; ok {
		return artist
	}
	return a.fallback
}
