package exportfile

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeffparker/plexport/internal/domain"
)

func sampleDocument() *Document {
	return &Document{
		Version:    FormatVersion,
		ExportedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Server:     "Living Room",
		Playlists: []Playlist{
			{
				Name:        "Movie Night",
				Description: "Friday picks",
				Items: []Item{
					{ID: "101", Title: "Alien", Year: 1979, Type: "movie", GUID: "imdb://tt0078748"},
					{ID: "102", Title: "Unknown Film", Type: "movie"},
				},
			},
			{
				Name:  "Empty",
				Items: []Item{},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Version != doc.Version {
		t.Errorf("version = %d, want %d", got.Version, doc.Version)
	}
	if got.Server != doc.Server {
		t.Errorf("server = %q, want %q", got.Server, doc.Server)
	}
	if !got.ExportedAt.Equal(doc.ExportedAt) {
		t.Errorf("exportedAt = %v, want %v", got.ExportedAt, doc.ExportedAt)
	}
	if len(got.Playlists) != 2 {
		t.Fatalf("playlists = %d, want 2", len(got.Playlists))
	}

	p := got.Playlists[0]
	if p.Name != "Movie Night" || p.Description != "Friday picks" {
		t.Errorf("playlist header = %q/%q", p.Name, p.Description)
	}
	if len(p.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(p.Items))
	}
	if p.Items[0] != doc.Playlists[0].Items[0] {
		t.Errorf("item 0 = %+v, want %+v", p.Items[0], doc.Playlists[0].Items[0])
	}
	if p.Items[1].Year != 0 {
		t.Errorf("unknown year = %d, want 0", p.Items[1].Year)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  DecodeErrorKind
		wantField string
	}{
		{
			name:     "not JSON",
			input:    "title,year\nAlien,1979",
			wantKind: MalformedJSON,
		},
		{
			name:     "truncated JSON",
			input:    `{"version": 1, "playlists": [`,
			wantKind: MalformedJSON,
		},
		{
			name:      "missing version",
			input:     `{"playlists": []}`,
			wantKind:  MissingField,
			wantField: "version",
		},
		{
			name:     "future version",
			input:    `{"version": 2, "playlists": []}`,
			wantKind: UnsupportedVersion,
		},
		{
			name:     "version zero",
			input:    `{"version": 0, "playlists": []}`,
			wantKind: UnsupportedVersion,
		},
		{
			name:      "missing playlists",
			input:     `{"version": 1}`,
			wantKind:  MissingField,
			wantField: "playlists",
		},
		{
			name:      "playlist without name",
			input:     `{"version": 1, "playlists": [{"items": []}]}`,
			wantKind:  MissingField,
			wantField: "name",
		},
		{
			name:      "playlist without items",
			input:     `{"version": 1, "playlists": [{"name": "Mix"}]}`,
			wantKind:  MissingField,
			wantField: "items",
		},
		{
			name:      "item without title",
			input:     `{"version": 1, "playlists": [{"name": "Mix", "items": [{"type": "movie"}]}]}`,
			wantKind:  MissingField,
			wantField: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("error type = %T, want *DecodeError", err)
			}
			if decodeErr.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", decodeErr.Kind, tt.wantKind)
			}
			if tt.wantField != "" && decodeErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", decodeErr.Field, tt.wantField)
			}
		})
	}
}

func TestDecodeValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "minimal", input: `{"version": 1, "playlists": []}`},
		{name: "empty item list", input: `{"version": 1, "playlists": [{"name": "Mix", "items": []}]}`},
		{
			name:  "unknown fields ignored",
			input: `{"version": 1, "playlists": [], "generator": "someday", "extra": {"a": 1}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.input)); err != nil {
				t.Errorf("Decode: %v", err)
			}
		})
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	doc := sampleDocument()

	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got.Playlists) != len(doc.Playlists) {
		t.Errorf("playlists = %d, want %d", len(got.Playlists), len(doc.Playlists))
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestItemConversion(t *testing.T) {
	m := &domain.MediaItem{
		ID:    "42",
		Title: "Blade Runner",
		Year:  1982,
		Type:  domain.MediaTypeMovie,
		GUID:  "imdb://tt0083658",
	}

	it := NewItem(m)
	if it.Type != "movie" {
		t.Errorf("type = %q, want %q", it.Type, "movie")
	}

	back := it.MediaItem()
	if back.ID != m.ID || back.Title != m.Title || back.Year != m.Year || back.GUID != m.GUID {
		t.Errorf("round-trip mismatch: %+v vs %+v", back, m)
	}
	if back.Type != domain.MediaTypeMovie {
		t.Errorf("type = %v, want MediaTypeMovie", back.Type)
	}
}
