// Package exportfile defines the on-disk playlist document formats: the
// versioned JSON export document, the single-playlist CSV form, and the
// missing-items report written after an incomplete import.
package exportfile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jeffparker/plexport/internal/domain"
)

// FormatVersion is the current export document version
const FormatVersion = 1

// Document is the versioned JSON export artifact. Item order in the document
// equals server-side playlist order at export time.
type Document struct {
	Version    int        `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Server     string     `json:"server,omitempty"`
	Playlists  []Playlist `json:"playlists"`
}

// Playlist is one named, ordered playlist within a document
type Playlist struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Items       []Item `json:"items"`
}

// Item is a single playlist entry. The ID is best-effort (server rating keys
// are not portable across servers); title, year, type, and guid act as
// fallback match keys on import.
type Item struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"` // 0 = unknown, omitted on the wire
	Type  string `json:"type"`
	GUID  string `json:"guid,omitempty"`
}

// DecodeErrorKind classifies decode failures
type DecodeErrorKind int

const (
	MalformedJSON DecodeErrorKind = iota
	UnsupportedVersion
	MissingField
)

// String returns a human-readable name for the error kind
func (k DecodeErrorKind) String() string {
	switch k {
	case MalformedJSON:
		return "malformed JSON"
	case UnsupportedVersion:
		return "unsupported version"
	case MissingField:
		return "missing field"
	default:
		return "unknown"
	}
}

// DecodeError reports why a document could not be decoded
type DecodeError struct {
	Kind  DecodeErrorKind
	Field string // Offending field for MissingField
	Err   error  // Underlying parse error for MalformedJSON
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("invalid export document: missing field %q", e.Field)
	case UnsupportedVersion:
		return fmt.Sprintf("invalid export document: %s", e.Kind)
	default:
		return fmt.Sprintf("invalid export document: %s: %v", e.Kind, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewItem builds a document item from a domain media item
func NewItem(m *domain.MediaItem) Item {
	return Item{
		ID:    m.ID,
		Title: m.Title,
		Year:  m.Year,
		Type:  m.Type.String(),
		GUID:  m.GUID,
	}
}

// MediaItem converts a document item back to a domain media item
func (it Item) MediaItem() *domain.MediaItem {
	return &domain.MediaItem{
		ID:    it.ID,
		Title: it.Title,
		Year:  it.Year,
		Type:  domain.ParseMediaType(it.Type),
		GUID:  it.GUID,
	}
}

// Encode serializes a document to indented JSON. It never fails for
// well-formed in-memory documents; year values outside any plausible range
// pass through unmodified since the codec validates structure, not semantics.
func Encode(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// wire mirrors Document with pointer fields so absent and zero-valued
// required fields can be told apart during decoding
type wire struct {
	Version    *int           `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Server     string         `json:"server"`
	Playlists  *[]wirePlaylst `json:"playlists"`
}

type wirePlaylst struct {
	Name        *string `json:"name"`
	Description string  `json:"description"`
	Items       *[]Item `json:"items"`
}

// Decode parses and validates an export document. Unknown extra fields are
// ignored for forward compatibility. A missing version field is a
// MissingField error; an unrecognized version is UnsupportedVersion.
func Decode(data []byte) (*Document, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{Kind: MalformedJSON, Err: err}
	}

	if w.Version == nil {
		return nil, &DecodeError{Kind: MissingField, Field: "version"}
	}
	if *w.Version != FormatVersion {
		return nil, &DecodeError{Kind: UnsupportedVersion}
	}
	if w.Playlists == nil {
		return nil, &DecodeError{Kind: MissingField, Field: "playlists"}
	}

	doc := &Document{
		Version:    *w.Version,
		ExportedAt: w.ExportedAt,
		Server:     w.Server,
		Playlists:  make([]Playlist, 0, len(*w.Playlists)),
	}

	for _, p := range *w.Playlists {
		if p.Name == nil {
			return nil, &DecodeError{Kind: MissingField, Field: "name"}
		}
		if p.Items == nil {
			return nil, &DecodeError{Kind: MissingField, Field: "items"}
		}
		for _, item := range *p.Items {
			if item.Title == "" {
				return nil, &DecodeError{Kind: MissingField, Field: "title"}
			}
		}
		doc.Playlists = append(doc.Playlists, Playlist{
			Name:        *p.Name,
			Description: p.Description,
			Items:       *p.Items,
		})
	}

	return doc, nil
}

// WriteFile encodes a document and writes it to path
func WriteFile(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads and decodes a document from path
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(data)
}
