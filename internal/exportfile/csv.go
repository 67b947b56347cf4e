package exportfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// csvHeader is the fixed column set for single-playlist CSV exports
var csvHeader = []string{"title", "year", "type", "guid", "id"}

// EncodeCSV writes a single playlist's items as CSV. The playlist name is
// not part of the CSV form; it is carried by the file name.
func EncodeCSV(w io.Writer, items []Item) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, item := range items {
		year := ""
		if item.Year > 0 {
			year = strconv.Itoa(item.Year)
		}
		if err := cw.Write([]string{item.Title, year, item.Type, item.GUID, item.ID}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads playlist items from CSV. Columns are resolved by header
// name so column order and extra columns do not matter.
func DecodeCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, &DecodeError{Kind: MalformedJSON, Err: fmt.Errorf("failed to read CSV header: %w", err)}
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["title"]; !ok {
		return nil, &DecodeError{Kind: MissingField, Field: "title"}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var items []Item
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DecodeError{Kind: MalformedJSON, Err: err}
		}

		title := field(record, "title")
		if title == "" {
			return nil, &DecodeError{Kind: MissingField, Field: "title"}
		}

		year := 0
		if y := field(record, "year"); y != "" {
			year, _ = strconv.Atoi(y)
		}

		items = append(items, Item{
			ID:    field(record, "id"),
			Title: title,
			Year:  year,
			Type:  field(record, "type"),
			GUID:  field(record, "guid"),
		})
	}

	return items, nil
}

// WriteCSVFile writes a single playlist to a CSV file
func WriteCSVFile(path string, items []Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodeCSV(f, items); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadCSVFile reads a single-playlist CSV file. The playlist name is derived
// from the file name, matching how the playlist was exported.
func ReadCSVFile(path string) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	items, err := DecodeCSV(f)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Playlist{Name: name, Items: items}, nil
}
