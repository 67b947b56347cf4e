package exportfile

import (
	"encoding/json"
	"fmt"
	"os"
)

// MissingItem records one document item that could not be matched against
// the destination server during import
type MissingItem struct {
	Playlist string `json:"playlist"`
	Item     Item   `json:"item"`
}

// WriteMissingReport writes the unmatched items from an import to a JSON
// report file so the user can see what was dropped. An empty list writes
// nothing and removes any stale report at path.
func WriteMissingReport(path string, missing []MissingItem) error {
	if len(missing) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale report %s: %w", path, err)
		}
		return nil
	}

	data, err := json.MarshalIndent(missing, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode missing report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
