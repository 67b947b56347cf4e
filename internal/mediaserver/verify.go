package mediaserver

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const verifyTimeout = 10 * time.Second

// plexIdentity represents the Plex /identity response
type plexIdentity struct {
	XMLName           xml.Name `xml:"MediaContainer"`
	MachineIdentifier string   `xml:"machineIdentifier,attr"`
	Version           string   `xml:"version,attr"`
}

// VerifyServer probes a server URL to confirm it is a Plex server.
// The /identity endpoint is unauthenticated, so this works before login.
func VerifyServer(ctx context.Context, serverURL string) error {
	serverURL = strings.TrimRight(serverURL, "/")

	client := &http.Client{
		Timeout: verifyTimeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/identity", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Try XML parsing (Plex default)
	var identity plexIdentity
	if err := xml.Unmarshal(body, &identity); err == nil {
		if identity.MachineIdentifier != "" {
			return nil
		}
	}

	// Try JSON parsing (Plex with Accept: application/json)
	var jsonIdentity struct {
		MediaContainer struct {
			MachineIdentifier string `json:"machineIdentifier"`
		} `json:"MediaContainer"`
	}
	if err := json.Unmarshal(body, &jsonIdentity); err == nil {
		if jsonIdentity.MediaContainer.MachineIdentifier != "" {
			return nil
		}
	}

	return fmt.Errorf("not a Plex server")
}
