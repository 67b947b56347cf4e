package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeffparker/plexport/internal/config"
	"github.com/jeffparker/plexport/internal/log"
	"github.com/jeffparker/plexport/internal/mediaserver"
	"github.com/jeffparker/plexport/internal/mediaserver/plex"
	"github.com/jeffparker/plexport/internal/service"
	"github.com/jeffparker/plexport/internal/store"
	"github.com/jeffparker/plexport/internal/tui"
	"github.com/jeffparker/plexport/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var showVersion bool
	var logout bool
	var clearCache bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&logout, "logout", false, "forget the saved server and token")
	flag.BoolVar(&clearCache, "clear-cache", false, "delete the local playlist cache")
	flag.Parse()

	if showVersion {
		fmt.Printf("plexport %s\n", Version)
		return
	}

	if err := run(logout, clearCache); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(logout, clearCache bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	if clearCache {
		if err := config.ClearCache(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Playlist cache cleared.")
		return nil
	}

	if logout {
		if err := config.ClearServerConfig(); err != nil {
			return fmt.Errorf("failed to clear server config: %w", err)
		}
		fmt.Println("Server configuration cleared. Run plexport again to set up.")
		return nil
	}

	logger.Info("starting plexport", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	// Create media source client
	client, err := mediaserver.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create media client: %w", err)
	}

	// Local playlist cache, keyed by server
	playlistStore, err := store.NewPlaylistStore(config.GetCachePath(), cfg.Server.URL)
	if err != nil {
		logger.Warn("failed to open playlist cache, running without persistence", "error", err)
		playlistStore, _ = store.NewPlaylistStore("", cfg.Server.URL)
	}
	defer playlistStore.Close()

	serverName := client.ServerName()
	if serverName != "" && serverName != cfg.Server.Name {
		cfg.Server.Name = serverName
		if err := config.SaveConfig(cfg); err != nil {
			logger.Warn("failed to persist server name", "error", err)
		}
	}

	playlistSvc := service.NewPlaylistService(client, client, playlistStore, serverName, logger)

	model := tui.NewModel(playlistSvc, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to plexport!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// Loop until we get a reachable server URL
	var serverURL string
	for {
		fmt.Print("Enter your Plex server URL (e.g., http://192.168.1.100:32400): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		if err := verifyServerWithSpinner(serverURL); err != nil {
			fmt.Printf("\n✗ Could not reach server: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}

		fmt.Println("✓ Plex server found")
		break
	}

	cfg.Server.URL = serverURL

	// Authenticate: plex.tv PIN by default, manual token as fallback
	fmt.Println()
	fmt.Print("Authenticate via plex.tv PIN? [Y/n]: ")
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var token string
	if strings.EqualFold(strings.TrimSpace(answer), "n") {
		token, err = readTokenHidden()
	} else {
		token, err = runPINAuth(logger)
		if err != nil {
			fmt.Printf("\n✗ PIN authentication failed: %v\n", err)
			fmt.Println("You can paste a token directly instead.")
			token, err = readTokenHidden()
		}
	}
	if err != nil {
		return err
	}

	cfg.Server.Token = token

	// Grab the friendly name for display and export metadata
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client := plex.NewClient(serverURL, token, logger)
	if err := client.FetchIdentity(ctx); err == nil {
		cfg.Server.Name = client.ServerName()
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run plexport again to start the application.")

	return nil
}

func runPINAuth(logger *slog.Logger) (string, error) {
	flow := plex.NewAuthFlow(logger)
	result, err := flow.Run(context.Background())
	if err != nil {
		return "", err
	}
	return result.Token, nil
}

// readTokenHidden prompts for a Plex token without echoing it
func readTokenHidden() (string, error) {
	fmt.Print("Paste your Plex token (input hidden): ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}
	return token, nil
}

// verifyServerWithSpinner probes the server with a visual spinner
func verifyServerWithSpinner(serverURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- mediaserver.VerifyServer(ctx, serverURL)
	}()

	frame := 0
	fmt.Printf("\r%s Checking server...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			return err

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking server...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("server check timed out")
		}
	}
}
