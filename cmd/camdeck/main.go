package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/cmercer/camdeck/internal/adb"
	"github.com/cmercer/camdeck/internal/cache"
	"github.com/cmercer/camdeck/internal/catalog"
	"github.com/cmercer/camdeck/internal/config"
	"github.com/cmercer/camdeck/internal/intake"
	"github.com/cmercer/camdeck/internal/log"
	"github.com/cmercer/camdeck/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("camdeck %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("camdeck is interactive; run it from a terminal")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to a null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting camdeck", "version", Version)

	if err := os.MkdirAll(cfg.Save.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	transport := adb.NewTransport(cfg.Device.ADBPath, logger)
	session := adb.NewSession(transport, cfg.Device.WirelessPort, logger)
	cat := catalog.New(session, cfg.Device.CameraDir, logger)
	puller := cache.New(session, cfg.Device.CameraDir, logger)
	live := adb.NewLiveView(cfg.Device.ScrcpyPath, logger)

	ledger, err := intake.OpenLedger(filepath.Join(config.DefaultDataDir(), "intakes.db"))
	if err != nil {
		// History is a convenience; run without it rather than failing
		logger.Warn("intake ledger unavailable", "error", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	model := tui.NewModel(cfg, session, cat, puller, live, ledger, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	// Live mirroring is unsupervised; stopping it on exit is best effort
	live.Stop()

	logger.Info("shutting down")
	return nil
}
