package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/claesbert/PlexAmpCliStatus/internal/app"
	"github.com/claesbert/PlexAmpCliStatus/internal/config"
	"github.com/claesbert/PlexAmpCliStatus/internal/dashboard"
	"github.com/claesbert/PlexAmpCliStatus/internal/logging"
	"github.com/claesbert/PlexAmpCliStatus/internal/monitor"
	"github.com/claesbert/PlexAmpCliStatus/internal/plex"
	"github.com/claesbert/PlexAmpCliStatus/internal/session"
	"github.com/claesbert/PlexAmpCliStatus/internal/ui"
)

var version = "0.1.0"

const discoverTimeout = 5 * time.Second

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `plexamp-status - live terminal dashboard of Plex playback sessions

Usage: plexamp-status [options]

Options:
  -config string
        Path to config file (default: ~/.config/plexamp-status/config.toml)
  -version
        Print version and exit

Display:
  -tui
        Run as an interactive TUI (r refresh, a cover art, d diagnostics, q quit)
  -once
        Render a single cycle and exit
  -device string
        Only show devices whose name fuzzy-matches this pattern
  -interval duration
        Override the refresh interval (e.g. 5s)

Diagnostics:
  -doctor
        Print the effective configuration and probe the server once

Environment:
  PLEX_HOST, PLEX_PORT, PLEX_SCHEME, PLEX_TOKEN override the config file.
  A .env file in the working directory is read as well. NO_COLOR disables colors.

Examples:
  plexamp-status                           # Refresh every 10 seconds
  plexamp-status -tui                      # Interactive dashboard
  plexamp-status -device "Living" -once    # One frame for one device
  plexamp-status -doctor                   # Check setup

`)
	}

	cfgPath := flag.String("config", "", "")
	showVersion := flag.Bool("version", false, "")
	tui := flag.Bool("tui", false, "")
	once := flag.Bool("once", false, "")
	device := flag.String("device", "", "")
	interval := flag.Duration("interval", 0, "")
	doctor := flag.Bool("doctor", false, "")
	flag.Parse()

	if *showVersion {
		fmt.Println("plexamp-status", version)
		return
	}

	cfg, resolvedPath, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("setup logging: %v", err)
	}
	defer logFile.Close()
	logger.Info("starting plexamp-status", slog.String("version", version), slog.String("config", resolvedPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Host == "" && cfg.Server.Discover {
		srv, err := plex.Discover(ctx, discoverTimeout)
		if err != nil {
			logger.Error("discover server", slog.Any("err", err))
			log.Fatalf("discover server: %v", err)
		}
		logger.Info("discovered server", slog.String("name", srv.Name), slog.String("host", srv.Host), slog.Int("port", srv.Port))
		cfg.Server.Host = srv.Host
		cfg.Server.Port = srv.Port
	}

	if *device != "" {
		cfg.UI.DeviceFilter = *device
	}
	every := cfg.Interval()
	if *interval > 0 {
		every = *interval
	}

	client := plex.New(plex.Options{
		URL:     cfg.SessionsURL(),
		Format:  plex.Format(cfg.Server.Format),
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	extract := func(body string) (*session.Snapshot, error) {
		return session.Parse(cfg.Server.Format, body)
	}

	if *doctor {
		runDoctor(ctx, cfg, resolvedPath, client, extract, logger)
		return
	}

	noColor := os.Getenv("NO_COLOR") != "" || cfg.UI.NoColor
	theme := ui.GetTheme(cfg.UI.Theme, noColor)

	if *tui {
		profile := lipgloss.ColorProfile()
		if noColor {
			profile = termenv.Ascii
		}
		model := app.New(app.Options{
			Fetcher:  client,
			Extract:  extract,
			Filter:   cfg.UI.DeviceFilter,
			Interval: every,
			Theme:    theme,
			BarWidth: cfg.UI.BarWidth,
			Source:   client.URL(),
			Logger:   logger,

			Artwork:    client,
			ShowArt:    cfg.UI.Artwork && !noColor,
			ArtProfile: profile,
		})
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			logger.Error("run tui", slog.Any("err", err))
			log.Fatalf("tui: %v", err)
		}
		return
	}

	loop := monitor.New(monitor.Options{
		Fetcher:  client,
		Extract:  extract,
		Renderer: dashboard.NewScreen(os.Stdout, theme, cfg.UI.BarWidth),
		Interval: every,
		Filter:   cfg.UI.DeviceFilter,
		Logger:   logger,
	})
	if *once {
		err = loop.RunN(ctx, 1)
	} else {
		err = loop.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("poll loop", slog.Any("err", err))
		log.Fatalf("poll loop: %v", err)
	}
	logger.Info("stopped")
}

func runDoctor(ctx context.Context, cfg *config.Config, cfgPath string, client *plex.Client, extract monitor.ExtractFunc, logger *slog.Logger) {
	fmt.Println("plexamp-status doctor")
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Printf("Config file: not found (%s), using environment\n", cfgPath)
	} else {
		fmt.Printf("Config file: OK (%s)\n", cfgPath)
	}
	fmt.Printf("Sessions URL: %s\n", client.URL())
	fmt.Printf("Format: %s\n", client.Format())
	fmt.Printf("Timeout: %s\n", cfg.Timeout())
	fmt.Printf("Interval: %s\n", cfg.Interval())
	fmt.Printf("Theme: %s\n", cfg.UI.Theme)
	if cfg.UI.DeviceFilter != "" {
		fmt.Printf("Device filter: %q\n", cfg.UI.DeviceFilter)
	}

	res := monitor.Evaluate(ctx, client, extract, cfg.UI.DeviceFilter)
	switch res.Outcome {
	case monitor.OutcomeRendered:
		fmt.Printf("Server: OK (%s, %d device(s), %d track(s))\n", res.Latency.Round(time.Millisecond), res.Snapshot.Len(), res.Snapshot.TrackCount())
	case monitor.OutcomeEmpty:
		fmt.Printf("Server: OK (%s, nothing playing)\n", res.Latency.Round(time.Millisecond))
	default:
		fmt.Printf("Server: ERROR - %v\n", res.Err)
		if hint := errorHint(res.Err); hint != "" {
			fmt.Printf("  hint: %s\n", hint)
		}
	}
	logger.Info("doctor complete", slog.String("outcome", res.Outcome.String()))
}

func errorHint(err error) string {
	switch {
	case plex.IsUnauthorized(err):
		return "the token was rejected; check server.token or PLEX_TOKEN"
	case plex.IsNotFound(err):
		return "the server does not expose /status/sessions; check host and port"
	case plex.IsRateLimited(err):
		return "the server is throttling requests; raise poll.interval_secs"
	case plex.IsTemporary(err):
		return "the server is slow or erroring; raise server.timeout_ms or retry later"
	case plex.IsOffline(err):
		return "the server is unreachable; check server.host, server.port and server.scheme"
	case errors.Is(err, session.ErrMalformed):
		return "the response is not a sessions document; check server.format"
	default:
		return ""
	}
}
