// Package app hosts the dashboard inside a bubbletea program.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/claesbert/PlexAmpCliStatus/internal/artwork"
	"github.com/claesbert/PlexAmpCliStatus/internal/dashboard"
	"github.com/claesbert/PlexAmpCliStatus/internal/monitor"
	"github.com/claesbert/PlexAmpCliStatus/internal/session"
	"github.com/claesbert/PlexAmpCliStatus/internal/ui"
)

// ArtworkSource downloads a scaled thumbnail.
type ArtworkSource interface {
	Artwork(ctx context.Context, thumb string, width, height int) ([]byte, error)
}

// artPixels is the thumbnail edge requested from the server; four pixels
// per cell column is plenty for half-block art.
const artPixels = artwork.DefaultWidth * 4

// Options configures the TUI. Fetcher and Extract are required.
type Options struct {
	Fetcher  monitor.Fetcher
	Extract  monitor.ExtractFunc
	Filter   string
	Interval time.Duration
	Theme    ui.Theme
	BarWidth int
	// Source is shown in the title bar. It must not contain the token.
	Source string
	Logger *slog.Logger

	// Artwork, when set, enables the cover art panel (toggled with a).
	Artwork    ArtworkSource
	ShowArt    bool
	ArtProfile termenv.Profile
}

type Model struct {
	opts Options
	diag *DiagnosticsState
	art  *artwork.Cache

	result   monitor.Result
	loaded   bool
	fetching bool
	showDiag bool
	showArt  bool
	// artRef is the thumbnail of the first track on screen.
	artRef string
	// gen ties ticks to the cycle that scheduled them so a manual refresh
	// does not leave a second timer running.
	gen    int
	width  int
	height int
}

func New(opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.BarWidth <= 0 {
		opts.BarWidth = dashboard.DefaultBarWidth
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		opts:     opts,
		diag:     NewDiagnosticsState(),
		art:      artwork.NewCache(0),
		fetching: true,
		showArt:  opts.ShowArt && opts.Artwork != nil,
	}
}

type cycleMsg struct {
	res monitor.Result
	gen int
}

type tickMsg struct {
	gen int
}

type artMsg struct {
	ref string
	art string
	err error
}

func (m Model) Init() tea.Cmd {
	return m.cycleCmd()
}

func (m Model) cycleCmd() tea.Cmd {
	gen := m.gen
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.Interval)
		defer cancel()
		return cycleMsg{res: monitor.Evaluate(ctx, m.opts.Fetcher, m.opts.Extract, m.opts.Filter), gen: gen}
	}
}

func (m Model) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.opts.Interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m Model) artCmd() tea.Cmd {
	ref := m.artRef
	if !m.showArt || ref == "" {
		return nil
	}
	if _, ok := m.art.Get(ref, artwork.DefaultWidth, artwork.DefaultHeight); ok {
		return nil
	}
	src, profile := m.opts.Artwork, m.opts.ArtProfile
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		data, err := src.Artwork(ctx, ref, artPixels, artPixels)
		if err != nil {
			return artMsg{ref: ref, err: err}
		}
		art, err := artwork.Render(data, artwork.DefaultWidth, artwork.DefaultHeight, profile)
		return artMsg{ref: ref, art: art, err: err}
	}
}

// firstThumb returns the thumbnail of the first track that has one.
func firstThumb(snap *session.Snapshot) string {
	if snap == nil {
		return ""
	}
	for _, d := range snap.Devices {
		for _, t := range d.Tracks {
			if t.Thumbnail != "" {
				return t.Thumbnail
			}
		}
	}
	return ""
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case cycleMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.result = msg.res
		m.loaded = true
		m.fetching = false
		m.diag.Record(msg.res)
		m.logCycle(msg.res)
		if msg.res.Outcome == monitor.OutcomeRendered {
			m.artRef = firstThumb(msg.res.Snapshot)
		}
		if art := m.artCmd(); art != nil {
			return m, tea.Batch(m.tickCmd(), art)
		}
		return m, m.tickCmd()
	case artMsg:
		art := msg.art
		if msg.err != nil {
			m.opts.Logger.Debug("artwork", slog.String("thumb", msg.ref), slog.Any("err", msg.err))
			art = artwork.Placeholder(artwork.DefaultWidth, artwork.DefaultHeight)
		}
		m.art.Set(msg.ref, artwork.DefaultWidth, artwork.DefaultHeight, art)
		return m, nil
	case tickMsg:
		if msg.gen != m.gen || m.fetching {
			return m, nil
		}
		m.fetching = true
		return m, m.cycleCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.fetching {
				return m, nil
			}
			m.gen++
			m.fetching = true
			return m, m.cycleCmd()
		case "d":
			m.showDiag = !m.showDiag
			return m, nil
		case "a":
			if m.opts.Artwork == nil {
				return m, nil
			}
			m.showArt = !m.showArt
			return m, m.artCmd()
		case "esc":
			m.showDiag = false
			return m, nil
		}
	}
	return m, nil
}

func (m Model) logCycle(res monitor.Result) {
	log := m.opts.Logger.With(slog.String("outcome", res.Outcome.String()), slog.Duration("latency", res.Latency))
	if res.Err != nil {
		log.Warn("cycle failed", slog.Any("err", res.Err))
		return
	}
	log.Debug("cycle complete", slog.Int("devices", res.Snapshot.Len()))
}

func (m Model) View() string {
	theme := m.opts.Theme
	title := theme.Header.Render("plexamp-status")
	if m.opts.Source != "" {
		title += theme.Dim.Render("  " + m.opts.Source)
	}

	body := m.renderBody()
	if m.showArt && m.loaded && m.result.Outcome == monitor.OutcomeRendered {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderArt(), "  ", body)
	}
	if m.showDiag {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.diag.Render(theme))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "", body, m.renderStatus())
}

func (m Model) renderBody() string {
	theme := m.opts.Theme
	if !m.loaded {
		return theme.Notice.Render("Loading…") + "\n"
	}
	switch m.result.Outcome {
	case monitor.OutcomeRendered:
		return dashboard.View(m.result.Snapshot, theme, m.opts.BarWidth)
	case monitor.OutcomeEmpty:
		return dashboard.EmptyView(theme)
	default:
		return dashboard.FailureView(theme, m.result.Err)
	}
}

func (m Model) renderArt() string {
	if m.artRef != "" {
		if art, ok := m.art.Get(m.artRef, artwork.DefaultWidth, artwork.DefaultHeight); ok {
			return art
		}
	}
	return artwork.Placeholder(artwork.DefaultWidth, artwork.DefaultHeight)
}

func (m Model) renderStatus() string {
	state := fmt.Sprintf("every %s", m.opts.Interval)
	if m.fetching {
		state = "refreshing…"
	}
	if m.opts.Filter != "" {
		state += fmt.Sprintf("  filter %q", m.opts.Filter)
	}
	keys := "  r refresh  d diagnostics  q quit"
	if m.opts.Artwork != nil {
		keys = "  r refresh  a art  d diagnostics  q quit"
	}
	return m.opts.Theme.Dim.Render(state + keys)
}
