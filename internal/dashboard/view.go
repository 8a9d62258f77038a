// Package dashboard renders a session snapshot as terminal text.
package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/claesbert/PlexAmpCliStatus/internal/session"
	"github.com/claesbert/PlexAmpCliStatus/internal/ui"
)

// DefaultBarWidth is the progress bar width in cells.
const DefaultBarWidth = 40

const (
	barFilled = "#"
	barEmpty  = "."
)

// View renders snap. It is a pure function of its arguments: the same
// snapshot always yields the same text.
func View(snap *session.Snapshot, theme ui.Theme, barWidth int) string {
	if snap == nil || snap.Empty() {
		return EmptyView(theme)
	}
	if barWidth <= 0 {
		barWidth = DefaultBarWidth
	}

	var b strings.Builder
	for _, d := range snap.Devices {
		header := fmt.Sprintf("Device: %s (Status: %s)", d.Name, strings.ToUpper(d.Status))
		b.WriteString(theme.Header.Render(header) + "\n")
		for _, t := range d.Tracks {
			writeTrack(&b, theme, t, barWidth)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeTrack(b *strings.Builder, theme ui.Theme, t session.Track, barWidth int) {
	field := func(label, value string, style func(...string) string) {
		b.WriteString("  " + theme.Label.Render(label+":") + " " + style(value) + "\n")
	}
	field("Track", t.Title, theme.Track.Render)
	field("Artist", t.Artist, theme.Artist.Render)
	field("Album", t.Album, theme.Album.Render)
	field("Duration", FormatDuration(t.DurationMs), theme.Duration.Render)
	if t.Thumbnail != "" {
		field("Thumbnail", t.Thumbnail, theme.Thumbnail.Render)
	}
	pct := t.ProgressPercent()
	bar := "[" + ProgressBar(pct, barWidth) + "]"
	b.WriteString("  " + theme.Label.Render("Progress:") + " " + theme.Progress.Render(bar) + " " + theme.Percent.Render(FormatPercent(pct)) + "\n")
}

// FormatDuration renders milliseconds as minutes:seconds with two-digit seconds.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d:%02d", ms/60000, (ms%60000)/1000)
}

// FilledCells is floor(percent/100 * width), held to [0, width].
func FilledCells(percent float64, width int) int {
	n := int(math.Floor(percent / 100 * float64(width)))
	if n < 0 {
		return 0
	}
	if n > width {
		return width
	}
	return n
}

// ProgressBar draws width cells, the filled ones first.
func ProgressBar(percent float64, width int) string {
	filled := FilledCells(percent, width)
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// FormatPercent rounds to the nearest whole number. Values over 100 are shown as-is.
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(percent)))
}

// EmptyView is shown when the server reports nothing attributable to a device.
func EmptyView(theme ui.Theme) string {
	return theme.Notice.Render("No device info to display.") + "\n"
}

// FailureView explains why this cycle has no dashboard.
func FailureView(theme ui.Theme, err error) string {
	msg := "Failed to retrieve data"
	if errors.Is(err, session.ErrMalformed) {
		msg = "Failed to parse session data"
	}
	if err != nil {
		msg += ": " + err.Error()
	}
	return theme.Error.Render(msg) + "\n"
}
