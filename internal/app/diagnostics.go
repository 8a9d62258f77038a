package app

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/claesbert/PlexAmpCliStatus/internal/monitor"
	"github.com/claesbert/PlexAmpCliStatus/internal/ui"
)

// DiagnosticsState holds cycle metrics for the diagnostics overlay.
type DiagnosticsState struct {
	// Cycle timing
	Cycles       int
	Failures     int
	LastLatency  time.Duration
	TotalLatency time.Duration
	LastOutcome  monitor.Outcome
	LastError    string
	LastErrorAt  time.Time
	LastOKAt     time.Time

	// Devices seen in the last successful cycle
	Devices int
	Tracks  int

	StartTime      time.Time
	MemoryUsage    uint64
	GoroutineCount int
}

func NewDiagnosticsState() *DiagnosticsState {
	return &DiagnosticsState{StartTime: time.Now()}
}

// Record folds one finished cycle into the counters.
func (d *DiagnosticsState) Record(res monitor.Result) {
	d.Cycles++
	d.LastLatency = res.Latency
	d.TotalLatency += res.Latency
	d.LastOutcome = res.Outcome
	if res.Err != nil {
		d.Failures++
		d.LastError = res.Err.Error()
		d.LastErrorAt = time.Now()
		return
	}
	d.LastOKAt = time.Now()
	d.Devices = res.Snapshot.Len()
	d.Tracks = res.Snapshot.TrackCount()
}

// AverageLatency returns the mean cycle latency.
func (d *DiagnosticsState) AverageLatency() time.Duration {
	if d.Cycles == 0 {
		return 0
	}
	return d.TotalLatency / time.Duration(d.Cycles)
}

// Update refreshes runtime stats.
func (d *DiagnosticsState) Update() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	d.MemoryUsage = m.Alloc
	d.GoroutineCount = runtime.NumGoroutine()
}

func (d *DiagnosticsState) Uptime() time.Duration {
	return time.Since(d.StartTime)
}

// Render draws the overlay box.
func (d *DiagnosticsState) Render(theme ui.Theme) string {
	d.Update()

	var b strings.Builder
	b.WriteString(theme.Header.Render("Diagnostics"))
	b.WriteString("\n\n")
	b.WriteString(theme.Label.Render("Uptime: "))
	b.WriteString(d.Uptime().Round(time.Second).String())
	b.WriteString("\n\n")

	b.WriteString(theme.Label.Render("Cycles"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Total: %d\n", d.Cycles)
	fmt.Fprintf(&b, "  Failed: %d\n", d.Failures)
	if d.Cycles > 0 {
		fmt.Fprintf(&b, "  Last: %s\n", d.LastOutcome)
		fmt.Fprintf(&b, "  Last latency: %s\n", d.LastLatency.Round(time.Millisecond))
		fmt.Fprintf(&b, "  Avg latency: %s\n", d.AverageLatency().Round(time.Millisecond))
	}
	if !d.LastOKAt.IsZero() {
		fmt.Fprintf(&b, "  Devices: %d\n", d.Devices)
		fmt.Fprintf(&b, "  Tracks: %d\n", d.Tracks)
	}
	if d.LastError != "" && time.Since(d.LastErrorAt) < 5*time.Minute {
		b.WriteString(theme.Error.Render("  Last error: " + d.LastError))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(theme.Label.Render("Runtime"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Memory: %s\n", formatBytes(d.MemoryUsage))
	fmt.Fprintf(&b, "  Goroutines: %d\n", d.GoroutineCount)
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render("Press d to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(44).
		Render(b.String())
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
