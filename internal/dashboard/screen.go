package dashboard

import (
	"bytes"
	"io"
	"sync"

	"github.com/muesli/termenv"

	"github.com/claesbert/PlexAmpCliStatus/internal/session"
	"github.com/claesbert/PlexAmpCliStatus/internal/ui"
)

// Screen is a full-redraw terminal renderer. Every call clears the terminal
// and writes one complete frame in a single write.
type Screen struct {
	mu       sync.Mutex
	w        io.Writer
	theme    ui.Theme
	barWidth int
}

func NewScreen(w io.Writer, theme ui.Theme, barWidth int) *Screen {
	return &Screen{w: w, theme: theme, barWidth: barWidth}
}

// Dashboard draws the device view for snap.
func (s *Screen) Dashboard(snap *session.Snapshot) error {
	return s.redraw(View(snap, s.theme, s.barWidth))
}

// Empty draws the "nothing to display" notice.
func (s *Screen) Empty() error {
	return s.redraw(EmptyView(s.theme))
}

// Failure draws a flagged diagnostic in place of the dashboard.
func (s *Screen) Failure(err error) error {
	return s.redraw(FailureView(s.theme, err))
}

func (s *Screen) redraw(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	termenv.NewOutput(&buf).ClearScreen()
	buf.WriteString(frame)
	_, err := s.w.Write(buf.Bytes())
	return err
}
