package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps each dashboard element to a style. Header, Track, Artist and
// Album must stay visually distinct from one another in every colored theme.
type Theme struct {
	Name      string
	Header    lipgloss.Style
	Label     lipgloss.Style
	Track     lipgloss.Style
	Artist    lipgloss.Style
	Album     lipgloss.Style
	Duration  lipgloss.Style
	Thumbnail lipgloss.Style
	Progress  lipgloss.Style
	Percent   lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
	Dim       lipgloss.Style
}

type palette struct {
	header, track, artist, album, duration, thumbnail, progress, percent, errorC, notice, dim lipgloss.Color
}

func (p palette) theme(name string) Theme {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Theme{
		Name:      name,
		Header:    fg(p.header).Bold(true),
		Label:     lipgloss.NewStyle().Bold(true),
		Track:     fg(p.track).Bold(true),
		Artist:    fg(p.artist),
		Album:     fg(p.album),
		Duration:  fg(p.duration),
		Thumbnail: fg(p.thumbnail),
		Progress:  fg(p.progress),
		Percent:   fg(p.percent).Bold(true),
		Error:     fg(p.errorC).Bold(true),
		Notice:    fg(p.notice).Bold(true),
		Dim:       fg(p.dim),
	}
}

// themeRegistry maps theme names to constructors.
var themeRegistry = map[string]func(bool) Theme{
	"rainbow": Rainbow,
	"nord":    Nord,
	"dracula": Dracula,
	"gruvbox": Gruvbox,
	"mono":    Monochrome,
	"green":   GreenTerminal,
	"nocolor": NoColor,
}

// ThemeNames returns the sorted list of available theme names.
func ThemeNames() []string {
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns a theme by name. Returns Rainbow if name not found.
func GetTheme(name string, noColor bool) Theme {
	if noColor {
		return NoColor(noColor)
	}
	if fn, ok := themeRegistry[name]; ok {
		return fn(noColor)
	}
	return Rainbow(noColor)
}

// ValidTheme returns true if the theme name is valid.
func ValidTheme(name string) bool {
	_, ok := themeRegistry[name]
	return ok
}

// Rainbow is the default colorful theme. The header/track/artist/album colors
// follow the classic blue, yellow, magenta, green console scheme.
func Rainbow(noColor bool) Theme {
	if noColor {
		return NoColor(noColor)
	}
	return palette{
		header:    "#5C9DFF",
		track:     "#FFD166",
		artist:    "#FF6FF7",
		album:     "#5CFF5C",
		duration:  "#8EEBFF",
		thumbnail: "#E6E6FA",
		progress:  "#7C7CFF",
		percent:   "#FFD166",
		errorC:    "#FF5F56",
		notice:    "#FFA7C4",
		dim:       "#6C6F93",
	}.theme("rainbow")
}

// Nord uses the arctic Nord palette.
func Nord(noColor bool) Theme {
	if noColor {
		return NoColor(noColor)
	}
	return palette{
		header:    "#81A1C1",
		track:     "#EBCB8B",
		artist:    "#B48EAD",
		album:     "#A3BE8C",
		duration:  "#88C0D0",
		thumbnail: "#D8DEE9",
		progress:  "#8FBCBB",
		percent:   "#ECEFF4",
		errorC:    "#BF616A",
		notice:    "#D08770",
		dim:       "#4C566A",
	}.theme("nord")
}

// Dracula is the dark Dracula palette.
func Dracula(noColor bool) Theme {
	if noColor {
		return NoColor(noColor)
	}
	return palette{
		header:    "#BD93F9",
		track:     "#F1FA8C",
		artist:    "#FF79C6",
		album:     "#50FA7B",
		duration:  "#8BE9FD",
		thumbnail: "#F8F8F2",
		progress:  "#6272A4",
		percent:   "#FFB86C",
		errorC:    "#FF5555",
		notice:    "#FFB86C",
		dim:       "#6272A4",
	}.theme("dracula")
}

// Gruvbox is the retro groove palette.
func Gruvbox(noColor bool) Theme {
	if noColor {
		return NoColor(noColor)
	}
	return palette{
		header:    "#83A598",
		track:     "#FABD2F",
		artist:    "#D3869B",
		album:     "#B8BB26",
		duration:  "#8EC07C",
		thumbnail: "#EBDBB2",
		progress:  "#928374",
		percent:   "#FE8019",
		errorC:    "#FB4934",
		notice:    "#FE8019",
		dim:       "#665C54",
	}.theme("gruvbox")
}

// Monochrome is a grayscale theme; elements differ by weight and underline.
func Monochrome(noColor bool) Theme {
	if noColor {
		return NoColor(noColor)
	}
	t := palette{
		header:    "#FFFFFF",
		track:     "#FFFFFF",
		artist:    "#CCCCCC",
		album:     "#AAAAAA",
		duration:  "#CCCCCC",
		thumbnail: "#888888",
		progress:  "#888888",
		percent:   "#FFFFFF",
		errorC:    "#FFFFFF",
		notice:    "#CCCCCC",
		dim:       "#666666",
	}.theme("mono")
	t.Header = t.Header.Underline(true)
	t.Artist = t.Artist.Italic(true)
	t.Error = t.Error.Underline(true)
	return t
}

// GreenTerminal is a classic green-on-black terminal theme.
func GreenTerminal(noColor bool) Theme {
	if noColor {
		return NoColor(noColor)
	}
	t := palette{
		header:    "#00FF00",
		track:     "#00FF00",
		artist:    "#00CC00",
		album:     "#00AA00",
		duration:  "#00CC00",
		thumbnail: "#008800",
		progress:  "#008800",
		percent:   "#00FF00",
		errorC:    "#00FF00",
		notice:    "#00CC00",
		dim:       "#005500",
	}.theme("green")
	t.Header = t.Header.Underline(true)
	t.Error = t.Error.Reverse(true)
	return t
}

// NoColor is a high-contrast theme for NO_COLOR environments.
// Uses only bold, italic, underline, and reverse instead of colors.
func NoColor(_ bool) Theme {
	reset := lipgloss.NewStyle()
	return Theme{
		Name:      "nocolor",
		Header:    reset.Bold(true).Underline(true),
		Label:     reset.Bold(true),
		Track:     reset.Bold(true),
		Artist:    reset.Italic(true),
		Album:     reset,
		Duration:  reset,
		Thumbnail: reset,
		Progress:  reset,
		Percent:   reset.Bold(true),
		Error:     reset.Reverse(true),
		Notice:    reset.Bold(true),
		Dim:       reset,
	}
}
