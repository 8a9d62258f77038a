package session

import (
	"strconv"
	"strings"
)

// Placeholders substituted for absent fields.
const (
	UnknownTrack  = "Unknown Track"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownStatus = "unknown"

	// VariousArtists is the compilation artist that is replaced by the
	// track's own artist credit.
	VariousArtists = "Various Artists"
)

// attrs is a read-only view of one element's attributes.
type attrs interface {
	Attr(name string) (string, bool)
}

// TextOr returns v when present, otherwise def. A present empty value is kept.
func TextOr(v string, ok bool, def string) string {
	if !ok {
		return def
	}
	return v
}

// ResolveArtist applies the compilation rule: "Various Artists" is replaced by
// the alternate credit, or the placeholder when that is absent too.
func ResolveArtist(artist string, hasArtist bool, original string, hasOriginal bool) string {
	a := TextOr(artist, hasArtist, UnknownArtist)
	if a == VariousArtists {
		return TextOr(original, hasOriginal, UnknownArtist)
	}
	return a
}

// ParseMillis parses a millisecond count. Absent or unparsable values are 0.
func ParseMillis(v string, ok bool) int {
	if !ok {
		return 0
	}
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return 0
}

// Progress returns elapsed/duration as a percentage, or 0 without a duration.
// The result is not clamped.
func Progress(elapsedMs, durationMs int) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(elapsedMs) / float64(durationMs) * 100
}

// buildTrack applies every field rule to one session. track carries the
// metadata attributes, media the media attributes; thumb is already resolved.
func buildTrack(track, media attrs, thumb string) Track {
	artist, hasArtist := track.Attr("grandparentTitle")
	original, hasOriginal := track.Attr("originalTitle")
	title, hasTitle := track.Attr("title")
	album, hasAlbum := track.Attr("parentTitle")
	return Track{
		Title:      TextOr(title, hasTitle, UnknownTrack),
		Artist:     ResolveArtist(artist, hasArtist, original, hasOriginal),
		Album:      TextOr(album, hasAlbum, UnknownAlbum),
		DurationMs: ParseMillis(media.Attr("duration")),
		ElapsedMs:  ParseMillis(track.Attr("viewOffset")),
		Thumbnail:  thumb,
	}
}

// playerIdentity reads device name and state. A player without a usable
// name cannot be attributed and is skipped; a missing state reads as unknown.
func playerIdentity(player attrs) (name, status string, ok bool) {
	name, hasName := player.Attr("title")
	if !hasName || strings.TrimSpace(name) == "" {
		return "", "", false
	}
	status, hasState := player.Attr("state")
	if !hasState || status == "" {
		status = UnknownStatus
	}
	return name, status, true
}
