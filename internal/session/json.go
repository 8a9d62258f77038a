package session

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// flexString accepts a JSON string or number and keeps its text form.
// The server emits numeric fields as numbers but older builds quote them.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

type jsonContainer struct {
	MediaContainer *jsonMediaContainer `json:"MediaContainer"`
}

type jsonMediaContainer struct {
	Metadata []jsonMetadata `json:"Metadata"`
}

type jsonMetadata struct {
	Type             string      `json:"type"`
	Title            *flexString `json:"title"`
	ParentTitle      *flexString `json:"parentTitle"`
	GrandparentTitle *flexString `json:"grandparentTitle"`
	OriginalTitle    *flexString `json:"originalTitle"`
	ViewOffset       *flexString `json:"viewOffset"`
	Player           *jsonPlayer `json:"Player"`
	Media            []jsonMedia `json:"Media"`
}

type jsonPlayer struct {
	Title *flexString `json:"title"`
	State *flexString `json:"state"`
}

type jsonMedia struct {
	Duration *flexString `json:"duration"`
	Thumb    *flexString `json:"thumb"`
}

// fieldMap adapts decoded JSON fields to attrs; nil entries are absent.
type fieldMap map[string]*flexString

func (m fieldMap) Attr(name string) (string, bool) {
	v, ok := m[name]
	if !ok || v == nil {
		return "", false
	}
	return string(*v), true
}

// ParseJSON extracts a Snapshot from a JSON sessions document. Only metadata
// entries of type "track" are sessions; the rules match ParseXML.
func ParseJSON(body string) (*Snapshot, error) {
	var doc jsonContainer
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.MediaContainer == nil {
		return nil, fmt.Errorf("%w: no MediaContainer object", ErrMalformed)
	}

	snap := &Snapshot{}
	for _, md := range doc.MediaContainer.Metadata {
		if !strings.EqualFold(md.Type, "track") || md.Player == nil {
			continue
		}
		name, status, ok := playerIdentity(fieldMap{"title": md.Player.Title, "state": md.Player.State})
		if !ok {
			continue
		}
		device := snap.observe(name, status)

		if len(md.Media) == 0 {
			continue
		}
		media := md.Media[0]
		thumb := ""
		if media.Thumb != nil {
			thumb = strings.TrimSpace(string(*media.Thumb))
		}
		track := fieldMap{
			"title":            md.Title,
			"parentTitle":      md.ParentTitle,
			"grandparentTitle": md.GrandparentTitle,
			"originalTitle":    md.OriginalTitle,
			"viewOffset":       md.ViewOffset,
		}
		device.Tracks = append(device.Tracks, buildTrack(track, fieldMap{"duration": media.Duration}, thumb))
	}
	return snap, nil
}

// Parse dispatches on the configured wire format ("xml" or "json").
func Parse(format, body string) (*Snapshot, error) {
	if strings.EqualFold(format, "json") {
		return ParseJSON(body)
	}
	return ParseXML(body)
}
