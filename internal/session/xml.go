package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// ErrMalformed is returned when the document cannot be parsed at all.
var ErrMalformed = errors.New("session: malformed document")

var (
	trackExpr  = xpath.MustCompile("//Track")
	playerExpr = xpath.MustCompile(".//Player")
	mediaExpr  = xpath.MustCompile(".//Media")
	thumbExpr  = xpath.MustCompile(".//thumb")
)

type xmlAttrs struct{ n *xmlquery.Node }

func (a xmlAttrs) Attr(name string) (string, bool) {
	for _, at := range a.n.Attr {
		if at.Name.Space == "" && at.Name.Local == name {
			return at.Value, true
		}
	}
	return "", false
}

// ParseXML extracts a Snapshot from an XML sessions document. Every Track
// element is one session; sessions without a Player are skipped, sessions
// without Media still register their device.
func ParseXML(body string) (*Snapshot, error) {
	doc, err := xmlquery.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := checkProlog(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	snap := &Snapshot{}
	for _, track := range xmlquery.QuerySelectorAll(doc, trackExpr) {
		player := xmlquery.QuerySelector(track, playerExpr)
		if player == nil {
			continue
		}
		name, status, ok := playerIdentity(xmlAttrs{player})
		if !ok {
			continue
		}
		device := snap.observe(name, status)

		media := xmlquery.QuerySelector(track, mediaExpr)
		if media == nil {
			continue
		}
		thumb := ""
		if n := xmlquery.QuerySelector(media, thumbExpr); n != nil {
			thumb = strings.TrimSpace(n.InnerText())
		}
		device.Tracks = append(device.Tracks, buildTrack(xmlAttrs{track}, xmlAttrs{media}, thumb))
	}
	return snap, nil
}

// checkProlog requires exactly one document element. Only whitespace,
// comments and declarations may surround it. xmlquery attaches anything read
// before the first element as a sibling of the document node, so both chains
// are walked.
func checkProlog(doc *xmlquery.Node) error {
	roots := 0
	for _, first := range []*xmlquery.Node{doc.NextSibling, doc.FirstChild} {
		for n := first; n != nil; n = n.NextSibling {
			switch n.Type {
			case xmlquery.ElementNode:
				roots++
				if roots > 1 {
					return fmt.Errorf("extra element <%s> after document element", n.Data)
				}
			case xmlquery.TextNode, xmlquery.CharDataNode:
				if text := strings.TrimSpace(n.Data); text != "" {
					return fmt.Errorf("text %q outside document element", text)
				}
			}
		}
	}
	if roots == 0 {
		return errors.New("no root element")
	}
	return nil
}
