package session

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Filter returns a snapshot holding only the devices whose names fuzzy-match
// pattern, in their original order. An empty pattern returns s unchanged.
func Filter(s *Snapshot, pattern string) *Snapshot {
	pattern = strings.TrimSpace(pattern)
	if s == nil || pattern == "" {
		return s
	}
	names := make([]string, len(s.Devices))
	for i, d := range s.Devices {
		names[i] = d.Name
	}
	keep := make(map[int]bool)
	for _, m := range fuzzy.Find(pattern, names) {
		keep[m.Index] = true
	}
	out := &Snapshot{}
	for i, d := range s.Devices {
		if keep[i] {
			out.Devices = append(out.Devices, d)
		}
	}
	return out
}
