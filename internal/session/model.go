// Package session turns an active-sessions document into a Snapshot of
// playback devices and the tracks they are playing.
package session

// Device is a playback endpoint and the tracks attributed to it in one poll.
type Device struct {
	Name   string
	Status string
	Tracks []Track
}

// Track is one session's now-playing information.
type Track struct {
	Title      string
	Artist     string
	Album      string
	DurationMs int
	ElapsedMs  int
	Thumbnail  string
}

// ProgressPercent is recomputed from ElapsedMs and DurationMs on every call.
func (t Track) ProgressPercent() float64 {
	return Progress(t.ElapsedMs, t.DurationMs)
}

// Snapshot is every device seen in one poll, in first-seen order.
// Device names are unique within a snapshot.
type Snapshot struct {
	Devices []Device
}

// Len returns the number of devices. A nil snapshot has none.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Devices)
}

// Empty reports whether no device could be resolved.
func (s *Snapshot) Empty() bool { return s.Len() == 0 }

// Device returns the named device.
func (s *Snapshot) Device(name string) (Device, bool) {
	if i := s.index(name); i >= 0 {
		return s.Devices[i], true
	}
	return Device{}, false
}

// TrackCount returns the number of tracks across all devices.
func (s *Snapshot) TrackCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, d := range s.Devices {
		n += len(d.Tracks)
	}
	return n
}

func (s *Snapshot) index(name string) int {
	for i := range s.Devices {
		if s.Devices[i].Name == name {
			return i
		}
	}
	return -1
}

// observe records a sighting of a device, creating it on first sight.
// A later sighting overwrites the stored status.
func (s *Snapshot) observe(name, status string) *Device {
	i := s.index(name)
	if i < 0 {
		s.Devices = append(s.Devices, Device{Name: name, Status: status})
		return &s.Devices[len(s.Devices)-1]
	}
	s.Devices[i].Status = status
	return &s.Devices[i]
}
