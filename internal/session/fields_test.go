package session

import "testing"

func TestTextOr(t *testing.T) {
	if got := TextOr("", false, UnknownAlbum); got != UnknownAlbum {
		t.Errorf("TextOr(absent) = %q, want %q", got, UnknownAlbum)
	}
	if got := TextOr("", true, UnknownAlbum); got != "" {
		t.Errorf("TextOr(present empty) = %q, want empty", got)
	}
	if got := TextOr("Blue", true, UnknownAlbum); got != "Blue" {
		t.Errorf("TextOr(present) = %q, want Blue", got)
	}
}

func TestResolveArtist(t *testing.T) {
	tests := []struct {
		name        string
		artist      string
		hasArtist   bool
		original    string
		hasOriginal bool
		want        string
	}{
		{"plain artist", "Björk", true, "", false, "Björk"},
		{"absent artist", "", false, "Ignored", true, UnknownArtist},
		{"various with original", VariousArtists, true, "Aretha Franklin", true, "Aretha Franklin"},
		{"various without original", VariousArtists, true, "", false, UnknownArtist},
		{"original ignored otherwise", "Air", true, "Someone", true, "Air"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveArtist(tt.artist, tt.hasArtist, tt.original, tt.hasOriginal)
			if got != tt.want {
				t.Errorf("ResolveArtist() = %q, want %q", got, tt.want)
			}
			if got == VariousArtists {
				t.Error("ResolveArtist() must never return Various Artists")
			}
		})
	}
}

func TestParseMillis(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want int
	}{
		{"125000", true, 125000},
		{" 42 ", true, 42},
		{"", true, 0},
		{"12.5", true, 0},
		{"abc", true, 0},
		{"999", false, 0},
	}
	for _, tt := range tests {
		if got := ParseMillis(tt.in, tt.ok); got != tt.want {
			t.Errorf("ParseMillis(%q, %v) = %d, want %d", tt.in, tt.ok, got, tt.want)
		}
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		elapsed, duration int
		want              float64
	}{
		{50000, 200000, 25},
		{0, 200000, 0},
		{1000, 0, 0},
		{300000, 200000, 150},
	}
	for _, tt := range tests {
		if got := Progress(tt.elapsed, tt.duration); got != tt.want {
			t.Errorf("Progress(%d, %d) = %v, want %v", tt.elapsed, tt.duration, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	snap := &Snapshot{Devices: []Device{
		{Name: "Living Room"},
		{Name: "Bedroom"},
		{Name: "Kitchen"},
	}}

	if got := Filter(snap, ""); got != snap {
		t.Error("Filter with empty pattern should return the snapshot unchanged")
	}

	got := Filter(snap, "Bdrm")
	if got.Len() != 1 || got.Devices[0].Name != "Bedroom" {
		t.Errorf("Filter(Bdrm) = %+v, want Bedroom", got.Devices)
	}

	got = Filter(snap, "oo")
	if got.Len() != 2 || got.Devices[0].Name != "Living Room" || got.Devices[1].Name != "Bedroom" {
		t.Errorf("Filter(oo) = %+v, want Living Room then Bedroom", got.Devices)
	}

	if got := Filter(snap, "zzz"); !got.Empty() {
		t.Errorf("Filter(zzz) = %+v, want none", got.Devices)
	}
}
