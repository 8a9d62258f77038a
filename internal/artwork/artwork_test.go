package artwork

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestCacheGetSet(t *testing.T) {
	cache := NewCache(4)

	if _, ok := cache.Get("/thumb/1", 20, 10); ok {
		t.Error("expected cache miss")
	}

	cache.Set("/thumb/1", 20, 10, "test art")
	art, ok := cache.Get("/thumb/1", 20, 10)
	if !ok {
		t.Error("expected cache hit")
	}
	if art != "test art" {
		t.Errorf("expected 'test art', got %q", art)
	}

	if _, ok := cache.Get("/thumb/1", 10, 10); ok {
		t.Error("expected cache miss for different size")
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	cache := NewCache(2)
	cache.Set("a", 1, 1, "A")
	cache.Set("b", 1, 1, "B")
	cache.Set("a", 1, 1, "A2")
	cache.Set("c", 1, 1, "C")

	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
	if _, ok := cache.Get("a", 1, 1); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if art, _ := cache.Get("c", 1, 1); art != "C" {
		t.Errorf("Get(c) = %q", art)
	}
}

func pngBytes(t *testing.T, w, h int, fill color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRender(t *testing.T) {
	data := pngBytes(t, 10, 10, color.RGBA{255, 0, 0, 255})

	art, err := Render(data, 8, 8, termenv.ANSI256)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(art, "\x1b[") {
		t.Error("expected ANSI escape codes in output")
	}
	lines := strings.Split(art, "\n")
	// A square image at 8 columns is 4 cell rows of two pixels each.
	if len(lines) != 4 {
		t.Errorf("rows = %d, want 4", len(lines))
	}
	if strings.Count(lines[0], "▀") != 8 {
		t.Errorf("columns = %d, want 8", strings.Count(lines[0], "▀"))
	}
}

func TestRenderFitsHeight(t *testing.T) {
	data := pngBytes(t, 10, 40, color.White)

	art, err := Render(data, 20, 5, termenv.ANSI256)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rows := strings.Count(art, "\n") + 1; rows != 5 {
		t.Errorf("rows = %d, want 5", rows)
	}
}

func TestRenderASCIIProfileHasNoColor(t *testing.T) {
	data := pngBytes(t, 4, 4, color.Black)
	art, err := Render(data, 4, 4, termenv.Ascii)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(art, "\x1b[") {
		t.Errorf("Ascii profile produced escape codes: %q", art)
	}
}

func TestRenderInvalid(t *testing.T) {
	if _, err := Render([]byte("not an image"), 8, 8, termenv.ANSI256); err == nil {
		t.Error("expected decode error")
	}
}

func TestPlaceholder(t *testing.T) {
	ph := Placeholder(20, 10)
	if !strings.Contains(ph, "♪") {
		t.Error("expected music note in placeholder")
	}
	lines := strings.Split(ph, "\n")
	if len(lines) != 10 {
		t.Errorf("rows = %d, want 10", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 20 {
			t.Errorf("line %d width = %d, want 20", i, n)
		}
	}
}
