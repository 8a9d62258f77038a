// Package artwork turns cover thumbnails into terminal art.
package artwork

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

var ErrInvalid = errors.New("invalid artwork data")

const (
	DefaultWidth  = 24
	DefaultHeight = 12
)

// Cache keeps converted art in memory for the life of the process, keyed by
// thumbnail reference and size. The oldest entry is evicted once max is reached.
type Cache struct {
	mu    sync.Mutex
	max   int
	order []string
	items map[string]string
}

func NewCache(max int) *Cache {
	if max <= 0 {
		max = 32
	}
	return &Cache{max: max, items: make(map[string]string)}
}

func cacheKey(ref string, width, height int) string {
	return fmt.Sprintf("%s@%dx%d", ref, width, height)
}

func (c *Cache) Get(ref string, width, height int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	art, ok := c.items[cacheKey(ref, width, height)]
	return art, ok
}

func (c *Cache) Set(ref string, width, height int, art string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(ref, width, height)
	if _, ok := c.items[key]; !ok {
		c.order = append(c.order, key)
	}
	c.items[key] = art
	for len(c.order) > c.max {
		delete(c.items, c.order[0])
		c.order = c.order[1:]
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Render converts image data to half-block art: each cell shows two
// vertically stacked pixels, the upper as foreground and the lower as
// background. The result fits in width×height cells, keeping aspect ratio.
func Render(data []byte, width, height int, profile termenv.Profile) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()
	if imgW == 0 || imgH == 0 {
		return "", ErrInvalid
	}

	// Two pixel rows per cell row.
	cols := width
	rows := int(float64(cols) * float64(imgH) / float64(imgW) / 2)
	if rows > height {
		rows = height
		cols = int(float64(rows) * 2 * float64(imgW) / float64(imgH))
	}
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	sample := func(x, y int) termenv.Color {
		sx := bounds.Min.X + min(x*imgW/cols, imgW-1)
		sy := bounds.Min.Y + min(y*imgH/(rows*2), imgH-1)
		return profile.FromColor(img.At(sx, sy))
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			b.WriteString(profile.String("▀").
				Foreground(sample(x, y*2)).
				Background(sample(x, y*2+1)).
				String())
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// Placeholder is a bordered box with a note in the middle, shown while art
// loads or when a track has none.
func Placeholder(width, height int) string {
	if width < 3 {
		width = DefaultWidth
	}
	if height < 3 {
		height = DefaultHeight
	}
	inner := width - 2
	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", inner) + "┐\n")
	for y := 1; y < height-1; y++ {
		if y == height/2 {
			left := (inner - 1) / 2
			b.WriteString("│" + strings.Repeat(" ", left) + "♪" + strings.Repeat(" ", inner-left-1) + "│\n")
			continue
		}
		b.WriteString("│" + strings.Repeat(" ", inner) + "│\n")
	}
	b.WriteString("└" + strings.Repeat("─", inner) + "┘")
	return b.String()
}
