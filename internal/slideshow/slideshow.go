// Package slideshow generates JPEG-encoded frames from a directory of
// still images, cycling through them on an interval. It exists to give
// the demo sender binary a source of realistic, variably-sized payloads
// to split across subframes.
package slideshow

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	draw2 "golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "image/gif"
	_ "image/png"
)

var ErrNoImages = errors.New("slideshow: directory contains no decodable images")

// Show cycles a set of images, loaded once and pre-scaled to a fixed
// output geometry, emitting JPEG-encoded frames on demand.
//
// A Show is safe for concurrent use; Next may be called from a
// different goroutine than the one that constructed it.
type Show struct {
	mu sync.Mutex

	width, height int
	quality       int
	interval      time.Duration
	timestamp     bool

	slides []image.Image
	cur    int
	since  time.Time
}

// Option configures a Show at construction.
type Option func(*Show)

// WithGeometry sets the output frame size in pixels. The default is
// 1280x720.
func WithGeometry(w, h int) Option {
	return func(s *Show) {
		if w > 0 && h > 0 {
			s.width, s.height = w, h
		}
	}
}

// WithInterval sets how long each slide is shown before advancing. The
// default is one second.
func WithInterval(d time.Duration) Option {
	return func(s *Show) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithQuality sets the JPEG encoding quality, clamped to [1, 100]. The
// default is 80.
func WithQuality(q int) Option {
	return func(s *Show) {
		if q < 1 {
			q = 1
		}
		if q > 100 {
			q = 100
		}
		s.quality = q
	}
}

// WithTimestampOverlay draws a text timestamp in the bottom-left corner
// of every emitted frame.
func WithTimestampOverlay(enabled bool) Option {
	return func(s *Show) { s.timestamp = enabled }
}

// Open loads every supported image under dir, scaling and letterboxing
// each to the configured geometry, and returns a Show ready to emit
// frames. It returns ErrNoImages if dir contains none.
func Open(dir string, opts ...Option) (*Show, error) {
	s := &Show{
		width:    1280,
		height:   720,
		quality:  80,
		interval: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	paths, err := listImagePaths(dir)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		img, err := decodeImage(p)
		if err != nil {
			continue
		}
		s.slides = append(s.slides, fitToCanvas(img, s.width, s.height))
	}
	if len(s.slides) == 0 {
		return nil, ErrNoImages
	}
	s.since = time.Now()
	return s, nil
}

// Next returns the current slide JPEG-encoded, advancing to the next
// slide if the configured interval has elapsed since the last advance.
func (s *Show) Next() ([]byte, error) {
	s.mu.Lock()
	if time.Since(s.since) >= s.interval {
		s.cur = (s.cur + 1) % len(s.slides)
		s.since = time.Now()
	}
	img := s.slides[s.cur]
	quality := s.quality
	withTimestamp := s.timestamp
	w, h := s.width, s.height
	s.mu.Unlock()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, image.Point{}, draw.Src)
	if withTimestamp {
		drawLabel(out, 20, h-20, time.Now().Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func listImagePaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(p) {
		case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// fitToCanvas scales img to fit within w x h preserving aspect ratio,
// centered over a black background.
func fitToCanvas(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw2.Draw(dst, dst.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw2.Src)

	sw, sh := img.Bounds().Dx(), img.Bounds().Dy()
	scale := float64(w) / float64(sw)
	if alt := float64(h) / float64(sh); alt < scale {
		scale = alt
	}
	nw, nh := int(float64(sw)*scale), int(float64(sh)*scale)
	offX, offY := (w-nw)/2, (h-nh)/2

	scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw2.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw2.Over, nil)
	draw.Draw(dst, image.Rect(offX, offY, offX+nw, offY+nh), scaled, image.Point{}, draw.Src)
	return dst
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := &xfont.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
