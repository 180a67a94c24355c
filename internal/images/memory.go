package images

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/png" // PNG decoder registration
	"sort"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	xdraw "golang.org/x/image/draw"
)

// DefaultPreviewSize is the longest side of a generated thumbnail.
const DefaultPreviewSize = 128

type entry struct {
	img     image.Image
	preview *image.RGBA
}

// Memory is an in-process Registry. Images are decoded once on Register;
// previews are built lazily by EnsurePreview.
type Memory struct {
	PreviewSize int

	entries map[string]*entry
}

// NewMemory returns an empty registry.
func NewMemory() *Memory {
	return &Memory{
		PreviewSize: DefaultPreviewSize,
		entries:     make(map[string]*entry),
	}
}

// Register decodes data (PNG or BMP) and stores it under name.
func (m *Memory) Register(name string, data []byte) (Handle, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %s: %v", ErrInvalidData, name, err)
	}
	m.entries[name] = &entry{img: img}
	return handleOf(name, img), nil
}

// Lookup returns the handle of a registered image.
func (m *Memory) Lookup(name string) (Handle, bool) {
	e, ok := m.entries[name]
	if !ok {
		return Handle{}, false
	}
	return handleOf(name, e.img), true
}

// Image returns the decoded image.
func (m *Memory) Image(name string) (image.Image, bool) {
	e, ok := m.entries[name]
	if !ok {
		return nil, false
	}
	return e.img, true
}

// EnsurePreview builds the thumbnail for name if it does not exist yet.
func (m *Memory) EnsurePreview(name string) error {
	e, ok := m.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if e.preview != nil {
		return nil
	}
	e.preview = thumbnail(e.img, m.PreviewSize)
	return nil
}

// Preview returns the thumbnail built by EnsurePreview.
func (m *Memory) Preview(name string) (image.Image, bool) {
	e, ok := m.entries[name]
	if !ok || e.preview == nil {
		return nil, false
	}
	return e.preview, true
}

// Remove drops an image. Unknown names are ignored.
func (m *Memory) Remove(name string) {
	delete(m.entries, name)
}

// Names returns the registered names in sorted order.
func (m *Memory) Names() []string {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func handleOf(name string, img image.Image) Handle {
	b := img.Bounds()
	return Handle{Name: name, Width: b.Dx(), Height: b.Dy()}
}

// thumbnail scales img so its longest side is size, keeping aspect. Images
// already within size are copied unscaled.
func thumbnail(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if size <= 0 {
		size = DefaultPreviewSize
	}

	if w > size || h > size {
		if w >= h {
			h = max(1, h*size/w)
			w = size
		} else {
			w = max(1, w*size/h)
			h = size
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
