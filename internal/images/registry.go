// Package images keeps the atlas and rect preview images referenced by the
// rect library.
package images

import "errors"

// Registry errors.
var (
	ErrNotFound    = errors.New("image not found")
	ErrInvalidData = errors.New("invalid image data")
)

// Handle identifies a registered image. Width and Height are in pixels.
type Handle struct {
	Name   string
	Width  int
	Height int
}

// Registry stores decoded images by name. Registering an existing name
// replaces the image.
type Registry interface {
	Register(name string, data []byte) (Handle, error)
	Lookup(name string) (Handle, bool)
	EnsurePreview(name string) error
}
