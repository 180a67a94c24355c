// Package tmprj reads the .tmprj tile-map project container: a magic header
// followed by named, length-prefixed sections.
package tmprj

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/neotile/pkg/math"
)

// Magic identifies a project file.
const Magic = "NEOPROJ"

// Known section names.
const (
	SectionAtlas = "atlas"
	SectionUVs   = "uvs"
)

// Container errors.
var (
	ErrInvalidMagic  = errors.New("invalid tmprj magic: expected 'NEOPROJ'")
	ErrTruncatedData = errors.New("truncated tmprj data")
)

// Entry is a section directory entry. Offset is absolute within the file.
type Entry struct {
	Name   string
	Length int64
	Offset int64
}

// Atlas is the decoded "atlas" section.
type Atlas struct {
	TileWidth  int32
	TileHeight int32
	PNG        []byte
}

// RectRecord is one rect of the "uvs" section, corners in on-disk order.
type RectRecord struct {
	TopLeft     math.Vec2
	TopRight    math.Vec2
	BottomRight math.Vec2
	BottomLeft  math.Vec2
	PNG         []byte
}

// Quad returns the corners in TL, TR, BL, BR order.
func (r RectRecord) Quad() [4]math.Vec2 {
	return [4]math.Vec2{r.TopLeft, r.TopRight, r.BottomLeft, r.BottomRight}
}

// Section is a directory entry with its payload. Atlas or Rects is set for
// the known section kinds; Data always holds the raw payload.
type Section struct {
	Entry
	Data  []byte
	Atlas *Atlas
	Rects []RectRecord
}

// Project is a parsed container. Sections keep file order.
type Project struct {
	Version  uint32
	Sections []Section
}

// Atlas returns the first atlas section, or nil.
func (p *Project) Atlas() *Atlas {
	for i := range p.Sections {
		if p.Sections[i].Atlas != nil {
			return p.Sections[i].Atlas
		}
	}
	return nil
}

// Rects returns the rects of every "uvs" section in file order.
func (p *Project) Rects() []RectRecord {
	var out []RectRecord
	for _, s := range p.Sections {
		if s.Name == SectionUVs {
			out = append(out, s.Rects...)
		}
	}
	return out
}

// Entries returns the section directory.
func (p *Project) Entries() []Entry {
	out := make([]Entry, len(p.Sections))
	for i, s := range p.Sections {
		out[i] = s.Entry
	}
	return out
}

// Parse parses a project container from raw bytes.
func Parse(data []byte) (*Project, error) {
	r := bytes.NewReader(data)

	idLen, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: reading magic length", ErrTruncatedData)
	}
	id := make([]byte, idLen)
	if _, err := io.ReadFull(r, id); err != nil || string(id) != Magic {
		return nil, ErrInvalidMagic
	}

	p := &Project{}
	if err := binary.Read(r, binary.LittleEndian, &p.Version); err != nil {
		return nil, fmt.Errorf("%w: reading version", ErrTruncatedData)
	}

	// Read the whole directory before decoding any payload.
	for r.Len() > 0 {
		entry, err := readEntry(r)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", len(p.Sections), err)
		}
		p.Sections = append(p.Sections, Section{
			Entry: entry,
			Data:  data[entry.Offset : entry.Offset+entry.Length],
		})
	}

	for i := range p.Sections {
		s := &p.Sections[i]
		switch s.Name {
		case SectionAtlas:
			s.Atlas, err = parseAtlas(s.Data)
		case SectionUVs:
			s.Rects, err = parseRects(s.Data)
		}
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", s.Name, err)
		}
	}

	return p, nil
}

func readEntry(r *bytes.Reader) (Entry, error) {
	var e Entry

	nameLen, err := r.ReadByte()
	if err != nil {
		return e, fmt.Errorf("%w: reading name length", ErrTruncatedData)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return e, fmt.Errorf("%w: reading name", ErrTruncatedData)
	}
	e.Name = string(name)

	if err := binary.Read(r, binary.LittleEndian, &e.Length); err != nil {
		return e, fmt.Errorf("%w: reading length of %q", ErrTruncatedData, e.Name)
	}
	if e.Length < 0 || e.Length > int64(r.Len()) {
		return e, fmt.Errorf("%w: section %q claims %d bytes, %d left", ErrTruncatedData, e.Name, e.Length, r.Len())
	}

	e.Offset = r.Size() - int64(r.Len())
	if _, err := r.Seek(e.Length, io.SeekCurrent); err != nil {
		return e, err
	}
	return e, nil
}

// readBlob reads an i32 length followed by that many bytes.
func readBlob(r *bytes.Reader, what string) ([]byte, error) {
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("%w: reading %s length", ErrTruncatedData, what)
	}
	if n < 0 || int(n) > r.Len() {
		return nil, fmt.Errorf("%w: %s claims %d bytes, %d left", ErrTruncatedData, what, n, r.Len())
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	}
	return buf, nil
}

func parseAtlas(data []byte) (*Atlas, error) {
	r := bytes.NewReader(data)
	a := &Atlas{}

	if err := binary.Read(r, binary.LittleEndian, &a.TileWidth); err != nil {
		return nil, fmt.Errorf("%w: reading tile width", ErrTruncatedData)
	}
	if err := binary.Read(r, binary.LittleEndian, &a.TileHeight); err != nil {
		return nil, fmt.Errorf("%w: reading tile height", ErrTruncatedData)
	}

	png, err := readBlob(r, "atlas image")
	if err != nil {
		return nil, err
	}
	a.PNG = png
	return a, nil
}

func parseRects(data []byte) ([]RectRecord, error) {
	r := bytes.NewReader(data)

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading rect count", ErrTruncatedData)
	}
	if count < 0 {
		return nil, fmt.Errorf("invalid rect count %d", count)
	}

	// Each record is at least 8 floats plus an image length.
	if int64(count)*36 > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d rects in %d bytes", ErrTruncatedData, count, r.Len())
	}

	rects := make([]RectRecord, count)
	for i := range rects {
		var corners [8]float32
		if err := binary.Read(r, binary.LittleEndian, &corners); err != nil {
			return nil, fmt.Errorf("%w: reading rect %d corners", ErrTruncatedData, i)
		}
		rec := RectRecord{
			TopLeft:     math.Vec2{X: corners[0], Y: corners[1]},
			TopRight:    math.Vec2{X: corners[2], Y: corners[3]},
			BottomRight: math.Vec2{X: corners[4], Y: corners[5]},
			BottomLeft:  math.Vec2{X: corners[6], Y: corners[7]},
		}

		png, err := readBlob(r, fmt.Sprintf("rect %d preview", i))
		if err != nil {
			return nil, err
		}
		rec.PNG = png
		rects[i] = rec
	}

	return rects, nil
}

// ParseFile parses a project container from disk.
func ParseFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tmprj file: %w", err)
	}
	return Parse(data)
}
