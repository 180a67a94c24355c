package tmprj

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/neotile/pkg/math"
)

// NewAtlasSection builds an "atlas" section.
func NewAtlasSection(tileWidth, tileHeight int32, png []byte) Section {
	return Section{
		Entry: Entry{Name: SectionAtlas},
		Atlas: &Atlas{TileWidth: tileWidth, TileHeight: tileHeight, PNG: png},
	}
}

// NewUVSection builds a "uvs" section.
func NewUVSection(rects ...RectRecord) Section {
	return Section{Entry: Entry{Name: SectionUVs}, Rects: rects}
}

// NewRectRecord builds a record from corners in TL, TR, BL, BR order.
func NewRectRecord(q [4]math.Vec2, png []byte) RectRecord {
	return RectRecord{TopLeft: q[0], TopRight: q[1], BottomLeft: q[2], BottomRight: q[3], PNG: png}
}

// Encode writes p as a project container. A section's Data is written as is;
// sections without Data are encoded from their Atlas or Rects.
func Encode(w io.Writer, p *Project) error {
	buf := new(bytes.Buffer)

	buf.WriteByte(byte(len(Magic)))
	buf.WriteString(Magic)
	binary.Write(buf, binary.LittleEndian, p.Version)

	for _, s := range p.Sections {
		if len(s.Name) > 255 {
			return fmt.Errorf("section name %q too long", s.Name)
		}
		payload := encodePayload(s)

		buf.WriteByte(byte(len(s.Name)))
		buf.WriteString(s.Name)
		binary.Write(buf, binary.LittleEndian, int64(len(payload)))
		buf.Write(payload)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func encodePayload(s Section) []byte {
	if s.Data != nil {
		return s.Data
	}

	buf := new(bytes.Buffer)
	switch {
	case s.Name == SectionAtlas && s.Atlas != nil:
		binary.Write(buf, binary.LittleEndian, s.Atlas.TileWidth)
		binary.Write(buf, binary.LittleEndian, s.Atlas.TileHeight)
		writeBlob(buf, s.Atlas.PNG)
	case s.Name == SectionUVs:
		binary.Write(buf, binary.LittleEndian, int32(len(s.Rects)))
		for _, r := range s.Rects {
			// on-disk corner order is TL, TR, BR, BL
			for _, c := range []math.Vec2{r.TopLeft, r.TopRight, r.BottomRight, r.BottomLeft} {
				binary.Write(buf, binary.LittleEndian, c.X)
				binary.Write(buf, binary.LittleEndian, c.Y)
			}
			writeBlob(buf, r.PNG)
		}
	}
	return buf.Bytes()
}

func writeBlob(buf *bytes.Buffer, b []byte) {
	binary.Write(buf, binary.LittleEndian, int32(len(b)))
	buf.Write(b)
}
