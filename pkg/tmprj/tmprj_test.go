package tmprj

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/neotile/pkg/math"
)

// writeSection appends a raw section to buf.
func writeSection(buf *bytes.Buffer, name string, payload []byte) {
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	binary.Write(buf, binary.LittleEndian, int64(len(payload)))
	buf.Write(payload)
}

func header(magic string, version uint32) *bytes.Buffer {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(len(magic)))
	buf.WriteString(magic)
	binary.Write(buf, binary.LittleEndian, version)
	return buf
}

// createFullFrameProject builds a container with one full-frame rect,
// written by hand in on-disk corner order.
func createFullFrameProject() []byte {
	payload := new(bytes.Buffer)
	binary.Write(payload, binary.LittleEndian, int32(1))
	for _, f := range []float32{-1, 1, 1, 1, 1, -1, -1, -1} {
		binary.Write(payload, binary.LittleEndian, f)
	}
	binary.Write(payload, binary.LittleEndian, int32(3))
	payload.Write([]byte{0x89, 'P', 'N'})

	buf := header(Magic, 1)
	writeSection(buf, SectionUVs, payload.Bytes())
	return buf.Bytes()
}

func TestParse_FullFrameRect(t *testing.T) {
	p, err := Parse(createFullFrameProject())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if p.Version != 1 {
		t.Errorf("expected version 1, got %d", p.Version)
	}

	rects := p.Rects()
	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}

	r := rects[0]
	if r.TopLeft != (math.Vec2{X: -1, Y: 1}) || r.TopRight != (math.Vec2{X: 1, Y: 1}) {
		t.Errorf("unexpected top corners: %v %v", r.TopLeft, r.TopRight)
	}
	if r.BottomRight != (math.Vec2{X: 1, Y: -1}) || r.BottomLeft != (math.Vec2{X: -1, Y: -1}) {
		t.Errorf("unexpected bottom corners: %v %v", r.BottomRight, r.BottomLeft)
	}

	q := r.Quad()
	want := [4]math.Vec2{{X: -1, Y: 1}, {X: 1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}}
	if q != want {
		t.Errorf("Quad() = %v, want %v", q, want)
	}

	if !bytes.Equal(r.PNG, []byte{0x89, 'P', 'N'}) {
		t.Errorf("unexpected preview bytes %v", r.PNG)
	}
}

func TestParse_Directory(t *testing.T) {
	atlas := new(bytes.Buffer)
	binary.Write(atlas, binary.LittleEndian, int32(32))
	binary.Write(atlas, binary.LittleEndian, int32(16))
	binary.Write(atlas, binary.LittleEndian, int32(2))
	atlas.Write([]byte{1, 2})

	buf := header(Magic, 7)
	writeSection(buf, "notes", []byte("hello"))
	writeSection(buf, SectionAtlas, atlas.Bytes())

	p, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	entries := p.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// 1 + 7 magic + 4 version + 1 + 5 name + 8 length
	if entries[0].Name != "notes" || entries[0].Offset != 26 || entries[0].Length != 5 {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if string(p.Sections[0].Data) != "hello" {
		t.Errorf("unexpected unknown section data %q", p.Sections[0].Data)
	}
	if entries[1].Offset != 26+5+1+5+8 {
		t.Errorf("unexpected atlas offset %d", entries[1].Offset)
	}

	a := p.Atlas()
	if a == nil {
		t.Fatal("expected atlas section")
	}
	if a.TileWidth != 32 || a.TileHeight != 16 || !bytes.Equal(a.PNG, []byte{1, 2}) {
		t.Errorf("unexpected atlas %+v", a)
	}
	if len(p.Rects()) != 0 {
		t.Errorf("expected no rects, got %d", len(p.Rects()))
	}
}

func TestParse_InvalidMagic(t *testing.T) {
	tests := [][]byte{
		header("NOTPROJ", 1).Bytes(),
		header("NEOPRO", 1).Bytes(),
		{0},
		{200, 'N', 'E', 'O'},
	}

	for i, data := range tests {
		_, err := Parse(data)
		if !errors.Is(err, ErrInvalidMagic) {
			t.Errorf("case %d: expected ErrInvalidMagic, got %v", i, err)
		}
	}
}

func TestParse_Truncated(t *testing.T) {
	full := createFullFrameProject()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"no version", full[:10]},
		{"section header cut", full[:14]},
		{"payload cut", full[:len(full)-1]},
	}

	for _, tc := range tests {
		_, err := Parse(tc.data)
		if !errors.Is(err, ErrTruncatedData) {
			t.Errorf("%s: expected ErrTruncatedData, got %v", tc.name, err)
		}
	}
}

func TestParse_RectBlobOverrun(t *testing.T) {
	payload := new(bytes.Buffer)
	binary.Write(payload, binary.LittleEndian, int32(1))
	for i := 0; i < 8; i++ {
		binary.Write(payload, binary.LittleEndian, float32(0))
	}
	binary.Write(payload, binary.LittleEndian, int32(100))

	buf := header(Magic, 1)
	writeSection(buf, SectionUVs, payload.Bytes())

	if _, err := Parse(buf.Bytes()); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	q := [4]math.Vec2{{X: -0.5, Y: 0.75}, {X: 0.25, Y: 0.75}, {X: -0.5, Y: -0.125}, {X: 0.25, Y: -0.125}}
	src := &Project{
		Version: 2,
		Sections: []Section{
			NewAtlasSection(64, 64, []byte("atlas")),
			NewUVSection(NewRectRecord(q, []byte("p0")), NewRectRecord(q, nil)),
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	p, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if p.Version != 2 || len(p.Sections) != 2 {
		t.Fatalf("unexpected project: version %d, %d sections", p.Version, len(p.Sections))
	}
	if string(p.Atlas().PNG) != "atlas" {
		t.Errorf("unexpected atlas image %q", p.Atlas().PNG)
	}

	rects := p.Rects()
	if len(rects) != 2 {
		t.Fatalf("expected 2 rects, got %d", len(rects))
	}
	for i, r := range rects {
		if r.Quad() != q {
			t.Errorf("rect %d: Quad() = %v, want %v", i, r.Quad(), q)
		}
	}
	if string(rects[0].PNG) != "p0" || len(rects[1].PNG) != 0 {
		t.Errorf("unexpected previews %q %q", rects[0].PNG, rects[1].PNG)
	}

	// re-encoding a parsed project reproduces the bytes
	var again bytes.Buffer
	if err := Encode(&again, p); err != nil {
		t.Fatalf("re-Encode failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), again.Bytes()) {
		t.Error("re-encoded project differs")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.tmprj")
	if err := os.WriteFile(path, createFullFrameProject(), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(p.Rects()) != 1 {
		t.Errorf("expected 1 rect, got %d", len(p.Rects()))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.tmprj")); err == nil {
		t.Error("expected error for missing file")
	}
}
