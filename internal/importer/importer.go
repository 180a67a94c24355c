// Package importer loads .tmprj projects into the rect library and the image
// registry.
package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/neotile/internal/images"
	"github.com/Faultbox/neotile/internal/logger"
	"github.com/Faultbox/neotile/internal/rects"
	"github.com/Faultbox/neotile/pkg/tmprj"
)

// Import errors.
var (
	ErrInvalidFormat = errors.New("invalid project format")
	ErrFileMissing   = errors.New("project file missing")
)

// Report summarizes one import.
type Report struct {
	Collection string
	// Index is the collection's position in the library.
	Index   int
	Added   int
	Updated int
	Images  int
	// ImageErrors counts embedded images that failed to decode. The rects
	// are imported without a preview.
	ImageErrors int
	// Unresolved counts pattern entries left without a rect after the
	// re-import.
	Unresolved int
}

// Importer writes imported projects into Library and Images.
// It must not run while a paint or pick session is open.
type Importer struct {
	Library *rects.Library
	Images  images.Registry
	Log     *zap.Logger
	// MatchEpsilon is the corner tolerance given to collections the
	// importer creates. Existing collections keep their own.
	MatchEpsilon float32
}

// New returns an importer logging under the "importer" component.
func New(lib *rects.Library, reg images.Registry) *Importer {
	return &Importer{
		Library: lib,
		Images:  reg,
		Log:     logger.Named("importer"),
	}
}

// AtlasName returns the registry name of a project's atlas image.
func AtlasName(stem string) string {
	return "Atlas_" + stem
}

// PreviewName returns the registry name of rect i's preview image.
func PreviewName(stem string, i int) string {
	return fmt.Sprintf(".Atlas_%s_Preview%d", stem, i)
}

// Stem returns the collection name derived from a project path.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ImportProject reads the project at path into the collection named after
// the file. The whole container is validated before the library is touched:
// an unreadable or malformed file leaves the library unchanged.
func (im *Importer) ImportProject(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Report{}, fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return Report{}, fmt.Errorf("reading project %s: %w", path, err)
	}

	proj, err := tmprj.Parse(data)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %s: %w", ErrInvalidFormat, path, err)
	}

	return im.apply(path, proj), nil
}

// Reload re-imports collection idx from its stored path.
func (im *Importer) Reload(idx int) (Report, error) {
	col, err := im.Library.Get(idx)
	if err != nil {
		return Report{}, err
	}
	if col.Path == "" {
		return Report{}, fmt.Errorf("%w: collection %q has no source path", ErrFileMissing, col.Name)
	}
	if _, err := os.Stat(col.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Report{}, fmt.Errorf("%w: %s", ErrFileMissing, col.Path)
		}
		return Report{}, fmt.Errorf("checking project %s: %w", col.Path, err)
	}
	return im.ImportProject(col.Path)
}

// apply commits a parsed project. Sections are processed in file order.
func (im *Importer) apply(path string, proj *tmprj.Project) Report {
	log := im.log()
	stem := Stem(path)
	existing, _ := im.Library.FindByName(stem)
	col := im.Library.Add(stem, path)
	if existing == nil {
		col.MatchEpsilon = im.MatchEpsilon
	}
	_, idx := im.Library.FindByID(col.ID)

	rep := Report{Collection: col.Name, Index: idx}

	var atlas string
	if proj.Atlas() != nil {
		atlas = AtlasName(stem)
	}

	cleared := false
	record := 0
	for _, s := range proj.Sections {
		switch s.Name {
		case tmprj.SectionAtlas:
			if im.register(atlas, s.Atlas.PNG, &rep) {
				log.Debug("registered atlas",
					zap.String("image", atlas),
					zap.Int32("tile_width", s.Atlas.TileWidth),
					zap.Int32("tile_height", s.Atlas.TileHeight))
			}

		case tmprj.SectionUVs:
			if !cleared {
				col.Clear()
				cleared = true
			}
			for _, rec := range s.Rects {
				r := rects.NewRect(rec.Quad())
				r.Atlas = atlas

				preview := PreviewName(stem, record)
				record++
				if im.register(preview, rec.PNG, &rep) {
					r.Preview = preview
				}

				if _, added := col.UpsertRect(r); added {
					rep.Added++
				} else {
					rep.Updated++
				}
			}

		default:
			log.Debug("skipping unknown section",
				zap.String("section", s.Name),
				zap.Int64("length", s.Length))
		}
	}

	rep.Unresolved = col.ResolvePatterns()

	log.Info("imported project",
		zap.String("path", path),
		zap.String("collection", rep.Collection),
		zap.Uint32("version", proj.Version),
		zap.Int("rects", len(col.Rects)),
		zap.Int("added", rep.Added),
		zap.Int("updated", rep.Updated),
		zap.Int("images", rep.Images),
		zap.Int("unresolved", rep.Unresolved))

	return rep
}

// register stores an embedded image. Decode failures are logged and counted,
// not fatal.
func (im *Importer) register(name string, data []byte, rep *Report) bool {
	if im.Images == nil || len(data) == 0 {
		return false
	}
	if _, err := im.Images.Register(name, data); err != nil {
		rep.ImageErrors++
		im.log().Warn("failed to decode embedded image",
			zap.String("image", name),
			zap.Error(err))
		return false
	}
	rep.Images++
	return true
}

func (im *Importer) log() *zap.Logger {
	if im.Log == nil {
		return logger.Named("importer")
	}
	return im.Log
}
