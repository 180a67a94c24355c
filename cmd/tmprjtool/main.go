// tmprjtool is a CLI utility for .tmprj tile-map projects and the rect library.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	stdmath "math"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/neotile/internal/config"
	"github.com/Faultbox/neotile/internal/images"
	"github.com/Faultbox/neotile/internal/importer"
	"github.com/Faultbox/neotile/internal/logger"
	"github.com/Faultbox/neotile/internal/mesh"
	"github.com/Faultbox/neotile/internal/rects"
	"github.com/Faultbox/neotile/internal/uv"
	"github.com/Faultbox/neotile/pkg/math"
	"github.com/Faultbox/neotile/pkg/tmprj"
)

func main() {
	config.ParseFlags()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: true,
		File:    logFile(cfg.Logging.LogFile),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "rects", "ls":
		cmdRects(args)
	case "extract", "x":
		cmdExtract(cfg, args)
	case "import":
		cmdImport(cfg, args)
	case "reload":
		cmdReload(cfg, args)
	case "library", "lib":
		cmdLibrary(cfg, args)
	case "unwrap":
		cmdUnwrap(cfg, args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tmprjtool - tile-map project and rect library utility

Usage:
  tmprjtool [global options] <command> [options]

Commands:
  info <file.tmprj>                  Show version and section directory
  rects <file.tmprj>                 List rect corners (TL, TR, BL, BR)
  extract <file.tmprj> [output]      Write embedded images to a directory
  import <file.tmprj>...             Import projects into the rect library
  reload <index>                     Re-import a collection from its source
  library [-page N]                  List library collections and rects
  unwrap [-tilt deg] <col> <rect>    Unwrap a sample quad into a library rect
  config [-save]                     Show (or save) the resolved settings

Global options:
  --config, --library, --debug, --log-file, --match-epsilon
  --space, --orientation, --snap

Examples:
  tmprjtool info dungeon.tmprj
  tmprjtool extract -thumbs dungeon.tmprj ./out
  tmprjtool --library ./library.yaml import dungeon.tmprj
  tmprjtool library -page 2
  tmprjtool --orientation world unwrap -tilt 30 0 4`)
}

func logFile(path string) logger.FileConfig {
	if path == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(path)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func openProject(path string) *tmprj.Project {
	proj, err := tmprj.ParseFile(path)
	if err != nil {
		fail("Error: %v", err)
	}
	return proj
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fail("Usage: tmprjtool info <file.tmprj>")
	}

	proj := openProject(args[0])

	fmt.Printf("Project:  %s\n", args[0])
	fmt.Printf("Version:  %d\n", proj.Version)
	fmt.Printf("Sections: %d\n", len(proj.Sections))
	fmt.Println()

	for _, s := range proj.Sections {
		fmt.Printf("  %-10s offset=%-8d length=%d", s.Name, s.Offset, s.Length)
		switch {
		case s.Atlas != nil:
			fmt.Printf("  tiles=%dx%d image=%d bytes", s.Atlas.TileWidth, s.Atlas.TileHeight, len(s.Atlas.PNG))
		case s.Name == tmprj.SectionUVs:
			fmt.Printf("  rects=%d", len(s.Rects))
		}
		fmt.Println()
	}
}

func cmdRects(args []string) {
	fs := flag.NewFlagSet("rects", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N rects (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("Usage: tmprjtool rects <file.tmprj>")
	}

	proj := openProject(fs.Arg(0))
	for i, rec := range proj.Rects() {
		if *limit > 0 && i >= *limit {
			break
		}
		q := rec.Quad()
		fmt.Printf("%4d  TL(%6.3f,%6.3f) TR(%6.3f,%6.3f) BL(%6.3f,%6.3f) BR(%6.3f,%6.3f)  image=%d bytes\n",
			i, q[0].X, q[0].Y, q[1].X, q[1].Y, q[2].X, q[2].Y, q[3].X, q[3].Y, len(rec.PNG))
	}
}

func cmdExtract(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	thumbs := fs.Bool("thumbs", false, "Write scaled thumbnails instead of the embedded images")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("Usage: tmprjtool extract [-thumbs] <file.tmprj> [output_dir]")
	}

	path := fs.Arg(0)
	outputDir := "."
	if fs.NArg() > 1 {
		outputDir = fs.Arg(1)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fail("Error creating directory: %v", err)
	}

	proj := openProject(path)
	stem := importer.Stem(path)

	reg := images.NewMemory()
	reg.PreviewSize = cfg.Library.PreviewSize

	write := func(name string, data []byte) {
		if len(data) == 0 {
			return
		}
		outputPath := filepath.Join(outputDir, name+".png")
		if *thumbs {
			if err := writeThumbnail(reg, name, data, outputPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
				return
			}
		} else if err := os.WriteFile(outputPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
			return
		}
		fmt.Printf("Extracted: %s\n", outputPath)
	}

	if atlas := proj.Atlas(); atlas != nil {
		write(importer.AtlasName(stem), atlas.PNG)
	}
	for i, rec := range proj.Rects() {
		write(importer.PreviewName(stem, i), rec.PNG)
	}
}

func writeThumbnail(reg *images.Memory, name string, data []byte, outputPath string) error {
	if _, err := reg.Register(name, data); err != nil {
		return err
	}
	if err := reg.EnsurePreview(name); err != nil {
		return err
	}
	img, _ := reg.Preview(name)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// openLibrary loads the configured library. A missing file yields an empty
// library.
func openLibrary(cfg *config.Config) *rects.Library {
	lib, err := rects.LoadLibrary(cfg.Library.Path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("starting a new library", zap.String("path", cfg.Library.Path))
		return rects.NewLibrary()
	}
	if err != nil {
		fail("Error: %v", err)
	}
	return lib
}

func newImporter(cfg *config.Config, lib *rects.Library) *importer.Importer {
	reg := images.NewMemory()
	reg.PreviewSize = cfg.Library.PreviewSize

	im := importer.New(lib, reg)
	im.MatchEpsilon = cfg.Library.MatchEpsilon
	return im
}

func saveLibrary(cfg *config.Config, lib *rects.Library) {
	if err := rects.SaveLibrary(cfg.Library.Path, lib); err != nil {
		fail("Error saving library: %v", err)
	}
	logger.Info("library saved", zap.String("path", cfg.Library.Path), zap.Int("collections", lib.Len()))
}

func printReport(rep importer.Report) {
	fmt.Printf("%s [%d]: %d added, %d updated, %d images", rep.Collection, rep.Index, rep.Added, rep.Updated, rep.Images)
	if rep.ImageErrors > 0 {
		fmt.Printf(", %d bad images", rep.ImageErrors)
	}
	if rep.Unresolved > 0 {
		fmt.Printf(", %d unresolved pattern entries", rep.Unresolved)
	}
	fmt.Println()
}

func cmdImport(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fail("Usage: tmprjtool import <file.tmprj>...")
	}

	lib := openLibrary(cfg)
	im := newImporter(cfg, lib)

	imported := 0
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		rep, err := im.ImportProject(abs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %s: %v\n", path, err)
			continue
		}
		printReport(rep)
		imported++
	}

	if imported == 0 {
		os.Exit(1)
	}
	saveLibrary(cfg, lib)
}

func cmdReload(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fail("Usage: tmprjtool reload <index>")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fail("Invalid index: %s", args[0])
	}

	lib := openLibrary(cfg)
	rep, err := newImporter(cfg, lib).Reload(idx)
	if err != nil {
		fail("Error: %v", err)
	}
	printReport(rep)
	saveLibrary(cfg, lib)
}

func cmdLibrary(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("library", flag.ExitOnError)
	page := fs.Int("page", 0, "Rect page to show per collection")
	perPage := fs.Int("n", cfg.Library.MaxPerPage, "Rects per page")
	fs.Parse(args)

	lib := openLibrary(cfg)
	if lib.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Library is empty")
		return
	}

	for i, col := range lib.Collections() {
		fmt.Printf("[%d] %s (%s) %d rects, %d patterns\n", i, col.Name, col.Path, len(col.Rects), len(col.Patterns))

		col.FirstPage()
		for p := 0; p < *page; p++ {
			col.NextPage(*perPage)
		}
		start, end := col.PageItems(*perPage)
		for j := start; j < end; j++ {
			r := col.Rects[j]
			fmt.Printf("    %4d  TL(%6.3f,%6.3f) BR(%6.3f,%6.3f)  %s\n",
				j, r.TopLeft.X, r.TopLeft.Y, r.BottomRight.X, r.BottomRight.Y, r.Preview)
		}

		for k, pat := range col.Patterns {
			active := " "
			if k == col.ActivePattern {
				active = "*"
			}
			fmt.Printf("  %s pattern %q: %d entries\n", active, pat.Name, len(pat.Entries))
		}
	}
}

// sampleQuad is a unit quad in the XY plane, tilted about X by degrees.
func sampleQuad(degrees float64) (*mesh.Memory, error) {
	m, err := mesh.NewMemory([]math.Vec3{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}, [][]int{{0, 1, 2, 3}})
	if err != nil {
		return nil, err
	}
	tilt := math.QuatFromAxisAngle(math.Vec3{X: 1}, float32(degrees*stdmath.Pi/180))
	m.SetWorldMatrix(tilt.ToMat4())
	return m, nil
}

func cmdUnwrap(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("unwrap", flag.ExitOnError)
	tilt := fs.Float64("tilt", 0, "Tilt the sample quad about X by this many degrees")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: tmprjtool unwrap [-tilt deg] <collection> <rect>")
	}
	colIdx, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		fail("Invalid collection index: %s", fs.Arg(0))
	}
	rectIdx, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		fail("Invalid rect index: %s", fs.Arg(1))
	}

	opts, err := cfg.UnwrapOptions()
	if err != nil {
		fail("Error: %v", err)
	}

	col, err := openLibrary(cfg).Get(colIdx)
	if err != nil {
		fail("Error: %v", err)
	}
	rect, err := col.Rect(rectIdx)
	if err != nil {
		fail("Error: %v", err)
	}

	m, err := sampleQuad(*tilt)
	if err != nil {
		fail("Error: %v", err)
	}
	res, err := uv.Unwrap(m, []int{0}, rect, opts)
	if err != nil {
		fail("Error: %v", err)
	}

	fmt.Printf("%s [%d] rect %d: space=%s orientation=%s snap=%s, %d faces, %d skipped\n",
		col.Name, colIdx, rectIdx, opts.Space, opts.Orientation, opts.Snap, res.Faces, res.Skipped)
	for i, l := range m.FaceLoops(0) {
		p := m.VertexPosition(m.LoopVertex(l))
		q := m.LoopUV(l)
		fmt.Printf("  loop %d  pos(%4.1f,%4.1f)  uv(%6.3f,%6.3f)\n", i, p.X, p.Y, q.X, q.Y)
	}
}

func cmdConfig(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Write the resolved settings to the user config file")
	fs.Parse(args)

	opts, err := cfg.UnwrapOptions()
	if err != nil {
		fail("Error: %v", err)
	}
	pick := cfg.PickOptions()

	fmt.Println("Unwrap:")
	fmt.Printf("  space=%s orientation=%s axis=(%g,%g,%g) snap=%s\n",
		opts.Space, opts.Orientation, opts.Axis.X, opts.Axis.Y, opts.Axis.Z, opts.Snap)
	fmt.Printf("  correct_aspect=%t rotate=%s pivot=%s use_bounds=%t\n",
		opts.CorrectAspect, opts.RotateMode, opts.PivotScope, opts.UseBounds)
	fmt.Println("Editor:")
	fmt.Printf("  linked_faces=%t pixel_snap=%t face_only=%t\n", pick.LinkedFaces, pick.PixelSnap, pick.FaceOnly)
	fmt.Printf("  move_speed=%g scale_speed=%g rotate_speed=%g\n", pick.MoveSpeed, pick.ScaleSpeed, pick.RotateSpeed)
	fmt.Println("Library:")
	fmt.Printf("  path=%s max_per_page=%d match_epsilon=%g preview_size=%d\n",
		cfg.Library.Path, cfg.Library.MaxPerPage, cfg.Library.MatchEpsilon, cfg.Library.PreviewSize)

	if *save {
		if err := cfg.Save(); err != nil {
			fail("Error saving config: %v", err)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}
}
