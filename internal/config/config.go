// Package config handles tool configuration loading and management.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/Faultbox/neotile/internal/images"
	"github.com/Faultbox/neotile/internal/rects"
	"github.com/Faultbox/neotile/internal/session"
	"github.com/Faultbox/neotile/internal/uv"
	"github.com/Faultbox/neotile/pkg/math"
)

// Config holds all tool settings.
type Config struct {
	Unwrap  UnwrapConfig  `yaml:"unwrap"`
	Editor  EditorConfig  `yaml:"editor"`
	Library LibraryConfig `yaml:"library"`
	Logging LoggingConfig `yaml:"logging"`
}

// UnwrapConfig holds projection and UV edit settings.
type UnwrapConfig struct {
	Space         string    `yaml:"space"`       // local, global
	Orientation   string    `yaml:"orientation"` // face, world, object, view, none
	Axis          math.Vec3 `yaml:"axis"`
	CorrectAspect bool      `yaml:"correct_aspect"`
	Snap          string    `yaml:"snap"`        // none, corners, bounds
	RotateMode    string    `yaml:"rotate_mode"` // shift, orbit
	PivotScope    string    `yaml:"pivot_scope"` // face, shared
	UseBounds     bool      `yaml:"use_bounds"`
}

// EditorConfig holds pick/drag and paint settings.
type EditorConfig struct {
	LinkedFaces bool    `yaml:"linked_faces"`
	PixelSnap   bool    `yaml:"pixel_snap"`
	FaceOnly    bool    `yaml:"face_only"`
	MoveSpeed   float32 `yaml:"move_speed"`
	ScaleSpeed  float32 `yaml:"scale_speed"`  // per pixel
	RotateSpeed float32 `yaml:"rotate_speed"` // degrees per pixel
}

// LibraryConfig holds rect library settings.
type LibraryConfig struct {
	Path         string  `yaml:"path"`
	MaxPerPage   int     `yaml:"max_per_page"`
	MatchEpsilon float32 `yaml:"match_epsilon"` // 0 matches corners exactly
	PreviewSize  int     `yaml:"preview_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // console, json
}

// Default returns a Config with sensible default values.
func Default() *Config {
	editor := session.DefaultOptions()
	return &Config{
		Unwrap: UnwrapConfig{
			Space:         "local",
			Orientation:   "face",
			Axis:          math.Vec3{Z: 1},
			CorrectAspect: true,
			Snap:          "none",
			RotateMode:    "shift",
			PivotScope:    "face",
		},
		Editor: EditorConfig{
			LinkedFaces: editor.LinkedFaces,
			PixelSnap:   editor.PixelSnap,
			MoveSpeed:   editor.MoveSpeed,
			ScaleSpeed:  editor.ScaleSpeed,
			RotateSpeed: editor.RotateSpeed,
		},
		Library: LibraryConfig{
			Path:        filepath.Join(ConfigDir(), "library.yaml"),
			MaxPerPage:  rects.MaxItemsPerPage,
			PreviewSize: images.DefaultPreviewSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// UnwrapOptions converts the unwrap section into engine options.
// The view rotation is left at identity; hosts set it per call.
func (c *Config) UnwrapOptions() (uv.Options, error) {
	opts := uv.DefaultOptions()
	u := c.Unwrap

	var err error
	if opts.Space, err = uv.ParseSpace(u.Space); err != nil {
		return opts, fmt.Errorf("unwrap.space: %w", err)
	}
	if opts.Orientation, err = uv.ParseOrientation(u.Orientation); err != nil {
		return opts, fmt.Errorf("unwrap.orientation: %w", err)
	}
	if opts.Snap, err = uv.ParseSnap(u.Snap); err != nil {
		return opts, fmt.Errorf("unwrap.snap: %w", err)
	}
	if opts.RotateMode, err = uv.ParseRotateMode(u.RotateMode); err != nil {
		return opts, fmt.Errorf("unwrap.rotate_mode: %w", err)
	}
	if opts.PivotScope, err = uv.ParsePivotScope(u.PivotScope); err != nil {
		return opts, fmt.Errorf("unwrap.pivot_scope: %w", err)
	}
	if u.Axis.LengthSquared() == 0 {
		return opts, fmt.Errorf("unwrap.axis: zero vector")
	}

	opts.Axis = u.Axis.Normalize()
	opts.CorrectAspect = u.CorrectAspect
	opts.UseBounds = u.UseBounds
	return opts, nil
}

// PickOptions converts the editor section into pick/drag options.
func (c *Config) PickOptions() session.Options {
	e := c.Editor
	return session.Options{
		LinkedFaces: e.LinkedFaces,
		PixelSnap:   e.PixelSnap,
		FaceOnly:    e.FaceOnly,
		MoveSpeed:   e.MoveSpeed,
		ScaleSpeed:  e.ScaleSpeed,
		RotateSpeed: e.RotateSpeed,
	}
}
