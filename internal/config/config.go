// Package config holds runtime configuration: defaults, the CLI flag
// surface, and validation. Flag names and defaults match the legacy batch
// script for parity.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [FromCommand] before being passed (by pointer) to packages
// that need it. Fields are grouped by concern with inline documentation of
// defaults and fixed values.
type Config struct {
	// Paths. Required unless running --check; --inspect needs only InputDir.
	// main resolves both to absolute, symlink-free paths before the pipeline
	// starts, so every path handed to a child process is absolute.
	InputDir  string
	OutputDir string

	// Upscaler (Fooocus) settings.
	FooocusRoot   string // Fooocus checkout; child working directory. Default: ".".
	FooocusEntry  string // Launcher script inside the root. Default: "entry_with_update.py".
	PythonBin     string // Interpreter used to run the launcher. Default: "python3".
	Preset        string // Optional preset name (e.g. "anime"); empty = tool default.
	UpscaleFactor int    // Upscaling multiplier. Default: 2.

	// Video settings.
	SecondsPerFrame int // Seconds each image is shown. Default: 1.
	OutputFPS       int // Frame rate of the output video. Default: 30.

	// Behavior flags.
	DryRun      bool
	InspectOnly bool // Probe and report inputs, then exit.
	CheckOnly   bool // Run --check diagnostics and exit.

	// Display and logging.
	Verbose       bool
	ShowFileStats bool      // Default: true. Per-image header stat lines.
	ShowProgress  bool      // Default: true. Encode spinner on TTYs.
	ColorMode     ColorMode // Default: "auto".
	LogFile       string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults matching the legacy batch
// script. Used as the base before [FromCommand] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		FooocusRoot:     ".",
		FooocusEntry:    "entry_with_update.py",
		PythonBin:       "python3",
		Preset:          "",
		UpscaleFactor:   2,
		SecondsPerFrame: 1,
		OutputFPS:       30,
		DryRun:          false,
		InspectOnly:     false,
		CheckOnly:       false,
		Verbose:         false,
		ShowFileStats:   true,
		ShowProgress:    true,
		ColorMode:       ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks numeric ranges and path presence. CheckOnly needs no paths;
// InspectOnly needs only the input directory.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.UpscaleFactor < 1 {
		return fmt.Errorf("upscale factor must be a positive integer (got %d)", c.UpscaleFactor)
	}
	if c.SecondsPerFrame < 1 {
		return fmt.Errorf("framerate (seconds per frame) must be a positive integer (got %d)", c.SecondsPerFrame)
	}
	if c.OutputFPS < 1 {
		return fmt.Errorf("video fps must be a positive integer (got %d)", c.OutputFPS)
	}
	if c.PythonBin == "" {
		return errors.New("python interpreter must not be empty")
	}
	if c.FooocusEntry == "" {
		return errors.New("fooocus entry script must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("need --input_folder")
	}
	if c.InspectOnly {
		return nil
	}
	if c.OutputDir == "" {
		return errors.New("need --output_folder")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not equal to or
// inside the resolved input directory. Frames are claimed by scanning the
// output directory for new PNGs; letting that scan see the input images
// would risk renaming a source file. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
