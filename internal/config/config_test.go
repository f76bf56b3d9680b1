package config

import (
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/photos", "/media/photos"},
		{"single trailing slash", "/media/photos/", "/media/photos"},
		{"multiple trailing slashes", "/media/photos///", "/media/photos"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_NumericRanges(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"factor 1 is valid", func(c *Config) { c.UpscaleFactor = 1 }, false},
		{"factor 0 is invalid", func(c *Config) { c.UpscaleFactor = 0 }, true},
		{"negative factor is invalid", func(c *Config) { c.UpscaleFactor = -2 }, true},
		{"seconds per frame 0 is invalid", func(c *Config) { c.SecondsPerFrame = 0 }, true},
		{"fps 0 is invalid", func(c *Config) { c.OutputFPS = 0 }, true},
		{"fps 60 is valid", func(c *Config) { c.OutputFPS = 60 }, false},
		{"empty python is invalid", func(c *Config) { c.PythonBin = "" }, true},
		{"empty entry script is invalid", func(c *Config) { c.FooocusEntry = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.InputDir = "/in"
			cfg.OutputDir = "/out"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true // skip path requirement
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when paths are empty")
	}

	cfg.InputDir = "/in"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when the output folder is empty")
	}

	cfg.OutputDir = "/out"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_CheckOnlySkipsPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CheckOnly = true

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should pass with empty paths when CheckOnly is true, got: %v", err)
	}
}

func TestValidate_InspectNeedsOnlyInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InspectOnly = true

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should still require the input folder in inspect mode")
	}

	cfg.InputDir = "/in"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should not require an output folder in inspect mode, got: %v", err)
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		wantErr bool
	}{
		{"separate directories", "/media/in", "/media/out", false},
		{"output equals input", "/media/shots", "/media/shots", true},
		{"output inside input", "/media/shots", "/media/shots/frames", true},
		{"output is parent of input", "/media/shots/raw", "/media/shots", false},
		{"similar prefix not nested", "/media/shots", "/media/shots2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ValidatePaths(tt.input, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.input, tt.output, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UpscaleFactor != 2 {
		t.Errorf("default UpscaleFactor = %d, want 2", cfg.UpscaleFactor)
	}
	if cfg.SecondsPerFrame != 1 {
		t.Errorf("default SecondsPerFrame = %d, want 1", cfg.SecondsPerFrame)
	}
	if cfg.OutputFPS != 30 {
		t.Errorf("default OutputFPS = %d, want 30", cfg.OutputFPS)
	}
	if cfg.FooocusEntry != "entry_with_update.py" {
		t.Errorf("default FooocusEntry = %q, want entry_with_update.py", cfg.FooocusEntry)
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("default ColorMode = %q, want %q", cfg.ColorMode, ColorAuto)
	}
	if !cfg.ShowFileStats {
		t.Error("default ShowFileStats should be true")
	}
	if !cfg.ShowProgress {
		t.Error("default ShowProgress should be true")
	}
	if cfg.DryRun {
		t.Error("default DryRun should be false")
	}
}

// runFlags parses argv through the real flag set and returns the resulting
// Config, the way cmd/upreel builds it.
func runFlags(t *testing.T, argv ...string) Config {
	t.Helper()
	cfg := DefaultConfig()
	cmd := &cli.Command{
		Name:  "upreel",
		Flags: Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			FromCommand(&cfg, c)
			return nil
		},
	}
	args := append([]string{"upreel"}, argv...)
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("Run(%v): %v", argv, err)
	}
	return cfg
}

func TestFromCommand_PipelineFlags(t *testing.T) {
	cfg := runFlags(t,
		"-i", "shots/",
		"-o", "out",
		"-p", "anime",
		"-u", "4",
		"-f", "2",
		"--video_fps", "24",
	)

	if cfg.InputDir != "shots" {
		t.Errorf("InputDir = %q, want %q (trailing slash stripped)", cfg.InputDir, "shots")
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "out")
	}
	if cfg.Preset != "anime" {
		t.Errorf("Preset = %q, want %q", cfg.Preset, "anime")
	}
	if cfg.UpscaleFactor != 4 {
		t.Errorf("UpscaleFactor = %d, want 4", cfg.UpscaleFactor)
	}
	if cfg.SecondsPerFrame != 2 {
		t.Errorf("SecondsPerFrame = %d, want 2", cfg.SecondsPerFrame)
	}
	if cfg.OutputFPS != 24 {
		t.Errorf("OutputFPS = %d, want 24", cfg.OutputFPS)
	}
}

func TestFromCommand_DefaultsHold(t *testing.T) {
	cfg := runFlags(t, "-i", "in", "-o", "out")

	if cfg.UpscaleFactor != 2 || cfg.SecondsPerFrame != 1 || cfg.OutputFPS != 30 {
		t.Errorf("defaults changed: factor=%d spf=%d fps=%d",
			cfg.UpscaleFactor, cfg.SecondsPerFrame, cfg.OutputFPS)
	}
	if cfg.Preset != "" {
		t.Errorf("Preset = %q, want empty", cfg.Preset)
	}
	if !cfg.ShowFileStats || !cfg.ShowProgress {
		t.Error("display defaults should hold when flags are absent")
	}
}

func TestFromCommand_NegatedFlags(t *testing.T) {
	cfg := runFlags(t, "-i", "in", "-o", "out",
		"--no-stats", "--no-progress", "--color", "--no-color")

	if cfg.ShowFileStats {
		t.Error("--no-stats should clear ShowFileStats")
	}
	if cfg.ShowProgress {
		t.Error("--no-progress should clear ShowProgress")
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, want %q (--no-color wins over --color)", cfg.ColorMode, ColorNever)
	}
}
