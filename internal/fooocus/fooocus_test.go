package fooocus

import (
	"testing"

	"github.com/backmassage/upreel/internal/config"
)

func argsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestArgs_NoPreset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = "/work/out"
	c := New(&cfg)

	got := c.Args("/work/in/shot.png")
	want := []string{
		"entry_with_update.py",
		"--share",
		"--in-browser", "False",
		"--always-high-vram",
		"--upscale", "2",
		"--output-path", "/work/out",
		"--image", "/work/in/shot.png",
	}
	if !argsEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestArgs_WithPreset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = "/work/out"
	cfg.Preset = "anime"
	cfg.UpscaleFactor = 4
	c := New(&cfg)

	got := c.Args("/work/in/shot.jpg")
	want := []string{
		"entry_with_update.py",
		"--share",
		"--in-browser", "False",
		"--always-high-vram",
		"--upscale", "4",
		"--output-path", "/work/out",
		"--preset", "anime",
		"--image", "/work/in/shot.jpg",
	}
	if !argsEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestArgs_CustomEntry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = "/out"
	cfg.FooocusEntry = "launch.py"
	c := New(&cfg)

	got := c.Args("/in/a.png")
	if got[0] != "launch.py" {
		t.Errorf("Args()[0] = %q, want launch.py", got[0])
	}
}
