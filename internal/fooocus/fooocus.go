// Package fooocus invokes the Fooocus launcher as a subprocess, one run per
// image. Fooocus has no batch CLI of its own, so the pipeline feeds it single
// images and collects the generated PNG after each run.
package fooocus

import (
	"context"
	"strconv"

	"github.com/backmassage/upreel/internal/config"
	"github.com/backmassage/upreel/internal/execx"
)

// Client runs the Fooocus entry script for one image at a time.
type Client struct {
	python    string
	entry     string
	root      string
	outputDir string
	preset    string
	factor    int
	verbose   bool
}

// New builds a Client from cfg. cfg.OutputDir must already be absolute:
// the subprocess runs from the Fooocus repo root, not the caller's cwd.
func New(cfg *config.Config) *Client {
	return &Client{
		python:    cfg.PythonBin,
		entry:     cfg.FooocusEntry,
		root:      cfg.FooocusRoot,
		outputDir: cfg.OutputDir,
		preset:    cfg.Preset,
		factor:    cfg.UpscaleFactor,
		verbose:   cfg.Verbose,
	}
}

// Args returns the launcher argv for one image, minus the interpreter.
// Flag order matches the legacy batch script.
func (c *Client) Args(imagePath string) []string {
	args := []string{
		c.entry,
		"--share",
		"--in-browser", "False",
		"--always-high-vram",
		"--upscale", strconv.Itoa(c.factor),
		"--output-path", c.outputDir,
	}
	if c.preset != "" {
		args = append(args, "--preset", c.preset)
	}
	return append(args, "--image", imagePath)
}

// Upscale runs the launcher against imagePath. imagePath must be absolute.
// On failure the returned error carries the captured stderr.
func (c *Client) Upscale(ctx context.Context, imagePath string) error {
	res := execx.Run(ctx, execx.Cmd{
		Name: c.python,
		Args: c.Args(imagePath),
		Dir:  c.root,
		Tee:  c.verbose,
	})
	if res.Err != nil {
		return &execx.Error{Tool: "fooocus", Stderr: res.Stderr, Err: res.Err}
	}
	return nil
}
