// Command upreel is the CLI entrypoint for the upreel batch upscaler.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check), the input report (--inspect), or the
// upscale/encode pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/backmassage/upreel/internal/check"
	"github.com/backmassage/upreel/internal/config"
	"github.com/backmassage/upreel/internal/display"
	"github.com/backmassage/upreel/internal/encode"
	"github.com/backmassage/upreel/internal/fooocus"
	"github.com/backmassage/upreel/internal/logging"
	"github.com/backmassage/upreel/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:   "upreel",
		Usage:  "Upscale a folder of images with Fooocus and merge them into a slideshow video",
		Flags:  config.Flags(),
		Action: runAction,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "upreel: %v\n", err)
		os.Exit(1)
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("version") {
		fmt.Printf("upreel v%s (%s)\n", version, commit)
		return nil
	}

	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors surface
	// via cli.Exit on stderr. Once NewLogger succeeds, all output goes
	// through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	config.FromCommand(&cfg, cmd)

	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("upreel: %v", err), 2)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("upreel: %v", err), 1)
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return cli.Exit("", 1)
		}
		return nil
	}

	// Resolve the input to an absolute, symlink-free path: the upscaler runs
	// from the Fooocus root, not our cwd, so every path handed to it must be
	// absolute.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return cli.Exit("", 1)
	}
	cfg.InputDir = inputAbs

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between images without leaving partial output.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current image…")
		cancel()
	}()

	if cfg.InspectOnly {
		pipeline.Inspect(ctx, &cfg, log)
		return nil
	}

	// The output directory is created if needed, then checked against the
	// input: the frame claim scans the output for new PNGs, and must never
	// see (or rename) a source image.
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return cli.Exit("", 1)
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return cli.Exit("", 1)
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputDir)
		return cli.Exit("", 1)
	}
	cfg.OutputDir = outputAbs

	log.Info("=== upreel v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}
	log.Info("")

	// Fail fast if python/Fooocus or ffmpeg/libx264 are unavailable. A dry
	// run invokes no tools, so it skips the test encode too.
	if !cfg.DryRun {
		if err := check.CheckDeps(&cfg); err != nil {
			log.Error("%v", err)
			return cli.Exit("", 1)
		}
	}

	// Phase 4: Run pipeline (discover → upscale per image → claim frame →
	// merge). The first subprocess failure aborts the batch.
	up := fooocus.New(&cfg)
	enc := encode.New(&cfg)

	stats, err := pipeline.Run(ctx, &cfg, log, up, enc)
	if err != nil || stats.Failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
