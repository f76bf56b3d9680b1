package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/upreel/internal/config"
	"github.com/backmassage/upreel/internal/display"
	"github.com/backmassage/upreel/internal/encode"
	"github.com/backmassage/upreel/internal/execx"
	"github.com/backmassage/upreel/internal/frames"
	"github.com/backmassage/upreel/internal/logging"
	"github.com/backmassage/upreel/internal/probe"
	"github.com/backmassage/upreel/internal/term"
)

// Upscaler runs an external upscaler against a single image, leaving its
// output in the configured output directory.
type Upscaler interface {
	Upscale(ctx context.Context, imagePath string) error
}

// Encoder turns a directory of numbered frames into a video.
type Encoder interface {
	Encode(ctx context.Context, job encode.Job) (string, error)
}

// Run is the top-level batch entry point. It discovers images, upscales each
// one into a numbered frame, and encodes the sequence into a single video.
// The first failed image aborts the run: a missing frame would silently
// shorten the video, so there is nothing useful to continue with.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, up Upscaler, enc Encoder) (RunStats, error) {
	var stats RunStats

	images, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("Image discovery failed: %v", err)
		stats.Failed++
		return stats, err
	}

	stats.Total = len(images)
	if stats.Total == 0 {
		log.Warn("No images found in %s", cfg.InputDir)
		return stats, nil
	}

	logBatchHeader(cfg, log, &stats, images)

	for i, path := range images {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			stats.Failed++
			return stats, ctx.Err()
		}

		if err := processImage(ctx, cfg, log, path, &stats, up); err != nil {
			stats.Failed++
			return stats, err
		}
	}

	if cfg.DryRun {
		log.Success("[DRY] Would merge %d frames into %s", stats.Upscaled, encode.VideoFileName)
		logSummary(cfg, log, &stats)
		return stats, nil
	}

	videoPath, err := encodeVideo(ctx, cfg, log, &stats, enc)
	if err != nil {
		stats.Failed++
		return stats, err
	}
	stats.VideoPath = videoPath

	logSummary(cfg, log, &stats)
	return stats, nil
}

// processImage handles one source image: validate → snapshot → upscale →
// claim the generated PNG as the numbered frame.
func processImage(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	path string,
	stats *RunStats,
	up Upscaler,
) error {
	basename := filepath.Base(path)
	frameName := frames.Name(stats.Current)
	log.Info("[%d/%d] Processing %s -> %s", stats.Current, stats.Total, basename, frameName)

	// --- Validate ---
	fi, err := os.Stat(path)
	if err != nil {
		log.Error("File not found: %s", path)
		return err
	}

	// --- Log file stats (header probe is display-only; Fooocus is the
	// authority on whether it can read the file) ---
	if cfg.ShowFileStats {
		if info, perr := probe.Probe(path); perr == nil {
			logFileStats(log, cfg, info)
		} else {
			log.Debug(cfg.Verbose, "  Header probe failed: %v", perr)
		}
	}

	stats.TotalInputBytes += fi.Size()

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("[DRY] Would upscale to %s", frameName)
		stats.Upscaled++
		fmt.Println()
		return nil
	}

	// --- Snapshot the output dir, then upscale ---
	before, err := frames.Snap(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot scan output directory: %v", err)
		return err
	}

	start := time.Now()
	if err := up.Upscale(ctx, path); err != nil {
		log.Error("Upscale failed: %v", err)
		logToolStderr(log, err)
		return err
	}

	// --- Claim the generated frame ---
	res, err := frames.Claim(cfg.OutputDir, before, stats.Current)
	if err != nil {
		if errors.Is(err, frames.ErrNoNewOutput) {
			log.Error("Upscaler finished but left no PNG in %s", cfg.OutputDir)
		} else {
			log.Error("Cannot claim output frame: %v", err)
		}
		return err
	}
	if res.Extra > 0 {
		log.Warn("  %d extra PNG(s) appeared, claimed newest (%s)", res.Extra, res.Source)
	}

	// --- Update stats ---
	elapsed := time.Since(start)
	stats.TotalFrameBytes += res.Bytes
	stats.Upscaled++

	ratio := int64(100)
	if fi.Size() > 0 {
		ratio = res.Bytes * 100 / fi.Size()
	}
	log.Success("Upscaled in %ds (%d%% of original)", int(elapsed.Seconds()), ratio)
	fmt.Println()
	return nil
}

// encodeVideo runs the single ffmpeg pass over the claimed frames.
func encodeVideo(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	stats *RunStats,
	enc Encoder,
) (string, error) {
	if ctx.Err() != nil {
		log.Warn("Interrupted before encode")
		return "", ctx.Err()
	}

	stale, err := frames.StaleFrames(cfg.OutputDir, stats.Upscaled)
	if err == nil && len(stale) > 0 {
		log.Warn("Found %d stale frame(s) beyond %s (e.g. %s); ffmpeg will pull them into the video",
			len(stale), frames.Name(stats.Upscaled), stale[0])
	}

	log.Render("Merging %d frames into video…", stats.Upscaled)

	job := encode.Job{
		FramesDir:       cfg.OutputDir,
		FrameCount:      stats.Upscaled,
		SecondsPerFrame: cfg.SecondsPerFrame,
		FPS:             cfg.OutputFPS,
	}

	stop := startSpinner(cfg, "encoding")
	videoPath, err := enc.Encode(ctx, job)
	stop()
	if err != nil {
		log.Error("Encode failed: %v", err)
		logToolStderr(log, err)
		return "", err
	}

	log.Success("Video saved to: %s", videoPath)
	return videoPath, nil
}

// logToolStderr prints the tail of a failed tool's stderr so the cause is
// visible without re-running.
func logToolStderr(log *logging.Logger, err error) {
	var xerr *execx.Error
	if !errors.As(err, &xerr) || xerr.Stderr == "" {
		return
	}
	log.Error("Last %s output:", xerr.Tool)
	lines := strings.Split(strings.TrimSpace(xerr.Stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

// startSpinner shows an indeterminate spinner while ffmpeg runs and returns
// a stop function. No-op when progress display is off, verbose already
// streams tool output, or stdout is not a TTY.
func startSpinner(cfg *config.Config, label string) func() {
	if !cfg.ShowProgress || cfg.Verbose || !term.IsTerminal(os.Stdout) {
		return func() {}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
	return func() {
		close(done)
		_ = bar.Finish()
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats, images []string) {
	log.Info("Found %d images", stats.Total)
	log.Info("Upscale: %dx via Fooocus (%s)", cfg.UpscaleFactor, cfg.FooocusEntry)
	if cfg.Preset != "" {
		log.Info("Preset: %s", cfg.Preset)
	} else {
		log.Info("Preset: default")
	}
	log.Info("Timing: %ds per frame, %d fps output", cfg.SecondsPerFrame, cfg.OutputFPS)
	log.Info("Output: %s", filepath.Join(cfg.OutputDir, encode.VideoFileName))
	warnMixedResolutions(log, images)
	if cfg.DryRun {
		log.Info("Mode: dry run (no tools invoked)")
	}
	fmt.Println()
}

// resolutionProfile probes every image and tallies distinct resolutions in
// first-seen order. Unreadable files are skipped; they fail individually
// later with a proper per-image error.
func resolutionProfile(images []string) (order []string, counts map[string]int) {
	counts = make(map[string]int)
	for _, path := range images {
		info, err := probe.Probe(path)
		if err != nil {
			continue
		}
		res := info.Resolution()
		if counts[res] == 0 {
			order = append(order, res)
		}
		counts[res]++
	}
	return order, counts
}

// warnMixedResolutions flags batches whose images do not share one size.
// The frame sequence feeds a single video stream, so ffmpeg rejects frames
// that disagree on resolution.
func warnMixedResolutions(log *logging.Logger, images []string) {
	order, counts := resolutionProfile(images)
	if len(order) <= 1 {
		return
	}
	parts := make([]string, len(order))
	for i, res := range order {
		parts[i] = fmt.Sprintf("%s (%d)", res, counts[res])
	}
	log.Warn("Mixed input resolutions: %s; frames must share one size to merge",
		strings.Join(parts, ", "))
}

func logFileStats(log *logging.Logger, cfg *config.Config, info *probe.ImageInfo) {
	format := info.Format
	if format == "" {
		format = "unknown"
	}
	log.Info("  Image: %s | %s | %s | %s -> %s",
		info.Resolution(),
		display.FormatMegapixels(info.Pixels()),
		display.FormatBytes(info.SizeBytes),
		format,
		info.Scaled(cfg.UpscaleFactor))
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d upscaled, %d failed", stats.Upscaled, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Total images processed: %d", stats.Current)

	if cfg.DryRun {
		log.Info("  Total frame growth: n/a (dry run)")
		return
	}

	log.Info("  Total frame growth: %s (input %s -> frames %s)",
		display.FormatBytesWithSign(stats.Growth()),
		display.FormatBytes(stats.TotalInputBytes),
		display.FormatBytes(stats.TotalFrameBytes))

	if stats.VideoPath != "" {
		if fi, err := os.Stat(stats.VideoPath); err == nil {
			log.Info("  Video: %s (%s, %ds)",
				stats.VideoPath,
				display.FormatBytes(fi.Size()),
				stats.Upscaled*cfg.SecondsPerFrame)
		}
	}
}
