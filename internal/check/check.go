// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for the Python launcher, the Fooocus
// entry script, ffmpeg, and libx264.
package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/upreel/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrPythonNotFound      = errors.New("python interpreter not found on PATH")
	ErrEntryScriptNotFound = errors.New("Fooocus entry script not found under the Fooocus root")
	ErrFfmpegNotFound      = errors.New("ffmpeg not found on PATH")
	ErrX264EncodeFailed    = errors.New("libx264 test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of the
// Python interpreter, the Fooocus entry script, ffmpeg, H.264 encoders, and
// a libx264 test encode. It reports every check rather than stopping at the
// first failure, and returns false if any required tool is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkPython(cfg, log)
	ok = checkFooocus(cfg, log) && ok
	ok = checkFfmpeg(log) && ok
	checkH264Encoders(log)
	ok = checkX264(log) && ok
	return ok
}

// checkPython verifies the configured interpreter is on PATH and logs its
// version string.
func checkPython(cfg *config.Config, log Logger) bool {
	path, err := exec.LookPath(cfg.PythonBin)
	if err != nil {
		log.Error("%s not found", cfg.PythonBin)
		return false
	}
	cmd := exec.Command(cfg.PythonBin, "--version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but --version failed: %v", cfg.PythonBin, err)
		return true
	}
	log.Success("%s: %s (%s)", cfg.PythonBin, strings.TrimSpace(string(out)), path)
	return true
}

// checkFooocus verifies the entry script exists under the Fooocus root.
func checkFooocus(cfg *config.Config, log Logger) bool {
	entry := filepath.Join(cfg.FooocusRoot, cfg.FooocusEntry)
	fi, err := os.Stat(entry)
	if err != nil {
		log.Error("Fooocus entry script missing: %s", entry)
		return false
	}
	if fi.IsDir() {
		log.Error("Fooocus entry path is a directory: %s", entry)
		return false
	}
	log.Success("Fooocus: %s", entry)
	return true
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return false
	}
	cmd := exec.Command("ffmpeg", "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
	return true
}

// checkH264Encoders lists all H.264-related encoders reported by ffmpeg.
func checkH264Encoders(log Logger) {
	log.Info("H.264 encoders:")
	cmd := exec.Command("ffmpeg", "-hide_banner", "-encoders")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(strings.ToLower(line), "264") {
			log.Info("  %s", strings.TrimSpace(line))
		}
	}
}

// checkX264 runs a minimal libx264 encode to verify the video encoder works.
func checkX264(log Logger) bool {
	log.Info("Testing libx264...")
	if runSilent("ffmpeg", x264TestArgs()...) {
		log.Success("libx264 works")
		return true
	}
	log.Error("libx264 test encode failed")
	return false
}

// CheckDeps is the pre-pipeline validation, ordered the way the pipeline
// uses the tools: the Python launcher and entry script gate the upscaler,
// ffmpeg and a quick libx264 encode gate the final merge. Returns a
// sentinel error on the first failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.PythonBin); err != nil {
		return ErrPythonNotFound
	}
	entry := filepath.Join(cfg.FooocusRoot, cfg.FooocusEntry)
	if fi, err := os.Stat(entry); err != nil || fi.IsDir() {
		return ErrEntryScriptNotFound
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if !runSilent("ffmpeg", x264TestArgs()...) {
		return ErrX264EncodeFailed
	}
	return nil
}

// --- internal helpers ---

// x264TestArgs returns the ffmpeg arguments for a minimal libx264 test
// encode. Shared by checkX264 and CheckDeps to avoid duplicating the list.
func x264TestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "libx264",
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
