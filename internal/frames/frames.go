// Package frames claims the PNGs an upscaler run leaves behind and sequences
// them into numbered video frames.
//
// Fooocus drops its own timestamped file into the output directory and does
// not report the name. Claim works around that: the runner snapshots the
// directory before each run, and whatever PNG is new (or rewritten) afterwards
// is the run's output, newest mtime winning.
package frames

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Pattern is the printf-style name ffmpeg consumes for numbered frames.
const Pattern = "frame_%03d.png"

// Name returns the numbered frame filename for a 1-based index.
func Name(index int) string {
	return fmt.Sprintf(Pattern, index)
}

// ErrNoNewOutput reports that an upscaler run finished without leaving a new
// PNG behind in the output directory.
var ErrNoNewOutput = errors.New("no new output image found")

// Snapshot records the PNGs present in a directory with their mtimes, taken
// before an upscaler run so Claim can tell its output apart from
// pre-existing files.
type Snapshot map[string]time.Time

// Snap lists the PNGs currently in dir.
func Snap(dir string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	s := make(Snapshot, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isPNG(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		s[e.Name()] = fi.ModTime()
	}
	return s, nil
}

func isPNG(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".png")
}

// ClaimResult reports what Claim renamed.
type ClaimResult struct {
	Source string // basename of the claimed PNG
	Frame  string // full path of the numbered frame
	Bytes  int64
	Extra  int // new PNGs left unclaimed (upscaler produced more than one)
}

// Claim finds the newest PNG in dir that appeared or changed since the
// before snapshot, renames it to the numbered frame for index, and reports
// what it did. Returns ErrNoNewOutput when the run left nothing behind.
func Claim(dir string, before Snapshot, index int) (*ClaimResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		name  string
		mtime time.Time
		size  int64
	}
	var cands []candidate
	for _, e := range entries {
		if e.IsDir() || !isPNG(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		prev, seen := before[e.Name()]
		if seen && !fi.ModTime().After(prev) {
			continue // pre-existing and untouched
		}
		cands = append(cands, candidate{e.Name(), fi.ModTime(), fi.Size()})
	}
	if len(cands) == 0 {
		return nil, ErrNoNewOutput
	}

	// Newest wins; equal mtimes break on name so the pick is stable.
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].mtime.Equal(cands[j].mtime) {
			return cands[i].name < cands[j].name
		}
		return cands[i].mtime.Before(cands[j].mtime)
	})
	pick := cands[len(cands)-1]

	framePath := filepath.Join(dir, Name(index))
	if err := os.Rename(filepath.Join(dir, pick.name), framePath); err != nil {
		return nil, err
	}
	return &ClaimResult{
		Source: pick.name,
		Frame:  framePath,
		Bytes:  pick.size,
		Extra:  len(cands) - 1,
	}, nil
}

// StaleFrames returns numbered frames already in dir beyond count. ffmpeg's
// %03d input pattern would pull them into the video, so the runner warns
// about leftovers from earlier runs instead of silently encoding them.
func StaleFrames(dir string, count int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(e.Name(), Pattern, &n); err != nil {
			continue
		}
		if e.Name() != Name(n) {
			continue // loose Sscanf match, e.g. frame_04.png
		}
		if n > count {
			stale = append(stale, e.Name())
		}
	}
	sort.Strings(stale)
	return stale, nil
}
