package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/upreel/internal/config"
	"github.com/backmassage/upreel/internal/display"
	"github.com/backmassage/upreel/internal/logging"
	"github.com/backmassage/upreel/internal/probe"
	"github.com/backmassage/upreel/internal/term"
)

// fileRow holds the probed per-file data for the inspection table.
type fileRow struct {
	Name   string
	Format string
	Res    string
	Pixels int64
	Bytes  int64
}

// Inspect discovers images, probes each header, and prints a tabular
// format/resolution/size report with statistical outlier highlighting. It
// helps spot odd frames (mis-sized renders, stray thumbnails) before burning
// GPU time on a batch.
func Inspect(ctx context.Context, cfg *config.Config, log *logging.Logger) {
	files, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("Image discovery failed: %v", err)
		return
	}
	if len(files) == 0 {
		log.Warn("No images found in %s", cfg.InputDir)
		return
	}

	total := len(files)
	log.Info("Inspecting %d images in %s …", total, cfg.InputDir)
	fmt.Println()

	isTTY := term.IsTerminal(os.Stdout)
	var rows []fileRow
	var skipped int
	var pixelVals, sizeVals []float64

	for i, path := range files {
		if ctx.Err() != nil {
			if isTTY {
				clearProgress()
			}
			log.Warn("Interrupted")
			return
		}

		printProgress(isTTY, i+1, total, skipped, filepath.Base(path))

		info, err := probe.Probe(path)
		if err != nil {
			skipped++
			if isTTY {
				clearProgress()
			}
			log.Warn("Skip (unreadable): %s", filepath.Base(path))
			continue
		}

		row := fileRow{
			Name:   filepath.Base(path),
			Format: info.Format,
			Res:    info.Resolution(),
			Pixels: info.Pixels(),
			Bytes:  info.SizeBytes,
		}
		rows = append(rows, row)
		if row.Pixels > 0 {
			pixelVals = append(pixelVals, float64(row.Pixels))
		}
		if row.Bytes > 0 {
			sizeVals = append(sizeVals, float64(row.Bytes))
		}
	}

	if isTTY {
		clearProgress()
	}

	if len(rows) == 0 {
		log.Warn("No images could be probed")
		return
	}

	pStats := computeStats(pixelVals)
	sStats := computeStats(sizeVals)

	printInspectTable(rows, pStats, sStats)
	printInspectSummary(log, rows, pStats, sStats)
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	extremeLo float64 // Q1 - 3.0*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierLo: q1 - 1.5*iqr,
		outlierHi: q3 + 1.5*iqr,
		extremeLo: q1 - 3.0*iqr,
		extremeHi: q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid || v <= 0 {
		return ""
	}
	if v < b.extremeLo || v > b.extremeHi {
		return "extreme"
	}
	if v < b.outlierLo || v > b.outlierHi {
		return "outlier"
	}
	return ""
}

func printInspectTable(rows []fileRow, pStats, sStats iqrBounds) {
	nameW := len("File")
	fmtW := len("Format")
	resW := len("Resolution")
	mpW := len("Megapixels")
	szW := len("Size")

	for _, r := range rows {
		if len(r.Name) > nameW {
			nameW = len(r.Name)
		}
		if len(r.Format) > fmtW {
			fmtW = len(r.Format)
		}
		if len(r.Res) > resW {
			resW = len(r.Res)
		}
		mpStr := display.FormatMegapixels(r.Pixels)
		if len(mpStr) > mpW {
			mpW = len(mpStr)
		}
		szStr := display.FormatBytes(r.Bytes)
		if len(szStr) > szW {
			szW = len(szStr)
		}
	}

	if nameW > 50 {
		nameW = 50
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s  %-*s",
		nameW, "File",
		fmtW, "Format",
		resW, "Resolution",
		mpW, "Megapixels",
		szW, "Size",
	)
	separator := "  " + strings.Repeat("─", len(header)-2)

	fmt.Println(header)
	fmt.Println(separator)

	for _, r := range rows {
		name := r.Name
		if len(name) > nameW {
			name = name[:nameW-1] + "…"
		}

		mpPlain := display.FormatMegapixels(r.Pixels)
		szPlain := display.FormatBytes(r.Bytes)

		pClass := pStats.classify(float64(r.Pixels))
		sClass := sStats.classify(float64(r.Bytes))

		flag := worstFlag(pClass, sClass)
		flagStr := formatFlag(flag)

		// Pad the plain text first, then wrap in ANSI color. This avoids
		// the alignment bug where %-*s counts escape bytes as visible width.
		mpCell := colorPad(mpPlain, mpW, pClass)
		szCell := colorPad(szPlain, szW, sClass)

		fmt.Printf("  %-*s  %-*s  %-*s  %s  %s  %s\n",
			nameW, name,
			fmtW, r.Format,
			resW, r.Res,
			mpCell,
			szCell,
			flagStr,
		)
	}
	fmt.Println()
}

func printInspectSummary(log *logging.Logger, rows []fileRow, pStats, sStats iqrBounds) {
	var outliers, extremes int
	for _, r := range rows {
		pClass := pStats.classify(float64(r.Pixels))
		sClass := sStats.classify(float64(r.Bytes))
		worst := worstFlag(pClass, sClass)
		switch worst {
		case "extreme":
			extremes++
		case "outlier":
			outliers++
		}
	}

	log.Info("Inspected %d images", len(rows))

	// The frame pattern feeds every image through one video stream, so the
	// headline verdict is whether the batch shares a single resolution.
	resCounts := make(map[string]int)
	var resOrder []string
	for _, r := range rows {
		if resCounts[r.Res] == 0 {
			resOrder = append(resOrder, r.Res)
		}
		resCounts[r.Res]++
	}
	if len(resOrder) == 1 {
		log.Success("  Resolution: uniform (%s)", resOrder[0])
	} else {
		parts := make([]string, len(resOrder))
		for i, res := range resOrder {
			parts[i] = fmt.Sprintf("%s (%d)", res, resCounts[res])
		}
		log.Warn("  Resolution: %d distinct: %s; frames must share one size to merge",
			len(resOrder), strings.Join(parts, ", "))
	}

	if pStats.valid {
		log.Info("  Pixel-count IQR: %s – %s (outlier < %s or > %s)",
			display.FormatMegapixels(int64(pStats.q1)),
			display.FormatMegapixels(int64(pStats.q3)),
			display.FormatMegapixels(int64(pStats.outlierLo)),
			display.FormatMegapixels(int64(pStats.outlierHi)))
	}
	if sStats.valid {
		log.Info("  File-size IQR: %s – %s (outlier < %s or > %s)",
			display.FormatBytes(int64(sStats.q1)),
			display.FormatBytes(int64(sStats.q3)),
			display.FormatBytes(int64(sStats.outlierLo)),
			display.FormatBytes(int64(sStats.outlierHi)))
	}
	if outliers > 0 {
		log.Outlier("  %d outlier(s) flagged [*]", outliers)
	}
	if extremes > 0 {
		log.Error("  %d extreme outlier(s) flagged [!]", extremes)
	}
	if outliers == 0 && extremes == 0 {
		log.Success("  No outliers detected")
	}
}

func worstFlag(classes ...string) string {
	worst := ""
	for _, c := range classes {
		if c == "extreme" {
			return "extreme"
		}
		if c == "outlier" {
			worst = "outlier"
		}
	}
	return worst
}

func formatFlag(flag string) string {
	switch flag {
	case "extreme":
		return term.Red + "[!]" + term.NC
	case "outlier":
		return term.Orange + "[*]" + term.NC
	default:
		return ""
	}
}

// colorPad pads a plain string to width, then wraps in ANSI color. This
// ensures %-*s-style alignment works correctly regardless of escape sequences.
func colorPad(s string, width int, class string) string {
	padded := fmt.Sprintf("%-*s", width, s)
	switch class {
	case "extreme":
		return term.Red + padded + term.NC
	case "outlier":
		return term.Orange + padded + term.NC
	default:
		return padded
	}
}

// printProgress shows a live probe counter. On a TTY it writes an inline
// \r-overwritten line; otherwise it is a no-op.
func printProgress(isTTY bool, current, total, skipped int, name string) {
	if !isTTY {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  Probing [%d/%d] %d%% ", current, total, pct)
	if skipped > 0 {
		status += fmt.Sprintf("(%d skipped) ", skipped)
	}

	maxName := 40
	if len(name) > maxName {
		name = name[:maxName-1] + "…"
	}
	status += name

	// Pad to the terminal width to overwrite previous longer lines, then \r.
	width := term.Columns() - 1
	if len(status) < width {
		status += strings.Repeat(" ", width-len(status))
	}
	fmt.Fprintf(os.Stdout, "\r%s", status)
}

// clearProgress erases the inline progress line on a TTY.
func clearProgress() {
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", term.Columns()-1))
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
