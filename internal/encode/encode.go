// Package encode stitches the numbered frames into the final video with a
// single ffmpeg invocation.
package encode

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/backmassage/upreel/internal/config"
	"github.com/backmassage/upreel/internal/execx"
	"github.com/backmassage/upreel/internal/frames"
)

// VideoFileName is the fixed name of the final video inside the output
// directory, matching the legacy batch script.
const VideoFileName = "output_video.mp4"

// Job describes one encode: FrameCount numbered frames in FramesDir become a
// video where each frame holds for SecondsPerFrame at FPS output rate.
type Job struct {
	FramesDir       string
	FrameCount      int
	SecondsPerFrame int
	FPS             int
}

// VideoPath returns where the encoded video will land.
func (j Job) VideoPath() string {
	return filepath.Join(j.FramesDir, VideoFileName)
}

// InputRate formats the input framerate for one frame every spf seconds the
// way the legacy script did (e.g. "0.500000" for two seconds per frame).
func InputRate(spf int) string {
	return fmt.Sprintf("%.6f", 1/float64(spf))
}

// FFmpeg encodes via the ffmpeg CLI with libx264 output.
type FFmpeg struct {
	verbose bool
}

// New builds an FFmpeg encoder from cfg.
func New(cfg *config.Config) *FFmpeg {
	return &FFmpeg{verbose: cfg.Verbose}
}

// BuildArgs compiles the ffmpeg argv (minus the program name) for job.
func (f *FFmpeg) BuildArgs(job Job) []string {
	pattern := filepath.Join(job.FramesDir, frames.Pattern)
	return ffmpeg.Input(pattern, ffmpeg.KwArgs{"framerate": InputRate(job.SecondsPerFrame)}).
		Output(job.VideoPath(), ffmpeg.KwArgs{
			"c:v":     "libx264",
			"r":       strconv.Itoa(job.FPS),
			"pix_fmt": "yuv420p",
		}).
		OverWriteOutput().
		GetArgs()
}

// Encode runs ffmpeg over the frames and returns the video path. On failure
// the returned error carries the captured stderr.
func (f *FFmpeg) Encode(ctx context.Context, job Job) (string, error) {
	res := execx.Run(ctx, execx.Cmd{
		Name: "ffmpeg",
		Args: f.BuildArgs(job),
		Tee:  f.verbose,
	})
	if res.Err != nil {
		return "", &execx.Error{Tool: "ffmpeg", Stderr: res.Stderr, Err: res.Err}
	}
	return job.VideoPath(), nil
}
