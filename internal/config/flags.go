package config

// This file defines the CLI flag surface and the copy from parsed command
// values into Config. Pipeline flag names and defaults mirror the legacy
// batch script; negated flags (--no-stats, --no-color) are applied after
// parsing so Config defaults hold unless the user passes the flag.

import (
	"github.com/urfave/cli/v3"
)

// Flags returns the flag set for the upreel command, in --help order:
// pipeline flags first, then upscaler location, behavior, display, utility.
func Flags() []cli.Flag {
	return []cli.Flag{
		// Pipeline.
		&cli.StringFlag{
			Name:    "input_folder",
			Aliases: []string{"i"},
			Usage:   "folder of input images (required)",
		},
		&cli.StringFlag{
			Name:    "output_folder",
			Aliases: []string{"o"},
			Usage:   "folder for numbered frames and the final video (required)",
		},
		&cli.StringFlag{
			Name:    "preset",
			Aliases: []string{"p"},
			Usage:   "Fooocus preset to use (e.g. anime, realistic)",
		},
		&cli.IntFlag{
			Name:    "upscale_factor",
			Aliases: []string{"u"},
			Value:   2,
			Usage:   "upscaling multiplier (e.g. 2 = 2x)",
		},
		&cli.IntFlag{
			Name:    "framerate",
			Aliases: []string{"f"},
			Value:   1,
			Usage:   "seconds each frame holds in the video",
		},
		&cli.IntFlag{
			Name:  "video_fps",
			Value: 30,
			Usage: "frames per second of the output video",
		},

		// Upscaler location.
		&cli.StringFlag{
			Name:  "fooocus-root",
			Value: ".",
			Usage: "Fooocus checkout directory (the upscaler runs with this as its working directory)",
		},
		&cli.StringFlag{
			Name:  "fooocus-entry",
			Value: "entry_with_update.py",
			Usage: "launcher script inside the Fooocus root",
		},
		&cli.StringFlag{
			Name:  "python",
			Value: "python3",
			Usage: "Python interpreter used to run the launcher",
		},

		// Behavior.
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"d"},
			Usage:   "preview only; invoke neither the upscaler nor ffmpeg",
		},
		&cli.BoolFlag{
			Name:  "inspect",
			Usage: "probe the input images, print a report, and exit",
		},
		&cli.BoolFlag{
			Name:    "check",
			Aliases: []string{"c"},
			Usage:   "run system diagnostics (ffmpeg, libx264, python, Fooocus) and exit",
		},

		// Display.
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "verbose output; stream child process output to the terminal",
		},
		&cli.BoolFlag{
			Name:  "no-stats",
			Usage: "hide per-image source stats",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "disable the encode spinner",
		},
		&cli.BoolFlag{
			Name:  "color",
			Usage: "force colored logs",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored logs",
		},

		// Utility.
		&cli.StringFlag{
			Name:    "log",
			Aliases: []string{"l"},
			Usage:   "append logs to a file",
		},
		&cli.BoolFlag{
			Name:    "version",
			Aliases: []string{"V"},
			Usage:   "print version and exit",
		},
	}
}

// FromCommand copies parsed flag values into cfg. Negated flags win over
// their positive counterparts (--no-color beats --color), matching the
// legacy precedence.
func FromCommand(cfg *Config, cmd *cli.Command) {
	cfg.InputDir = NormalizeDirArg(cmd.String("input_folder"))
	cfg.OutputDir = NormalizeDirArg(cmd.String("output_folder"))
	cfg.Preset = cmd.String("preset")
	cfg.UpscaleFactor = int(cmd.Int("upscale_factor"))
	cfg.SecondsPerFrame = int(cmd.Int("framerate"))
	cfg.OutputFPS = int(cmd.Int("video_fps"))

	cfg.FooocusRoot = NormalizeDirArg(cmd.String("fooocus-root"))
	cfg.FooocusEntry = cmd.String("fooocus-entry")
	cfg.PythonBin = cmd.String("python")

	cfg.DryRun = cmd.Bool("dry-run")
	cfg.InspectOnly = cmd.Bool("inspect")
	cfg.CheckOnly = cmd.Bool("check")

	cfg.Verbose = cmd.Bool("verbose")
	if cmd.Bool("no-stats") {
		cfg.ShowFileStats = false
	}
	if cmd.Bool("no-progress") {
		cfg.ShowProgress = false
	}
	if cmd.Bool("no-color") {
		cfg.ColorMode = ColorNever
	} else if cmd.Bool("color") {
		cfg.ColorMode = ColorAlways
	}
	cfg.LogFile = cmd.String("log")
}
