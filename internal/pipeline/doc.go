// Package pipeline orchestrates image discovery, per-image upscaling, frame
// sequencing, and the final video encode.
//
// Types:
//   - RunStats (Total, Current, Upscaled, Failed, byte totals; Growth method)
//   - Upscaler, Encoder (implemented by fooocus and encode, faked in tests)
//
// Functions:
//   - Run(ctx, cfg, log, up, enc) → (RunStats, error)
//     Batch runner: discover → for each image: snapshot output dir →
//     upscale → claim the generated PNG as frame_NNN.png → update stats;
//     then encode the frame sequence in a single ffmpeg pass. The first
//     failure aborts the batch.
//   - Discover(inputDir) → []string
//     Flat listing of the input directory filtered by image extension,
//     sorted lexicographically; the sort order is the frame order.
//   - Inspect(ctx, cfg, log)
//     Probe-only mode: tabular format/resolution/size report with
//     statistical outlier highlighting.
package pipeline
