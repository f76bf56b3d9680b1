package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total           int
	Current         int
	Upscaled        int
	Failed          int
	TotalInputBytes int64
	TotalFrameBytes int64
	VideoPath       string
}

// Growth returns the aggregate byte difference between generated frames and
// source images. Positive means the upscaled frames are larger.
func (s *RunStats) Growth() int64 {
	return s.TotalFrameBytes - s.TotalInputBytes
}
