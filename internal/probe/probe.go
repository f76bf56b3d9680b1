// Package probe reads still-image headers to extract format and dimensions
// without decoding pixel data. The blank imports register every decoder the
// pipeline accepts (png, jpeg, bmp, tiff).
package probe

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImageInfo holds the header-level properties of a single still image.
type ImageInfo struct {
	Path      string
	Format    string // decoder name: "png", "jpeg", "bmp", "tiff"
	Width     int
	Height    int
	SizeBytes int64
}

// Probe decodes the header of the image at path. Pixel data is never read,
// so probing a large batch stays cheap.
func Probe(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode header of %q: %w", path, err)
	}

	return &ImageInfo{
		Path:      path,
		Format:    format,
		Width:     cfg.Width,
		Height:    cfg.Height,
		SizeBytes: fi.Size(),
	}, nil
}

// Resolution returns "WxH", or "unknown" when dimensions are missing.
func (i *ImageInfo) Resolution() string {
	if i.Width <= 0 || i.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}

// Pixels returns the total pixel count.
func (i *ImageInfo) Pixels() int64 {
	return int64(i.Width) * int64(i.Height)
}

// Scaled returns the resolution string after applying an upscale factor.
func (i *ImageInfo) Scaled(factor int) string {
	if i.Width <= 0 || i.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", i.Width*factor, i.Height*factor)
}
