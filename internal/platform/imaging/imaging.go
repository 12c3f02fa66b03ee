// Package imaging checks that an upload is a real raster image before it is stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("upload a valid image. the file you uploaded was either not an image or a corrupted image")

type Info struct {
	Format      string
	Ext         string
	ContentType string
	Width       int
	Height      int
}

// Inspect decodes the image header. Anything that does not decode as PNG, JPEG, GIF or
// WebP returns ErrNotImage.
func Inspect(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, ErrNotImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrNotImage
	}
	info := &Info{Format: format, Width: cfg.Width, Height: cfg.Height}
	switch format {
	case "png":
		info.Ext, info.ContentType = "png", "image/png"
	case "jpeg":
		info.Ext, info.ContentType = "jpg", "image/jpeg"
	case "gif":
		info.Ext, info.ContentType = "gif", "image/gif"
	case "webp":
		info.Ext, info.ContentType = "webp", "image/webp"
	default:
		return nil, ErrNotImage
	}
	return info, nil
}
