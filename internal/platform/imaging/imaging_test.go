package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestInspectAcceptsImages(t *testing.T) {
	var pngBuf, jpgBuf, gifBuf bytes.Buffer
	if err := png.Encode(&pngBuf, sample()); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	if err := jpeg.Encode(&jpgBuf, sample(), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	if err := gif.Encode(&gifBuf, sample(), nil); err != nil {
		t.Fatalf("gif encode: %v", err)
	}

	cases := []struct {
		name string
		data []byte
		ext  string
	}{
		{"png", pngBuf.Bytes(), "png"},
		{"jpeg", jpgBuf.Bytes(), "jpg"},
		{"gif", gifBuf.Bytes(), "gif"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := Inspect(tc.data)
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if info.Ext != tc.ext || info.Width != 4 || info.Height != 3 {
				t.Fatalf("Inspect: unexpected info %+v", info)
			}
		})
	}
}

func TestInspectRejectsNonImages(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("notanimage"), []byte("\x89PNG\r\n\x1a\ncorrupt")} {
		if _, err := Inspect(data); !errors.Is(err, ErrNotImage) {
			t.Fatalf("Inspect(%q): expected ErrNotImage, got %v", data, err)
		}
	}
}
