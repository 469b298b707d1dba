package imagestore

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// Resize scales an encoded image to exactly width x height with Lanczos3
// and re-encodes it in its original format. Images already at that size
// are returned unchanged.
func Resize(data []byte, width, height int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return data, nil
	}

	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90})
	case "gif":
		err = gif.Encode(&buf, resized, nil)
	case "png":
		err = png.Encode(&buf, resized)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
