package imagestore

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid data URL")

// DataURL is a decoded RFC 2397 data URL.
type DataURL struct {
	MIMEType string
	Data     []byte
}

// IsDataURL reports whether s looks like an inline data URL.
func IsDataURL(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

// DecodeDataURL decodes base64 and percent-encoded data URLs.
func DecodeDataURL(s string) (DataURL, error) {
	if !IsDataURL(s) {
		return DataURL{}, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(s[5:], ",")
	if !ok {
		return DataURL{}, fmt.Errorf("%w: missing comma", ErrInvalidDataURL)
	}

	isBase64 := false
	if trimmed, found := strings.CutSuffix(header, ";base64"); found {
		header, isBase64 = trimmed, true
	}

	mimeType := "text/plain"
	if strings.HasPrefix(header, ";") {
		header = mimeType + header
	}
	if header != "" {
		mt, _, err := mime.ParseMediaType(header)
		if err != nil {
			return DataURL{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		mimeType = mt
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Some encoders drop the padding.
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return DataURL{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
			}
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return DataURL{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		data = []byte(unescaped)
	}

	return DataURL{MIMEType: mimeType, Data: data}, nil
}

// acceptedImages maps the upload types the store accepts to their file
// extensions. Vector and markup formats are excluded since stored files are
// served from the API origin.
var acceptedImages = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// CheckImage verifies that img is a raster image of an accepted type whose
// content matches the declared MIME type, and returns its file extension.
func CheckImage(img DataURL) (string, error) {
	mt := strings.ToLower(img.MIMEType)
	if mt == "image/jpg" {
		mt = "image/jpeg"
	}
	ext, ok := acceptedImages[mt]
	if !ok {
		return "", fmt.Errorf("%w: %q is not an accepted image type", ErrInvalidDataURL, img.MIMEType)
	}
	if sniffed := http.DetectContentType(img.Data); sniffed != mt {
		return "", fmt.Errorf("%w: content is %s, not %s", ErrInvalidDataURL, sniffed, mt)
	}
	switch mt {
	case "image/png", "image/jpeg", "image/gif":
		if _, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
	}
	return ext, nil
}
