// Package imagestore keeps uploaded card art and rendered card images on
// the local filesystem.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Slot names one of the four image fields of a card.
type Slot string

const (
	FrontArt   Slot = "front_art"
	FrontImage Slot = "front_image"
	BackArt    Slot = "back_art"
	BackImage  Slot = "back_image"
)

// Slots lists every slot in storage order.
var Slots = []Slot{FrontArt, FrontImage, BackArt, BackImage}

// Rendered reports whether the slot holds a full rendered card image,
// which is normalised to the card size on save.
func (s Slot) Rendered() bool {
	return s == FrontImage || s == BackImage
}

var ErrInvalidPath = errors.New("image path escapes media root")

// CardPath is the storage path of a card image, relative to the media root.
func CardPath(cardID int64, slot Slot, ext string) string {
	return fmt.Sprintf("cards/%d/%s%s", cardID, slot, ext)
}

type FS struct {
	root    string
	baseURL string
	width   int
	height  int
	log     *zap.Logger
}

func NewFS(root, baseURL string, width, height int, log *zap.Logger) *FS {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &FS{root: root, baseURL: baseURL, width: width, height: height, log: log}
}

func (s *FS) resolve(rel string) (string, error) {
	rel = filepath.FromSlash(path.Clean(rel))
	if !filepath.IsLocal(rel) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, rel), nil
}

// Save writes data at rel, replacing any existing file with that name.
func (s *FS) Save(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod image: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("replace image: %w", err)
	}
	return nil
}

// Open reads a stored image.
func (s *FS) Open(rel string) ([]byte, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// URL is the public URL of rel. An empty path has no URL.
func (s *FS) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.baseURL + strings.TrimPrefix(rel, "/")
}

// SaveCardImage stores a decoded upload for a card slot and returns its
// storage path. Uploads that are not accepted raster images fail with
// ErrInvalidDataURL. Rendered images are resized to the card size; accepted
// formats without a decoder (webp, bmp) are stored as uploaded.
func (s *FS) SaveCardImage(ctx context.Context, cardID int64, slot Slot, img DataURL) (string, error) {
	ext, err := CheckImage(img)
	if err != nil {
		return "", err
	}

	data := img.Data
	if slot.Rendered() {
		resized, err := Resize(data, s.width, s.height)
		switch {
		case err == nil:
			data = resized
		case errors.Is(err, ErrUnsupportedImage):
			s.log.Warn("card image not resized",
				zap.Int64("card_id", cardID),
				zap.String("slot", string(slot)),
				zap.String("mime", img.MIMEType),
				zap.Error(err),
			)
		default:
			return "", err
		}
	}

	rel := CardPath(cardID, slot, ext)
	if err := s.Save(ctx, rel, data); err != nil {
		return "", err
	}
	return rel, nil
}

// Delete removes the file at rel. A missing file is not an error.
func (s *FS) Delete(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// DeleteCard removes every stored image of a card.
func (s *FS) DeleteCard(ctx context.Context, cardID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(fmt.Sprintf("cards/%d", cardID))
	if err != nil {
		return err
	}
	return os.RemoveAll(full)
}
