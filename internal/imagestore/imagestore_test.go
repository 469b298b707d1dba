package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantMIME string
		wantData string
		wantErr  bool
	}{
		{"base64", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("pngdata")), "image/png", "pngdata", false},
		{"unpadded base64", "data:image/png;base64,cG5nZA", "image/png", "pngd", false},
		{"percent encoded", "data:image/svg+xml,%3Csvg%2F%3E", "image/svg+xml", "<svg/>", false},
		{"default mime", "data:,hello", "text/plain", "hello", false},
		{"parameters only", "data:;charset=utf-8,hi", "text/plain", "hi", false},
		{"uppercase scheme", "DATA:image/gif;base64,R0lG", "image/gif", "GIF", false},
		{"not a data url", "https://example.com/a.png", "", "", true},
		{"missing comma", "data:image/png;base64", "", "", true},
		{"bad base64", "data:image/png;base64,***", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDataURL(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, got.MIMEType)
			assert.Equal(t, tt.wantData, string(got.Data))
		})
	}
}

const webpHeader = "RIFF\x1a\x00\x00\x00WEBPVP8 "

func TestCheckImage(t *testing.T) {
	pngData := pngBytes(t, 2, 2)
	tests := []struct {
		name    string
		img     DataURL
		wantExt string
	}{
		{"png", DataURL{MIMEType: "image/png", Data: pngData}, ".png"},
		{"case insensitive type", DataURL{MIMEType: "IMAGE/PNG", Data: pngData}, ".png"},
		{"webp by signature", DataURL{MIMEType: "image/webp", Data: []byte(webpHeader)}, ".webp"},
		{"bmp by signature", DataURL{MIMEType: "image/bmp", Data: []byte("BM\x00\x00")}, ".bmp"},
		{"html", DataURL{MIMEType: "text/html", Data: []byte("<script>alert(1)</script>")}, ""},
		{"javascript", DataURL{MIMEType: "text/javascript", Data: []byte("alert(1)")}, ""},
		{"svg", DataURL{MIMEType: "image/svg+xml", Data: []byte("<svg onload=alert(1)/>")}, ""},
		{"html labelled as png", DataURL{MIMEType: "image/png", Data: []byte("<html><script>x</script>")}, ""},
		{"truncated png", DataURL{MIMEType: "image/png", Data: pngData[:12]}, ""},
		{"png labelled as gif", DataURL{MIMEType: "image/gif", Data: pngData}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := CheckImage(tt.img)
			if tt.wantExt == "" {
				assert.ErrorIs(t, err, ErrInvalidDataURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestCardPath(t *testing.T) {
	assert.Equal(t, "cards/42/front_art.png", CardPath(42, FrontArt, ".png"))
	assert.Equal(t, "cards/7/back_image", CardPath(7, BackImage, ""))
}

func TestResize(t *testing.T) {
	t.Run("scales to exact size", func(t *testing.T) {
		out, err := Resize(pngBytes(t, 100, 140), 50, 70)
		require.NoError(t, err)
		w, h := imageSize(t, out)
		assert.Equal(t, 50, w)
		assert.Equal(t, 70, h)
	})

	t.Run("leaves matching size untouched", func(t *testing.T) {
		in := pngBytes(t, 50, 70)
		out, err := Resize(in, 50, 70)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("rejects undecodable data", func(t *testing.T) {
		_, err := Resize([]byte("not an image"), 50, 70)
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})
}

func TestFS_SaveOverwrites(t *testing.T) {
	root := t.TempDir()
	s := NewFS(root, "/media", 50, 70, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "cards/1/front_art.png", []byte("first")))
	require.NoError(t, s.Save(ctx, "cards/1/front_art.png", []byte("second")))

	got, err := os.ReadFile(filepath.Join(root, "cards", "1", "front_art.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Join(root, "cards", "1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFS_RejectsEscapingPaths(t *testing.T) {
	s := NewFS(t.TempDir(), "/media/", 50, 70, zap.NewNop())
	assert.ErrorIs(t, s.Save(context.Background(), "../outside.png", []byte("x")), ErrInvalidPath)
	assert.ErrorIs(t, s.Save(context.Background(), "/etc/passwd", []byte("x")), ErrInvalidPath)
}

func TestFS_URL(t *testing.T) {
	s := NewFS(t.TempDir(), "/media", 50, 70, zap.NewNop())
	assert.Equal(t, "/media/cards/1/front_art.png", s.URL("cards/1/front_art.png"))
	assert.Equal(t, "", s.URL(""))

	s = NewFS(t.TempDir(), "https://cdn.example.com/m/", 50, 70, zap.NewNop())
	assert.Equal(t, "https://cdn.example.com/m/cards/2/back_art.jpg", s.URL("cards/2/back_art.jpg"))
}

func TestFS_SaveCardImage(t *testing.T) {
	s := NewFS(t.TempDir(), "/media/", 50, 70, zap.NewNop())
	ctx := context.Background()
	upload := DataURL{MIMEType: "image/png", Data: pngBytes(t, 100, 100)}

	t.Run("rendered image is resized", func(t *testing.T) {
		rel, err := s.SaveCardImage(ctx, 3, FrontImage, upload)
		require.NoError(t, err)
		assert.Equal(t, "cards/3/front_image.png", rel)

		data, err := s.Open(rel)
		require.NoError(t, err)
		w, h := imageSize(t, data)
		assert.Equal(t, 50, w)
		assert.Equal(t, 70, h)
	})

	t.Run("art is stored unmodified", func(t *testing.T) {
		rel, err := s.SaveCardImage(ctx, 3, FrontArt, upload)
		require.NoError(t, err)

		data, err := s.Open(rel)
		require.NoError(t, err)
		assert.Equal(t, upload.Data, data)
	})

	t.Run("undecodable rendered image is kept as uploaded", func(t *testing.T) {
		rel, err := s.SaveCardImage(ctx, 3, BackImage, DataURL{MIMEType: "image/webp", Data: []byte(webpHeader)})
		require.NoError(t, err)
		assert.Equal(t, "cards/3/back_image.webp", rel)
	})

	require.NoError(t, s.DeleteCard(ctx, 3))
	_, err := s.Open("cards/3/front_art.png")
	assert.True(t, os.IsNotExist(err))
}

func TestFS_SaveCardImage_RejectsNonImages(t *testing.T) {
	root := t.TempDir()
	s := NewFS(root, "/media/", 50, 70, zap.NewNop())

	for _, slot := range []Slot{FrontArt, FrontImage} {
		upload, err := DecodeDataURL("data:text/html,%3Cscript%3Ealert(1)%3C/script%3E")
		require.NoError(t, err)

		rel, err := s.SaveCardImage(context.Background(), 1, slot, upload)
		assert.ErrorIs(t, err, ErrInvalidDataURL, string(slot))
		assert.Empty(t, rel)
	}
	assert.NoDirExists(t, filepath.Join(root, "cards", "1"))
}

func TestFS_Delete(t *testing.T) {
	root := t.TempDir()
	s := NewFS(root, "/media/", 50, 70, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "cards/4/back_art.png", []byte("x")))
	require.NoError(t, s.Delete(ctx, "cards/4/back_art.png"))
	assert.NoFileExists(t, filepath.Join(root, "cards", "4", "back_art.png"))

	assert.NoError(t, s.Delete(ctx, "cards/4/back_art.png"), "missing files are ignored")
	assert.ErrorIs(t, s.Delete(ctx, "../escape.png"), ErrInvalidPath)
}
