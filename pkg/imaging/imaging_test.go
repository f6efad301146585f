package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcess_ReencodesPNGAsJPEG(t *testing.T) {
	t.Parallel()

	result, err := Process(bytes.NewReader(encodePNG(t, 200, 100)))
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", result.MIME)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestProcess_DownscalesLargeImages(t *testing.T) {
	t.Parallel()

	result, err := Process(bytes.NewReader(encodePNG(t, 2048, 512)))
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, cfg.Width)
	assert.Equal(t, 256, cfg.Height)
}

func TestProcess_AcceptsJPEG(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	result, err := Process(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", result.MIME)
}

func TestProcess_RejectsNonImageData(t *testing.T) {
	t.Parallel()

	_, err := Process(bytes.NewReader([]byte("%PDF-1.4 definitely not an image")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}
