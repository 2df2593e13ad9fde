package images

import (
	"bytes"
	"encoding/base64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 200, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sampleImage()))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, sampleImage(), nil))
	return buf.Bytes()
}

func encodeGIF(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, sampleImage(), nil))
	return buf.Bytes()
}

func dataURI(mime string, content []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
}

func TestDecodeDataURIExtension(t *testing.T) {
	tests := []struct {
		name    string
		mime    string
		content func(*testing.T) []byte
		want    string
	}{
		{name: "png", mime: "image/png", content: encodePNG, want: "png"},
		{name: "jpeg becomes jpg", mime: "image/jpeg", content: encodeJPEG, want: "jpg"},
		{name: "gif", mime: "image/gif", content: encodeGIF, want: "gif"},
		{name: "declared mime is ignored", mime: "image/png", content: encodeJPEG, want: "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := DecodeDataURI(dataURI(tt.mime, tt.content(t)))
			require.NoError(t, err)

			base, ext, found := strings.Cut(file.Name, ".")
			require.True(t, found)
			assert.Equal(t, tt.want, ext)
			_, err = uuid.Parse(base)
			assert.NoError(t, err)
			assert.Equal(t, tt.mime, file.ContentType)
		})
	}
}

func TestDecodeDataURIRoundTrip(t *testing.T) {
	content := encodePNG(t)

	file, err := DecodeDataURI(dataURI("image/png", content))
	require.NoError(t, err)
	assert.Equal(t, content, file.Content)
}

func TestDecodeDataURIUnpaddedPayload(t *testing.T) {
	content := encodePNG(t)
	uri := "data:image/png;base64," + base64.RawStdEncoding.EncodeToString(content)

	file, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, content, file.Content)
}

func TestDecodeDataURISniffsMissingMime(t *testing.T) {
	file, err := DecodeDataURI(dataURI("", encodePNG(t)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", file.ContentType)
}

func TestDecodeDataURIUniqueNames(t *testing.T) {
	uri := dataURI("image/png", encodePNG(t))

	first, err := DecodeDataURI(uri)
	require.NoError(t, err)
	second, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.NotEqual(t, first.Name, second.Name)
}

func TestDecodeDataURIRejectsMissingMarker(t *testing.T) {
	content := base64.StdEncoding.EncodeToString(encodePNG(t))

	for _, input := range []string{
		"",
		content,
		"data:image/png," + content,
		"data:image/png;base64" + content,
		"data:image/png;BASE64," + content,
	} {
		_, err := DecodeDataURI(input)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", input)
	}
}

func TestDecodeDataURIRejectsBadPayload(t *testing.T) {
	for _, input := range []string{
		"data:image/png;base64,!!!not-base64!!!",
		"data:image/png;base64,@@@@",
		"data:image/png;base64,",
		dataURI("image/png", []byte("definitely not an image")),
		dataURI("image/png", encodePNG(t)[:8]),
	} {
		_, err := DecodeDataURI(input)
		assert.ErrorIs(t, err, ErrInvalidImageData, "input %q", input)
	}
}
