// Package images 將data URI形式的base64圖片轉為具名檔案
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

const base64Marker = ";base64,"

var (
	ErrInvalidFormat    = errors.New("invalid file format")
	ErrInvalidImageData = errors.New("upload a valid image")
)

// File 已解碼的圖片，尚未儲存
type File struct {
	Name        string
	Content     []byte
	ContentType string
}

// DecodeDataURI 解碼 data:<mime>;base64,<payload>
// 副檔名取自圖片實際格式，不信任宣告的mime
func DecodeDataURI(data string) (*File, error) {
	header, payload, found := strings.Cut(data, base64Marker)
	if !found {
		return nil, ErrInvalidFormat
	}

	content, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}

	extension, err := Extension(content)
	if err != nil {
		return nil, err
	}

	contentType := strings.TrimPrefix(header, "data:")
	if contentType == "" {
		contentType = mimetype.Detect(content).String()
	}

	return &File{
		Name:        uuid.New().String() + "." + extension,
		Content:     content,
		ContentType: contentType,
	}, nil
}

// 接受有無padding的標準base64
func decodeBase64(payload string) ([]byte, error) {
	if strings.HasSuffix(payload, "=") || len(payload)%4 == 0 {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}

// Extension 依圖片標頭判斷副檔名，jpeg 回傳 jpg
func Extension(content []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}

	extension := strings.ToLower(format)
	if extension == "jpeg" {
		return "jpg", nil
	}
	return extension, nil
}
