package s3

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

var ErrUnsupportedImageType = errors.New("unsupported image type")

// allowedImageTypes 定義了允許上傳的圖片類型及其對應的副檔名
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
}

// ImageExtension 檢查 Content-Type 是否為允許的圖片類型，並返回對應的副檔名
func ImageExtension(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImageType, contentType)
	}
	ext, ok := allowedImageTypes[strings.ToLower(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImageType, mediaType)
	}
	return ext, nil
}
