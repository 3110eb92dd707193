package storage

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"path"
	"strings"

	"github.com/gen2brain/heic"
)

const jpegQuality = 85

func isHEIC(data []byte, contentType string) bool {
	if contentType == "image/heic" || contentType == "image/heif" {
		return true
	}
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	default:
		return false
	}
}

// normalizeImage converts HEIC/HEIF photos, which browsers cannot display, to
// JPEG. Other formats pass through untouched.
func normalizeImage(data []byte, contentType string) ([]byte, string, error) {
	if !isHEIC(data, contentType) {
		return data, contentType, nil
	}

	img, err := heic.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding HEIC image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

func extensionFor(contentType, fileName string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return strings.ToLower(path.Ext(fileName))
	}
}
