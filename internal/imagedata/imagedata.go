// Package imagedata handles the embedded course images: data-URL encoding
// and decoding plus native-size probing. png, jpeg, gif and webp are
// supported.
package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var ErrNotDataURL = errors.New("not a base64 data URL")

const dataURLPrefix = "data:"

// Encode builds a base64 data URL for the given image bytes.
func Encode(mimeType string, data []byte) string {
	return dataURLPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Parse splits a base64 data URL into its MIME type and raw bytes.
func Parse(dataURL string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return "", nil, ErrNotDataURL
	}
	rest := dataURL[len(dataURLPrefix):]
	meta, payload, found := strings.Cut(rest, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrNotDataURL
	}
	mimeType = strings.TrimSuffix(meta, ";base64")

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return mimeType, data, nil
}

// NativeSize returns the image's native pixel dimensions without decoding
// the full pixel data.
func NativeSize(dataURL string) (width, height int, err error) {
	_, data, err := Parse(dataURL)
	if err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Decode returns the full decoded image.
func Decode(dataURL string) (image.Image, error) {
	_, data, err := Parse(dataURL)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SupportedMIME reports whether a course image of this type can be embedded
// and decoded.
func SupportedMIME(mimeType string) bool {
	switch mimeType {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	}
	return false
}
