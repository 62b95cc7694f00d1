// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging provides the pure-Go image work the service needs:
// content sniffing for generated and uploaded images, JPEG thumbnails for
// reference uploads, and the rendered placeholder used in demo mode.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// ThumbMaxWidth is the maximum thumbnail width in pixels.
	ThumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// AllowedTypes maps the accepted image MIME types to their canonical
// extensions.
var AllowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// extAliases lists every file extension accepted for each MIME type.
var extAliases = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
	"image/gif":  {".gif"},
}

// DetectContentType sniffs the MIME type of image bytes. WebP is matched
// explicitly since older sniffers report it as application/octet-stream.
func DetectContentType(data []byte) string {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}
	return http.DetectContentType(data)
}

// Extension returns the canonical file extension for a MIME type, or ""
// for types outside AllowedTypes.
func Extension(contentType string) string {
	return AllowedTypes[contentType]
}

// ExtensionMatches reports whether ext (with leading dot, any case already
// lowered by the caller) is a valid extension for contentType.
func ExtensionMatches(contentType, ext string) bool {
	for _, e := range extAliases[contentType] {
		if e == ext {
			return true
		}
	}
	return false
}

// Thumbnail creates a JPEG thumbnail from image bytes, constrained to
// maxWidth while preserving aspect ratio. Returns nil if the image is
// already no wider than maxWidth. GIFs are skipped to keep animation.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	// Decode config first to check dimensions without full decode.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if format == "gif" {
		return nil, nil
	}

	// Check for image bombs.
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	if cfg.Width <= maxWidth {
		return nil, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := max(1, int(float64(bounds.Dy())*ratio))

	// Resize using CatmullRom (high quality).
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
