package media

import (
	"bytes"
	"fmt"
	"image"

	"manifest-gallery/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// MaxImageDimension is the maximum width or height served as an
	// inline preview. Larger images are downscaled first.
	MaxImageDimension = 4096

	// MaxImagePixels is the maximum total pixels (width * height) served
	// as an inline preview. A 20MP RGBA image already uses ~80MB decoded.
	MaxImagePixels = 20_000_000
)

// Verify decodes data as an image and returns the decoded image plus the
// detected format name ("jpeg", "png", "gif", "webp"). A failure here
// means the payload is not displayable media, whatever its HTTP status
// claimed.
func Verify(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("payload is not a decodable image: %w", err)
	}
	return img, format, nil
}

// Preview returns payload bytes suitable for inline display, plus their
// content type. Images within the size limits pass through unchanged;
// oversized images are downscaled and re-encoded as JPEG so a single
// huge upstream file cannot blow the preview store's budget.
func Preview(data []byte) ([]byte, string, error) {
	img, format, err := Verify(data)
	if err != nil {
		return nil, "", err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= MaxImageDimension && height <= MaxImageDimension && width*height <= MaxImagePixels {
		return data, formatContentType(format), nil
	}

	targetWidth, targetHeight := constrain(width, height, MaxImageDimension, MaxImagePixels)
	logging.Debug("constraining %s preview from %dx%d to %dx%d", format, width, height, targetWidth, targetHeight)

	resized := imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("failed to encode constrained preview: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// constrain computes target dimensions that respect both the per-axis
// maximum and the total pixel budget while preserving aspect ratio.
func constrain(width, height, maxDimension, maxPixels int) (int, int) {
	targetWidth, targetHeight := width, height

	if width > maxDimension || height > maxDimension {
		if width > height {
			targetWidth = maxDimension
			targetHeight = height * maxDimension / width
		} else {
			targetHeight = maxDimension
			targetWidth = width * maxDimension / height
		}
	}

	if targetWidth*targetHeight > maxPixels {
		scale := float64(maxPixels) / float64(targetWidth*targetHeight)
		targetWidth = int(float64(targetWidth) * scale)
		targetHeight = int(float64(targetHeight) * scale)
	}

	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}
	return targetWidth, targetHeight
}

func formatContentType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
