package downloader

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/png"
	"mime"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// DetectImageFormat reads the magic bytes and returns the image format.
func DetectImageFormat(data []byte) (string, error) {
	if len(data) < 12 {
		return "", errors.New("data too short to determine format")
	}

	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg", nil
	}
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "png", nil
	}
	if string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a" {
		return "gif", nil
	}
	if string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "webp", nil
	}

	return "", errors.New("unknown image format")
}

// IsImageData reports whether a response body looks like an actual image:
// non-empty, and either declared as image/* or carrying recognizable magic
// bytes. HTML error pages served with status 200 fail this check.
func IsImageData(data []byte, contentType string) bool {
	if len(data) == 0 {
		return false
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasPrefix(mediaType, "image/") {
		return true
	}
	_, err := DetectImageFormat(data)
	return err == nil
}

// ExtensionFor derives the saved file's extension from the content type
// first, the URL suffix second, defaulting to jpg.
func ExtensionFor(contentType, imageURL string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "image/jpeg":
			return "jpg"
		case "image/png":
			return "png"
		case "image/gif":
			return "gif"
		case "image/webp":
			return "webp"
		}
	}

	lowered := strings.ToLower(imageURL)
	switch {
	case strings.Contains(lowered, ".png"):
		return "png"
	case strings.Contains(lowered, ".gif"):
		return "gif"
	case strings.Contains(lowered, ".webp"):
		return "webp"
	}

	return "jpg"
}

// ConvertImageToJPEG decodes imgBytes and saves them to outputPath as a
// quality-90 JPEG. Bytes that already are JPEG are written out untouched.
func ConvertImageToJPEG(imgBytes []byte, outputPath string) error {
	if len(imgBytes) == 0 {
		return errors.New("empty image data")
	}

	format, err := DetectImageFormat(imgBytes)
	if err != nil {
		return err
	}

	if format == "jpeg" {
		return os.WriteFile(outputPath, imgBytes, 0644)
	}

	var img image.Image
	reader := bytes.NewReader(imgBytes)

	switch format {
	case "png":
		img, err = png.Decode(reader)
	case "gif":
		img, err = gif.Decode(reader)
	case "webp":
		img, err = webp.Decode(reader)
	default:
		return errors.New("unsupported image format: " + format)
	}

	if err != nil {
		return errors.New("failed to decode " + format + " image: " + err.Error())
	}

	return imaging.Save(img, outputPath, imaging.JPEGQuality(90))
}
