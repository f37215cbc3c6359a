package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func IsValidImageFormat(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// ResizeImage decodes r and scales it down to fit in maxWidth x maxHeight,
// keeping the aspect ratio. Smaller images are returned as is.
func ResizeImage(r io.Reader, filename string, maxWidth, maxHeight uint) (image.Image, error) {
	img, err := decodeImage(r, filename)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width <= maxWidth && height <= maxHeight {
		return img, nil
	}

	widthRatio := float64(maxWidth) / float64(width)
	heightRatio := float64(maxHeight) / float64(height)

	var newWidth, newHeight uint
	if widthRatio < heightRatio {
		newWidth = maxWidth
		newHeight = uint(float64(height) * widthRatio)
	} else {
		newWidth = uint(float64(width) * heightRatio)
		newHeight = maxHeight
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3), nil
}

// Thumbnail resizes a profile photo and re-encodes it as JPEG.
func Thumbnail(r io.Reader, filename string, maxSize uint) ([]byte, *ImageDimensions, error) {
	img, err := ResizeImage(r, filename, maxSize, maxSize)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := EncodeImage(img, "jpeg", &buf, 85); err != nil {
		return nil, nil, err
	}

	b := img.Bounds()
	return buf.Bytes(), &ImageDimensions{Width: b.Dx(), Height: b.Dy()}, nil
}

func decodeImage(r io.Reader, filename string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

func EncodeImage(img image.Image, format string, writer io.Writer, quality int) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(writer, img)
	default:
		return ErrUnsupportedImage
	}
}
