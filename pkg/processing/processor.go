// Package processing handles the image plumbing around detection: upload
// decoding (with WebP support), validation, model-input preparation, PNG
// re-encoding and box annotation.
package processing

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for decoded images with zero area.
var ErrEmptyImage = errors.New("image has zero width or height")

// Processor handles image processing operations.
type Processor struct {
	jpegQuality  int
	maxModelSide int
}

// NewProcessor creates a processor with standard settings.
func NewProcessor() *Processor {
	return &Processor{
		jpegQuality:  85,
		maxModelSide: 1024,
	}
}

// Decode decodes uploaded image bytes. Registered decoders are tried
// first; raw WebP is attempted explicitly as a fallback. The decoded
// image is validated for a positive area so downstream statistics never
// divide by zero.
func (p *Processor) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		var werr error
		if img, werr = webp.Decode(bytes.NewReader(data)); werr != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
	}

	if err := p.Validate(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Validate rejects degenerate images.
func (p *Processor) Validate(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return ErrEmptyImage
	}
	return nil
}

// EncodePNGBase64 re-encodes an image to PNG and returns it as a base64
// string. Output format is always PNG regardless of what was uploaded.
func (p *Processor) EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// PrepareForModel downsizes an image to the model input budget and
// returns base64 JPEG, the payload format the inference backends expect.
func (p *Processor) PrepareForModel(img image.Image) (string, error) {
	bounds := img.Bounds()
	if bounds.Dx() > p.maxModelSide || bounds.Dy() > p.maxModelSide {
		img = imaging.Fit(img, p.maxModelSide, p.maxModelSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodeJPEG returns the image as JPEG bytes, used for multipart uploads
// to remote inference services.
func (p *Processor) EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
