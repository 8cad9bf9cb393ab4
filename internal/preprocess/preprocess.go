// Package preprocess converts decoded images into the normalized tensor
// the classifier consumes.
package preprocess

import (
	"errors"
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// Model input dimensions. These must match the classifier metadata.
const (
	TargetHeight = 224
	TargetWidth  = 224
	Channels     = 3
)

// ErrInvalidImage is returned when an image cannot be coerced into a
// valid tensor.
var ErrInvalidImage = errors.New("image cannot be converted to tensor")

// Tensor is a height×width×channels grid of float32 values in [0,1],
// laid out row-major with interleaved channels (HWC).
type Tensor struct {
	Data     []float32
	Height   int
	Width    int
	Channels int
}

// At returns the value at (y, x, c).
func (t *Tensor) At(y, x, c int) float32 {
	return t.Data[(y*t.Width+x)*t.Channels+c]
}

// Normalize resizes img to the model input size with Lanczos resampling,
// forces exactly three channels (grayscale sources are replicated, alpha
// is dropped) and scales every value into [0,1]. It is deterministic for
// a given input.
func Normalize(img image.Image) (*Tensor, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero-dimension image %dx%d", ErrInvalidImage, bounds.Dx(), bounds.Dy())
	}

	resized := resize.Resize(TargetWidth, TargetHeight, img, resize.Lanczos3)

	t := &Tensor{
		Data:     make([]float32, TargetHeight*TargetWidth*Channels),
		Height:   TargetHeight,
		Width:    TargetWidth,
		Channels: Channels,
	}

	rb := resized.Bounds()
	i := 0
	for y := 0; y < TargetHeight; y++ {
		for x := 0; x < TargetWidth; x++ {
			r, g, b, _ := resized.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			t.Data[i] = float32(r) / 65535.0
			t.Data[i+1] = float32(g) / 65535.0
			t.Data[i+2] = float32(b) / 65535.0
			i += 3
		}
	}
	return t, nil
}
