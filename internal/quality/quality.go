// Package quality screens uploaded photos before they are spent on
// inference: resolution, brightness band, and a Laplacian blur check.
package quality

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Verdict is the outcome of a quality evaluation. Reason is a
// human-readable message in both the accepted and rejected cases.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}

// Gate holds the thresholds for the quality checks.
type Gate struct {
	MinDim        int
	MinBrightness float64
	MaxBrightness float64
	MinSharpness  float64
}

// DefaultGate returns the thresholds used in production.
func DefaultGate() Gate {
	return Gate{
		MinDim:        100,
		MinBrightness: 30,
		MaxBrightness: 220,
		MinSharpness:  100,
	}
}

const reasonUnvalidated = "Could not validate image quality, proceeding anyway"

// Evaluate runs the checks in order, stopping at the first failure.
// It never panics: if a check cannot be computed, the image is accepted
// with an unvalidated note rather than blocking the upload.
func (g Gate) Evaluate(img image.Image) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = Verdict{Accepted: true, Reason: reasonUnvalidated}
		}
	}()

	if img == nil {
		return Verdict{Accepted: true, Reason: reasonUnvalidated}
	}

	bounds := img.Bounds()
	if bounds.Dx() < g.MinDim || bounds.Dy() < g.MinDim {
		return Verdict{
			Accepted: false,
			Reason:   fmt.Sprintf("Image too small. Minimum size: %dx%d", g.MinDim, g.MinDim),
		}
	}

	gray, w, h := grayPlane(img)

	mean := meanIntensity(gray)
	if mean < g.MinBrightness {
		return Verdict{Accepted: false, Reason: "Image too dark. Please use better lighting."}
	}
	if mean > g.MaxBrightness {
		return Verdict{Accepted: false, Reason: "Image too bright. Please reduce lighting."}
	}

	if laplacianVariance(gray, w, h) < g.MinSharpness {
		return Verdict{Accepted: false, Reason: "Image appears blurry. Please take a clearer photo."}
	}

	return Verdict{Accepted: true, Reason: "Image quality is acceptable"}
}

// grayPlane returns the luma channel of img as a w*h byte slice.
func grayPlane(img image.Image) ([]uint8, int, int) {
	g := imaging.Grayscale(img)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	plane := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < w; x++ {
			plane[y*w+x] = row[x*4] // R == G == B after Grayscale
		}
	}
	return plane, w, h
}

func meanIntensity(plane []uint8) float64 {
	if len(plane) == 0 {
		panic("empty luma plane")
	}
	var sum float64
	for _, p := range plane {
		sum += float64(p)
	}
	return sum / float64(len(plane))
}

// laplacianVariance applies the 4-neighbour Laplacian kernel to the
// interior of the luma plane and returns the variance of the response.
// Low variance means few edges, i.e. a blurry photo.
func laplacianVariance(plane []uint8, w, h int) float64 {
	if w < 3 || h < 3 {
		panic("image too small for Laplacian")
	}
	var sum, sumSq float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := float64(plane[y*w+x])
			lap := float64(plane[(y-1)*w+x]) +
				float64(plane[(y+1)*w+x]) +
				float64(plane[y*w+x-1]) +
				float64(plane[y*w+x+1]) -
				4*c
			sum += lap
			sumSq += lap * lap
			n++
		}
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}
