// Package enhance provides best-effort image cleanups applied before
// preprocessing: local contrast equalization and leaf-region isolation.
// Both are cosmetic aids; on any internal failure they return the
// original image untouched and report that they were skipped.
package enhance

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

const (
	claheClipLimit = 3.0
	claheTileGrid  = 8

	greenHueLow  = 35 // hue on a 0-255 scale
	greenHueHigh = 85
	minSat       = 40
	minVal       = 40

	morphKernel = 5
)

// Contrast applies contrast-limited adaptive histogram equalization to the
// luma channel, leaving chroma untouched. The second return value reports
// whether the transform was actually applied.
func Contrast(img image.Image) (out image.Image, applied bool) {
	out, applied = img, false
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Msgf("contrast enhancement failed, using original: %v", r)
			out, applied = img, false
		}
	}()

	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w < claheTileGrid || h < claheTileGrid {
		return img, false
	}

	luma := make([]uint8, w*h)
	cb := make([]uint8, w*h)
	cr := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*src.Stride + x*4
			yy, ycb, ycr := color.RGBToYCbCr(src.Pix[o], src.Pix[o+1], src.Pix[o+2])
			i := y*w + x
			luma[i], cb[i], cr[i] = yy, ycb, ycr
		}
	}

	equalized := clahe(luma, w, h)

	dst := imaging.Clone(src)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			r, g, b := color.YCbCrToRGB(equalized[i], cb[i], cr[i])
			o := y*dst.Stride + x*4
			dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2] = r, g, b
		}
	}
	return dst, true
}

// IsolateLeaf masks out everything that does not look leaf-colored: pixels
// whose hue falls outside the green band (or that are too washed out to
// judge) are zeroed after the mask is cleaned up morphologically.
func IsolateLeaf(img image.Image) (out image.Image, applied bool) {
	out, applied = img, false
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Msgf("leaf isolation failed, using original: %v", r)
			out, applied = img, false
		}
	}()

	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w == 0 || h == 0 {
		return img, false
	}

	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*src.Stride + x*4
			hue, s, v := rgbToHSV(src.Pix[o], src.Pix[o+1], src.Pix[o+2])
			mask[y*w+x] = hue >= greenHueLow && hue <= greenHueHigh && s >= minSat && v >= minVal
		}
	}

	// Close fills small gaps inside leaf regions, open removes speckle.
	mask = erode(dilate(mask, w, h), w, h)
	mask = dilate(erode(mask, w, h), w, h)

	dst := imaging.Clone(src)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y*w+x] {
				o := y*dst.Stride + x*4
				dst.Pix[o], dst.Pix[o+1], dst.Pix[o+2] = 0, 0, 0
			}
		}
	}
	return dst, true
}

// clahe equalizes the plane over a claheTileGrid² tile grid with histogram
// clipping, interpolating bilinearly between neighbouring tile mappings.
func clahe(plane []uint8, w, h int) []uint8 {
	tileW := (w + claheTileGrid - 1) / claheTileGrid
	tileH := (h + claheTileGrid - 1) / claheTileGrid

	var luts [claheTileGrid * claheTileGrid][256]uint8
	for ty := 0; ty < claheTileGrid; ty++ {
		for tx := 0; tx < claheTileGrid; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := min(x0+tileW, w), min(y0+tileH, h)

			var hist [256]int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[plane[y*w+x]]++
				}
			}
			n := (x1 - x0) * (y1 - y0)

			limit := int(claheClipLimit * float64(n) / 256)
			if limit < 1 {
				limit = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > limit {
					excess += hist[i] - limit
					hist[i] = limit
				}
			}
			// Redistribute the clipped mass so the CDF still sums to n.
			bonus := excess / 256
			for i := range hist {
				hist[i] += bonus
			}
			for i := 0; i < excess-bonus*256; i++ {
				hist[i]++
			}

			cum := 0
			for i := range hist {
				cum += hist[i]
				v := (255*cum + n/2) / n
				if v > 255 {
					v = 255
				}
				luts[ty*claheTileGrid+tx][i] = uint8(v)
			}
		}
	}

	out := make([]uint8, len(plane))
	for y := 0; y < h; y++ {
		gy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := clampInt(int(math.Floor(gy)), 0, claheTileGrid-1)
		ty1 := clampInt(ty0+1, 0, claheTileGrid-1)
		fy := gy - math.Floor(gy)
		if gy < 0 {
			fy = 0
		}
		for x := 0; x < w; x++ {
			gx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := clampInt(int(math.Floor(gx)), 0, claheTileGrid-1)
			tx1 := clampInt(tx0+1, 0, claheTileGrid-1)
			fx := gx - math.Floor(gx)
			if gx < 0 {
				fx = 0
			}

			p := plane[y*w+x]
			top := (1-fx)*float64(luts[ty0*claheTileGrid+tx0][p]) + fx*float64(luts[ty0*claheTileGrid+tx1][p])
			bot := (1-fx)*float64(luts[ty1*claheTileGrid+tx0][p]) + fx*float64(luts[ty1*claheTileGrid+tx1][p])
			out[y*w+x] = uint8((1-fy)*top + fy*bot + 0.5)
		}
	}
	return out
}

// rgbToHSV converts to HSV with all three components on a 0-255 scale.
func rgbToHSV(r, g, b uint8) (hue, sat, val uint8) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	maxC := max3(rf, gf, bf)
	minC := min3(rf, gf, bf)
	delta := maxC - minC

	val = uint8(maxC)
	if maxC == 0 {
		return 0, 0, 0
	}
	sat = uint8(delta / maxC * 255)
	if delta == 0 {
		return 0, sat, val
	}

	var deg float64
	switch maxC {
	case rf:
		deg = 60 * (gf - bf) / delta
	case gf:
		deg = 60*(bf-rf)/delta + 120
	default:
		deg = 60*(rf-gf)/delta + 240
	}
	if deg < 0 {
		deg += 360
	}
	return uint8(deg * 255 / 360), sat, val
}

func dilate(mask []bool, w, h int) []bool {
	return morph(mask, w, h, false)
}

func erode(mask []bool, w, h int) []bool {
	return morph(mask, w, h, true)
}

// morph applies a square morphKernel window; all=true requires every
// neighbour set (erosion), all=false requires any (dilation).
func morph(mask []bool, w, h int, all bool) []bool {
	r := morphKernel / 2
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hit := all
			for dy := -r; dy <= r && hit == all; dy++ {
				for dx := -r; dx <= r; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					if mask[ny*w+nx] != all {
						hit = !all
						break
					}
				}
			}
			out[y*w+x] = hit
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
