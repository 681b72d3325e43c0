package forensic

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"math"
)

// Compression size-ratio bounds. A single-generation JPEG re-encoded at
// quality 95 is typically 1.5x-2.5x the size of the same image at quality
// 50; ratios outside that band suggest the image was already lossily
// recompressed before reaching this pipeline.
const (
	compressionRatioLow  = 1.5
	compressionRatioHigh = 2.5

	compressionSuspicious = 70
	compressionNormal     = 30
)

// Edge-density tiers. Higher edge density correlates with copy-paste
// boundary artifacts.
const (
	edgeDensityHigh = 0.15
	edgeDensityMid  = 0.10

	edgeScoreHigh = 65
	edgeScoreMid  = 45
	edgeScoreLow  = 25

	// edgeMagnitudeThreshold is the Sobel gradient magnitude above which
	// a pixel counts as an edge pixel.
	edgeMagnitudeThreshold = 200.0
)

var errEmptyImage = errors.New("image has no pixels")

// elaScore performs error-level analysis: re-encode the image at the
// reference JPEG quality and measure the maximum per-channel difference
// against the original. Edited regions re-encode with a discontinuity
// that pushes the maximum difference up.
func (e *Engine) elaScore(img image.Image) (float64, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.elaQuality}); err != nil {
		return 0, err
	}

	reencoded, err := jpeg.Decode(&buf)
	if err != nil {
		return 0, err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return 0, errEmptyImage
	}

	maxDiff := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r1, g1, b1, _ := img.At(x, y).RGBA()
			r2, g2, b2, _ := reencoded.At(x, y).RGBA()

			// RGBA returns 16-bit channels; compare at 8-bit precision.
			maxDiff = max(maxDiff, absDiff(int(r1>>8), int(r2>>8)))
			maxDiff = max(maxDiff, absDiff(int(g1>>8), int(g2>>8)))
			maxDiff = max(maxDiff, absDiff(int(b1>>8), int(b2>>8)))
		}
	}

	return math.Min(float64(maxDiff)/255.0*100.0, 100.0), nil
}

// noiseScore estimates sensor-noise consistency via the variance of a
// discrete Laplacian over the luminance channel. Pasted regions carry
// different noise statistics than the surrounding image, which inflates
// the variance.
func (e *Engine) noiseScore(img image.Image) (float64, error) {
	gray := luminance(img)
	h := len(gray)
	if h < 3 || len(gray[0]) < 3 {
		return 0, errEmptyImage
	}
	w := len(gray[0])

	// Discrete Laplacian: 4-neighbor second derivative.
	responses := make([]float64, 0, (h-2)*(w-2))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := gray[y-1][x] + gray[y+1][x] + gray[y][x-1] + gray[y][x+1] - 4*gray[y][x]
			responses = append(responses, lap)
		}
	}

	return math.Min(variance(responses)/e.noiseDivisor*100.0, 100.0), nil
}

// compressionScore detects prior lossy compression cycles. Only JPEG
// sources are meaningful here; other formats score 0.
func (e *Engine) compressionScore(img image.Image, format string) (float64, error) {
	if format != "jpeg" {
		return 0, nil
	}

	var high, low bytes.Buffer
	if err := jpeg.Encode(&high, img, &jpeg.Options{Quality: 95}); err != nil {
		return 0, err
	}
	if err := jpeg.Encode(&low, img, &jpeg.Options{Quality: 50}); err != nil {
		return 0, err
	}
	if low.Len() == 0 {
		return 0, errEmptyImage
	}

	ratio := float64(high.Len()) / float64(low.Len())
	if ratio > compressionRatioHigh || ratio < compressionRatioLow {
		return compressionSuspicious, nil
	}
	return compressionNormal, nil
}

// edgeScore measures the fraction of edge pixels via Sobel gradients and
// maps it onto the tiered heuristic scores.
func (e *Engine) edgeScore(img image.Image) (float64, error) {
	gray := luminance(img)
	h := len(gray)
	if h < 3 || len(gray[0]) < 3 {
		return 0, errEmptyImage
	}
	w := len(gray[0])

	edgePixels := 0
	total := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := gray[y-1][x+1] + 2*gray[y][x+1] + gray[y+1][x+1] -
				gray[y-1][x-1] - 2*gray[y][x-1] - gray[y+1][x-1]
			gy := gray[y+1][x-1] + 2*gray[y+1][x] + gray[y+1][x+1] -
				gray[y-1][x-1] - 2*gray[y-1][x] - gray[y-1][x+1]

			if math.Hypot(gx, gy) > edgeMagnitudeThreshold {
				edgePixels++
			}
			total++
		}
	}

	density := float64(edgePixels) / float64(total)
	switch {
	case density > edgeDensityHigh:
		return edgeScoreHigh, nil
	case density > edgeDensityMid:
		return edgeScoreMid, nil
	default:
		return edgeScoreLow, nil
	}
}

// luminance converts the image to a single-channel intensity grid using
// the ITU-R BT.601 weights.
func luminance(img image.Image) [][]float64 {
	bounds := img.Bounds()
	h := bounds.Dy()
	w := bounds.Dx()

	gray := make([][]float64, h)
	for y := range h {
		gray[y] = make([]float64, w)
		for x := range w {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			gray[y][x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return gray
}

// variance computes the population variance of the samples.
func variance(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	v := 0.0
	for _, s := range samples {
		d := s - mean
		v += d * d
	}
	return v / float64(len(samples))
}

// absDiff returns the absolute difference of two ints.
func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
