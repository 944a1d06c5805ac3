package cloud

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// sizeFactorCeiling is the factor of the shortest possible label.
	sizeFactorCeiling = 1.5
	// sizeFactorFloor keeps long labels legible.
	sizeFactorFloor = 0.8
	// minFontFraction of the smaller viewport dimension is the smallest font size.
	minFontFraction = 0.05
	// sizeFraction of the smaller container dimension is the characteristic size.
	sizeFraction = 0.9
)

// SizeFactors returns a relative scale per label: longer labels shrink toward 0.8.
func SizeFactors(labels []string) []float64 {
	lengths := make([]int, len(labels))
	maxLength := 0
	for i, label := range labels {
		lengths[i] = utf8.RuneCountInString(strings.TrimSpace(label))
		maxLength = max(maxLength, lengths[i])
	}

	denominator := math.Log(float64(maxLength) + 1)
	factors := make([]float64, len(labels))
	for i, length := range lengths {
		ratio := 0.0
		if denominator > 0 {
			ratio = math.Log(float64(length)+1) / denominator
		}
		factors[i] = math.Max(sizeFactorCeiling-ratio, sizeFactorFloor)
	}
	return factors
}

// MinFontSize is the smallest font size, in pixels, a label is drawn with.
func MinFontSize(viewportWidth, viewportHeight float64) float64 {
	return math.Min(viewportWidth, viewportHeight) * minFontFraction
}

func characteristicSize(container Rect) float64 {
	return math.Min(container.Width, container.Height) * sizeFraction
}
