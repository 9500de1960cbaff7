// Package scoring reduces selected answers to rescaled mean scores.
package scoring

import (
	"fmt"
	"math"
	"strconv"

	"bigfive/internal/model"
)

const (
	// RescaleFactor maps the native 1-4 mean onto the 1-5 display scale
	RescaleFactor = 1.25
	MaxRescaled   = 5.0

	// Placeholder is shown instead of a number when nothing is answered
	Placeholder = "(No questions answered)"
)

// Score computes the mean of values on both scales. An empty input yields
// the Count == 0 sentinel.
func Score(scope model.ScoreScope, values []int) model.Score {
	if len(values) == 0 {
		return model.Score{Scope: scope}
	}

	total := 0
	for _, v := range values {
		total += v
	}
	mean := float64(total) / float64(len(values))

	return model.Score{
		Scope:    scope,
		Count:    len(values),
		Mean:     mean,
		Rescaled: mean * RescaleFactor,
	}
}

// Text renders "<prefix>: X.XX / 5", or the placeholder for the sentinel
func Text(prefix string, s model.Score) string {
	if s.Empty() {
		return Placeholder
	}
	// Ties round up: 3.125 shows as 3.13.
	return fmt.Sprintf("%s: %.2f / 5", prefix, math.Round(s.Rescaled*100)/100)
}

// Fill is the bar fill proportion, rescaled / 5 (0 for the sentinel)
func Fill(s model.Score) float64 {
	if s.Empty() {
		return 0
	}
	return s.Rescaled / MaxRescaled
}

// BarWidth renders Fill as a CSS width percentage
func BarWidth(s model.Score) string {
	if s.Empty() {
		return "0%"
	}
	// four decimals of a percent keep float noise out of the CSS value
	pct := math.Round(Fill(s)*100*1e4) / 1e4
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
