package geometry

import "math"

// Custom is the classification for sizes that match no entry in StandardSizes.
const Custom = "Custom"

// Tolerance is the per-axis slack, in millimeters, allowed when matching a standard size.
const Tolerance = 1.0

// BleedAllowance is the amount, in millimeters, by which a page carrying a
// typical 3mm bleed plus rounding slack exceeds its trim size on each axis.
const BleedAllowance = 3.5

// PaperSize is a named sheet size in portrait orientation.
type PaperSize struct {
	Name     string
	WidthMm  float64
	HeightMm float64
}

// StandardSizes is the classification table, searched in order.
var StandardSizes = []PaperSize{
	{Name: "A4", WidthMm: 210, HeightMm: 297},
	{Name: "A3", WidthMm: 297, HeightMm: 420},
	{Name: "Letter", WidthMm: 215.9, HeightMm: 279.4},
	{Name: "Legal", WidthMm: 215.9, HeightMm: 355.6},
	{Name: "Tabloid", WidthMm: 279.4, HeightMm: 431.8},
}

// Matches reports whether widthMm x heightMm is this size in either
// orientation, within tol on each axis.
func (p PaperSize) Matches(widthMm, heightMm, tol float64) bool {
	w, h := p.WidthMm, p.HeightMm
	if math.Abs(widthMm-w) <= tol && math.Abs(heightMm-h) <= tol {
		return true
	}
	return math.Abs(widthMm-h) <= tol && math.Abs(heightMm-w) <= tol
}

// WithBleed returns the size enlarged by BleedAllowance on both axes.
func (p PaperSize) WithBleed() PaperSize {
	return PaperSize{Name: p.Name, WidthMm: p.WidthMm + BleedAllowance, HeightMm: p.HeightMm + BleedAllowance}
}

// ClassifyPaper returns the name of the first standard size matching the
// given dimensions, or Custom.
func ClassifyPaper(widthMm, heightMm float64) string {
	for _, p := range StandardSizes {
		if p.Matches(widthMm, heightMm, Tolerance) {
			return p.Name
		}
	}
	return Custom
}

// IsStandardWithBleed reports whether the dimensions look like a standard
// size enlarged by BleedAllowance on both axes.
func IsStandardWithBleed(widthMm, heightMm float64) bool {
	for _, p := range StandardSizes {
		if p.WithBleed().Matches(widthMm, heightMm, Tolerance) {
			return true
		}
	}
	return false
}
