package geometry

import "math"

// MmPerPoint is the length of one PostScript point in millimeters.
const MmPerPoint = 0.352778

// PointsPerInch is the number of PostScript points in one inch.
const PointsPerInch = 72.0

// MmOf converts points to millimeters, rounded to two decimal places.
func MmOf(points float64) float64 {
	return Round2(points * MmPerPoint)
}

// PtOf converts millimeters back to points.
func PtOf(mm float64) float64 {
	return mm / MmPerPoint
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsInteger reports whether v has no fractional part.
func IsInteger(v float64) bool {
	return v == math.Trunc(v)
}

// Orientation values returned by OrientationOf.
const (
	Portrait  = "portrait"
	Landscape = "landscape"
	Square    = "square"
)

// OrientationOf classifies a width/height pair.
func OrientationOf(width, height float64) string {
	switch {
	case height > width:
		return Portrait
	case width > height:
		return Landscape
	default:
		return Square
	}
}
