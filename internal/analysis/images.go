package analysis

import (
	"context"
	"math"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/Lllllllleong/printreadiness/internal/geometry"
)

const (
	// LowResThreshold is the DPI below which an image is flagged.
	LowResThreshold = 300.0
	// MinimumPrintDPI is the lowest DPI still acceptable for digital print.
	MinimumPrintDPI = 200.0
)

// Print methods reported in ImageReport.RecommendedPrintMethod.
const (
	PrintMethodOffset  = "High quality offset printing"
	PrintMethodDigital = "Digital printing"
	PrintMethodScreen  = "Screen display only"
)

// effectiveDPI computes the placed resolution of an image. The smaller of
// the two axis resolutions is used so that non-uniform scaling reports its
// worst case. Floating point noise below a millionth of a dot is dropped.
func effectiveDPI(img docmodel.ImageRef) (float64, bool) {
	if img.PixelWidth <= 0 || img.PixelHeight <= 0 {
		return 0, false
	}
	if !(img.ScaleX > 0) || !(img.ScaleY > 0) || math.IsInf(img.ScaleX, 0) || math.IsInf(img.ScaleY, 0) {
		return 0, false
	}
	dpi := math.Min(img.ScaleX, img.ScaleY) * geometry.PointsPerInch
	return math.Round(dpi*1e6) / 1e6, true
}

// displayDPI truncates to two decimals. Truncation keeps the shown value on
// the same side of every whole-number threshold as the exact one.
func displayDPI(dpi float64) float64 {
	return math.Floor(dpi*100+1e-7) / 100
}

// analyzeImages resolves every image placement. Images whose DPI cannot be
// computed are skipped, and a page whose images cannot be listed
// contributes none.
func analyzeImages(ctx context.Context, doc docmodel.Document, r pageRunner) (ImageReport, error) {
	numbers := allPages(doc.PageCount())
	perPage := make([][]ImagePlacement, len(numbers))

	err := r.each(ctx, numbers, func(i, n int) {
		page, err := doc.Page(n)
		if err != nil {
			r.skip("images", n, err)
			return
		}
		refs, err := page.ImagePaintOperations()
		if err != nil {
			r.skip("images", n, err)
			return
		}
		for _, ref := range refs {
			dpi, ok := effectiveDPI(ref)
			if !ok {
				continue
			}
			perPage[i] = append(perPage[i], ImagePlacement{
				Page:             n,
				Name:             ref.Name,
				PixelWidth:       ref.PixelWidth,
				PixelHeight:      ref.PixelHeight,
				BitsPerComponent: ref.BitsPerComponent,
				ColorSpace:       ref.ColorSpace,
				EffectiveDPI:     displayDPI(dpi),
				IsLowRes:         dpi < LowResThreshold,
			})
		}
	})
	if err != nil {
		return ImageReport{}, err
	}

	var placements []ImagePlacement
	for _, p := range perPage {
		placements = append(placements, p...)
	}
	return summarizeImages(placements), nil
}

// summarizeImages aggregates placements into an ImageReport.
func summarizeImages(placements []ImagePlacement) ImageReport {
	report := ImageReport{
		Count:  len(placements),
		Images: []ImagePlacement{},
	}
	report.Images = append(report.Images, placements...)

	lowest := math.Inf(1)
	for _, img := range placements {
		report.HighestDPI = math.Max(report.HighestDPI, img.EffectiveDPI)
		lowest = math.Min(lowest, img.EffectiveDPI)
		report.HasLowResImages = report.HasLowResImages || img.IsLowRes
	}
	if len(placements) > 0 {
		report.LowestDPI = lowest
	}

	report.AverageDPI = math.Round((report.HighestDPI + report.LowestDPI) / 2)
	report.SuitableForPrinting = !report.HasLowResImages || report.LowestDPI >= MinimumPrintDPI
	switch {
	case report.LowestDPI >= LowResThreshold:
		report.RecommendedPrintMethod = PrintMethodOffset
	case report.LowestDPI >= MinimumPrintDPI:
		report.RecommendedPrintMethod = PrintMethodDigital
	default:
		report.RecommendedPrintMethod = PrintMethodScreen
	}
	return report
}
