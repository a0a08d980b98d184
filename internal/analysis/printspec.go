package analysis

import (
	"strings"

	"github.com/Lllllllleong/printreadiness/internal/geometry"
)

// MultipleSizes is the paper recommendation for documents with more than one
// page size.
const MultipleSizes = "Multiple sizes - custom printing required"

// professionalProducers are layout applications whose output is trusted to
// carry print production settings.
var professionalProducers = []string{"indesign", "affinity", "quarkxpress"}

// inferPrintSpec guesses bleed and press readiness from page sizes and the
// producing application. Bleed is inferred from the trimmed size alone; the
// document's TrimBox and BleedBox are not consulted.
func inferPrintSpec(pages PageInfo, meta Metadata) PrintSpec {
	spec := PrintSpec{}
	for _, p := range pages.Pages {
		if !geometry.IsInteger(p.WidthMm) || !geometry.IsInteger(p.HeightMm) {
			spec.HasFractionalDimensions = true
		}
		if geometry.IsStandardWithBleed(p.WidthMm, p.HeightMm) {
			spec.IsSlightlyLargerThanStandard = true
		}
	}
	spec.HasBleed = spec.HasFractionalDimensions || spec.IsSlightlyLargerThanStandard
	spec.IsPressReady = spec.HasBleed && !pages.HasRotatedPages && fromProfessionalTool(meta.Producer)
	spec.RecommendedPaperSize, spec.StandardSize = paperSizeOf(pages)
	return spec
}

// paperSizeOf returns the paper to print on and whether it is a standard
// size.
func paperSizeOf(pages PageInfo) (string, bool) {
	if !pages.Dimensions.Consistent {
		return MultipleSizes, false
	}
	first, _ := pages.firstPage()
	if first.StandardSize == geometry.Custom {
		return geometry.Custom, false
	}
	return first.StandardSize, true
}

func fromProfessionalTool(producer string) bool {
	p := strings.ToLower(producer)
	for _, tool := range professionalProducers {
		if strings.Contains(p, tool) {
			return true
		}
	}
	return false
}
