package analysis

import "github.com/Lllllllleong/printreadiness/internal/geometry"

// Finishing options.
const (
	FinishingSpotColor    = "Spot Color Processing"
	FinishingTransparency = "Transparency Flattening"
)

var complexityRank = map[Complexity]int{
	ComplexityLow:    0,
	ComplexityMedium: 1,
	ComplexityHigh:   2,
}

// atLeast never lowers c.
func (c Complexity) atLeast(floor Complexity) Complexity {
	if complexityRank[floor] > complexityRank[c] {
		return floor
	}
	return c
}

// resolveRequirements derives production parameters for a print shop.
func resolveRequirements(pages PageInfo, colors ColorProfile, images ImageReport) Requirements {
	req := Requirements{
		PaperType:            "Standard",
		PrintingMethod:       "Digital",
		ColorMode:            "Grayscale/B&W",
		FinishingOptions:     []string{},
		ProductionComplexity: ComplexityLow,
	}
	req.PaperSize, _ = paperSizeOf(pages)

	if !pages.Dimensions.Consistent {
		req.ProductionComplexity = ComplexityHigh
	} else if first, ok := pages.firstPage(); ok && first.StandardSize == geometry.Custom {
		req.ProductionComplexity = req.ProductionComplexity.atLeast(ComplexityMedium)
	}

	switch {
	case colors.HasCMYK || colors.HasSpot:
		req.PrintingMethod = "Offset"
		req.ProductionComplexity = req.ProductionComplexity.atLeast(ComplexityMedium)
	case images.LowestDPI < MinimumPrintDPI:
		req.PrintingMethod = "Digital - Low Quality"
	case images.LowestDPI >= LowResThreshold:
		req.PrintingMethod = "High-Quality Digital"
	}

	switch colors.ColorModel {
	case ColorModelCMYK, ColorModelMixed:
		req.ColorMode = "CMYK"
	case ColorModelRGB:
		req.ColorMode = "RGB to CMYK conversion required"
	}

	if images.Count > 0 {
		switch {
		case colors.HasCMYK:
			req.PaperType = "Coated - High Quality"
		case colors.HasRGB:
			req.PaperType = "Coated - Standard"
		}
	}

	if colors.HasSpot {
		req.FinishingOptions = append(req.FinishingOptions, FinishingSpotColor)
		req.ProductionComplexity = req.ProductionComplexity.atLeast(ComplexityMedium)
	}
	if colors.HasTransparency {
		req.FinishingOptions = append(req.FinishingOptions, FinishingTransparency)
		req.ProductionComplexity = req.ProductionComplexity.atLeast(ComplexityMedium)
	}
	return req
}
