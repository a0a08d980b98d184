package analysis

import (
	"context"
	"errors"
	"slices"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
)

var errNoColorPages = errors.New("color spaces could not be read on any sampled page")

// samplePages returns the first, middle and last page numbers of an n-page
// document, deduplicated and ascending.
func samplePages(n int) []int {
	if n <= 0 {
		return []int{}
	}
	pages := []int{1, (n + 1) / 2, n}
	slices.Sort(pages)
	return slices.Compact(pages)
}

// analyzeColors inspects the color spaces and transparency-related
// resources of the sampled pages.
func analyzeColors(ctx context.Context, doc docmodel.Document, r pageRunner) (ColorProfile, error) {
	sampled := samplePages(doc.PageCount())
	type pageColors struct {
		read bool

		cmyk, rgb, spot, transparency bool
	}
	results := make([]pageColors, len(sampled))

	err := r.each(ctx, sampled, func(i, n int) {
		page, err := doc.Page(n)
		if err != nil {
			r.skip("colors", n, err)
			return
		}
		spaces, err := page.ColorSpaceResources()
		if err != nil {
			r.skip("colors", n, err)
			return
		}
		pc := pageColors{read: true}
		for _, cs := range spaces {
			switch cs.Kind {
			case docmodel.ColorSpaceDeviceCMYK:
				pc.cmyk = true
			case docmodel.ColorSpaceDeviceRGB:
				pc.rgb = true
			case docmodel.ColorSpaceSeparation:
				pc.spot = true
			}
		}
		if res, err := page.PatternAndGraphicsStateResources(); err != nil {
			r.skip("transparency", n, err)
		} else if len(res) > 0 {
			pc.transparency = true
		}
		results[i] = pc
	})
	if err != nil {
		return ColorProfile{}, err
	}

	var cmyk, rgb, spot, transparency, anyRead bool
	for _, pc := range results {
		anyRead = anyRead || pc.read
		cmyk = cmyk || pc.cmyk
		rgb = rgb || pc.rgb
		spot = spot || pc.spot
		transparency = transparency || pc.transparency
	}
	if len(sampled) > 0 && !anyRead {
		return ColorProfile{}, errNoColorPages
	}
	profile := newColorProfile(cmyk, rgb, spot, transparency)
	profile.SampledPages = sampled
	return profile, nil
}

// newColorProfile derives the color model and printing implications from
// the four color flags.
func newColorProfile(hasCMYK, hasRGB, hasSpot, hasTransparency bool) ColorProfile {
	model := colorModelOf(hasCMYK, hasRGB)
	return ColorProfile{
		HasCMYK:         hasCMYK,
		HasRGB:          hasRGB,
		HasSpot:         hasSpot,
		HasTransparency: hasTransparency,
		ColorModel:      model,
		SampledPages:    []int{},
		PrintingImplications: PrintingImplications{
			RequiresColorPrinting:        hasCMYK || hasRGB,
			RequiresProfessionalPrinting: hasCMYK || hasSpot,
			MayHaveColorShiftIssues:      model == ColorModelMixed,
			NeedsTransparencyFlattening:  hasTransparency,
		},
	}
}

func colorModelOf(hasCMYK, hasRGB bool) string {
	switch {
	case hasCMYK && hasRGB:
		return ColorModelMixed
	case hasCMYK:
		return ColorModelCMYK
	case hasRGB:
		return ColorModelRGB
	default:
		return ColorModelGrayscale
	}
}
