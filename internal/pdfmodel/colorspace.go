package pdfmodel

import (
	"strings"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// colorSpaceFamily returns the family name of a color space object, e.g.
// "DeviceRGB" or "ICCBased".
func colorSpaceFamily(ctx *model.Context, o types.Object) string {
	if n, ok := nameOf(ctx, o); ok {
		return n
	}
	if arr, ok := arrayOf(ctx, o); ok && len(arr) > 0 {
		n, _ := nameOf(ctx, arr[0])
		return n
	}
	return ""
}

// classifyColorSpace maps a color space object onto the closed set of kinds
// the analyzers work with.
func classifyColorSpace(ctx *model.Context, o types.Object, depth int) docmodel.ColorSpace {
	family := colorSpaceFamily(ctx, o)
	cs := docmodel.ColorSpace{Kind: docmodel.ColorSpaceOther, Name: family}
	if depth > maxDepth {
		return cs
	}

	switch family {
	case "DeviceCMYK", "CalCMYK":
		cs.Kind = docmodel.ColorSpaceDeviceCMYK
	case "DeviceRGB", "CalRGB":
		cs.Kind = docmodel.ColorSpaceDeviceRGB
	case "Separation":
		cs.Kind = docmodel.ColorSpaceSeparation
	case "ICCBased":
		arr, _ := arrayOf(ctx, o)
		if len(arr) < 2 {
			break
		}
		sd, ok := streamOf(ctx, arr[1])
		if !ok {
			break
		}
		n, _ := entryNumber(ctx, sd.Dict, "N")
		switch int(n) {
		case 4:
			cs.Kind = docmodel.ColorSpaceDeviceCMYK
		case 3:
			cs.Kind = docmodel.ColorSpaceDeviceRGB
		}
	case "Indexed", "Pattern":
		arr, _ := arrayOf(ctx, o)
		if len(arr) < 2 {
			break
		}
		base := classifyColorSpace(ctx, arr[1], depth+1)
		cs.Kind = base.Kind
	default:
		// Abbreviated names are only legal in inline images but turn up in the wild.
		switch strings.ToUpper(family) {
		case "CMYK":
			cs.Kind = docmodel.ColorSpaceDeviceCMYK
		case "RGB":
			cs.Kind = docmodel.ColorSpaceDeviceRGB
		}
	}
	return cs
}

func pageColorSpaces(ctx *model.Context, res types.Dict) []docmodel.ColorSpace {
	d, ok := entryDict(ctx, res, "ColorSpace")
	if !ok {
		return nil
	}
	var out []docmodel.ColorSpace
	for _, k := range sortedKeys(d) {
		out = append(out, classifyColorSpace(ctx, d[k], 0))
	}
	return out
}

func pagePatternAndGState(ctx *model.Context, res types.Dict) []docmodel.ResourceRef {
	var out []docmodel.ResourceRef
	for _, category := range []string{docmodel.CategoryPattern, docmodel.CategoryExtGState} {
		d, ok := entryDict(ctx, res, category)
		if !ok {
			continue
		}
		for _, k := range sortedKeys(d) {
			out = append(out, docmodel.ResourceRef{Category: category, Name: k})
		}
	}
	return out
}
