package analysis

import (
	"context"
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/google/go-cmp/cmp"
)

var testRunner = pageRunner{limit: 4, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

func TestAnalyzeFontsAggregatesByName(t *testing.T) {
	doc := &docmodel.StaticDocument{Pages: []docmodel.StaticPage{
		{Number: 1, Fonts: []docmodel.FontRef{
			{Name: "Minion", Type: "Type1", Subtype: "Type1", Embedded: true},
			embeddedFont("Garamond"),
		}},
		{Number: 2, Fonts: []docmodel.FontRef{
			{Name: "Minion", Type: "Type1", Subtype: "Type1", Encoding: "WinAnsiEncoding"},
		}},
		{Number: 3, Fonts: []docmodel.FontRef{embeddedFont("Garamond")}},
	}}

	report, err := analyzeFonts(context.Background(), doc, testRunner)
	if err != nil {
		t.Fatalf("analyzeFonts: %v", err)
	}
	wantSummary := []FontUsage{
		{Name: "Garamond", Type: "TrueType", Subtype: "TrueType", Embedded: true, Pages: []int{1, 3}},
		{Name: "Minion", Type: "Type1", Subtype: "Type1", Embedded: false, Pages: []int{1, 2}},
	}
	if d := cmp.Diff(wantSummary, report.Summary); d != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", d)
	}
	wantMissing := []FontOccurrence{{Page: 2, Name: "Minion", Type: "Type1", Subtype: "Type1", Encoding: "WinAnsiEncoding"}}
	if d := cmp.Diff(wantMissing, report.Missing); d != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", d)
	}
	if report.UniqueFonts != 2 || report.EmbeddedCount != 3 || report.MissingCount != 1 || report.AllFontsEmbedded {
		t.Errorf("stats = %d unique, %d embedded, %d missing, all embedded %v",
			report.UniqueFonts, report.EmbeddedCount, report.MissingCount, report.AllFontsEmbedded)
	}
}

func TestAnalyzeFontsFailsWhenNoPageIsReadable(t *testing.T) {
	doc := &docmodel.StaticDocument{Pages: []docmodel.StaticPage{
		{Number: 1, FontsErr: errTest},
		{Number: 2, Err: errTest},
	}}
	if _, err := analyzeFonts(context.Background(), doc, testRunner); err == nil {
		t.Fatal("analyzeFonts succeeded with no readable page")
	}
}

func TestSamplePages(t *testing.T) {
	tests := map[int][]int{
		0:   {},
		1:   {1},
		2:   {1, 2},
		3:   {1, 2, 3},
		4:   {1, 2, 4},
		10:  {1, 5, 10},
		101: {1, 51, 101},
	}
	for n, want := range tests {
		if d := cmp.Diff(want, samplePages(n)); d != "" {
			t.Errorf("samplePages(%d) mismatch (-want +got):\n%s", n, d)
		}
	}
}

func TestAnalyzeColorsOnlyReadsSampledPages(t *testing.T) {
	rgb := docmodel.ColorSpace{Kind: docmodel.ColorSpaceDeviceRGB, Name: "DeviceRGB"}
	spot := docmodel.ColorSpace{Kind: docmodel.ColorSpaceSeparation, Name: "Separation"}
	doc := &docmodel.StaticDocument{Pages: []docmodel.StaticPage{
		{Number: 1, ColorSpaces: []docmodel.ColorSpace{cmykSpace}},
		{Number: 2, Resources: []docmodel.ResourceRef{{Category: docmodel.CategoryExtGState, Name: "GS0"}}},
		{Number: 3, ColorSpaces: []docmodel.ColorSpace{rgb}},
		{Number: 4, ColorSpaces: []docmodel.ColorSpace{spot}},
	}}

	profile, err := analyzeColors(context.Background(), doc, testRunner)
	if err != nil {
		t.Fatalf("analyzeColors: %v", err)
	}
	want := ColorProfile{
		HasCMYK:         true,
		HasSpot:         true,
		HasTransparency: true,
		ColorModel:      ColorModelCMYK,
		SampledPages:    []int{1, 2, 4},
		PrintingImplications: PrintingImplications{
			RequiresColorPrinting:        true,
			RequiresProfessionalPrinting: true,
			NeedsTransparencyFlattening:  true,
		},
	}
	if d := cmp.Diff(want, profile); d != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", d)
	}
}

func TestColorModelIsTotal(t *testing.T) {
	models := []string{ColorModelCMYK, ColorModelRGB, ColorModelMixed, ColorModelGrayscale}
	for mask := 0; mask < 16; mask++ {
		cmyk, rgb, spot, transparency := mask&1 != 0, mask&2 != 0, mask&4 != 0, mask&8 != 0
		p := newColorProfile(cmyk, rgb, spot, transparency)
		if !slices.Contains(models, p.ColorModel) {
			t.Errorf("flags %04b: colorModel %q is not a defined model", mask, p.ColorModel)
		}
		if p.PrintingImplications.MayHaveColorShiftIssues != (cmyk && rgb) {
			t.Errorf("flags %04b: MayHaveColorShiftIssues = %v", mask, p.PrintingImplications.MayHaveColorShiftIssues)
		}
	}
}

func TestEffectiveDPIDoublesWithPixels(t *testing.T) {
	for _, placedPt := range []float64{36, 72, 250, 612} {
		for _, px := range []int{75, 300, 1024} {
			base := docmodel.ImageRef{PixelWidth: px, PixelHeight: px, ScaleX: float64(px) / placedPt, ScaleY: float64(px) / placedPt}
			doubled := docmodel.ImageRef{PixelWidth: 2 * px, PixelHeight: 2 * px, ScaleX: float64(2*px) / placedPt, ScaleY: float64(2*px) / placedPt}

			d1, ok1 := effectiveDPI(base)
			d2, ok2 := effectiveDPI(doubled)
			if !ok1 || !ok2 {
				t.Fatalf("effectiveDPI rejected a valid image (%v pt, %d px)", placedPt, px)
			}
			if math.Abs(d2-2*d1) > 0.02 {
				t.Errorf("%v pt, %d px: doubled DPI = %v, want 2 × %v", placedPt, px, d2, d1)
			}
		}
	}
}

func TestEffectiveDPIUsesWorstAxis(t *testing.T) {
	img := docmodel.ImageRef{PixelWidth: 600, PixelHeight: 600, ScaleX: 600.0 / 72, ScaleY: 300.0 / 72}
	dpi, ok := effectiveDPI(img)
	if !ok || dpi != 300 {
		t.Errorf("effectiveDPI = %v, %v; want 300", dpi, ok)
	}

	for _, bad := range []docmodel.ImageRef{
		{PixelWidth: 0, PixelHeight: 10, ScaleX: 1, ScaleY: 1},
		{PixelWidth: 10, PixelHeight: 10, ScaleX: 0, ScaleY: 1},
		{PixelWidth: 10, PixelHeight: 10, ScaleX: math.NaN(), ScaleY: 1},
		{PixelWidth: 10, PixelHeight: 10, ScaleX: 1, ScaleY: math.Inf(1)},
	} {
		if _, ok := effectiveDPI(bad); ok {
			t.Errorf("effectiveDPI(%+v) accepted an invalid image", bad)
		}
	}
}

func TestAnalyzePagesNumbersFromIndex(t *testing.T) {
	unreadable := pageMm(1, 210, 297)
	unreadable.ViewErr = errTest
	doc := &docmodel.StaticDocument{Pages: []docmodel.StaticPage{unreadable, pageMm(2, 210, 297)}}
	info, err := analyzePages(context.Background(), doc, testRunner)
	if err != nil {
		t.Fatalf("analyzePages: %v", err)
	}
	if len(info.Pages) != 1 || info.Pages[0].Page != 2 {
		t.Errorf("Pages = %+v, want only page 2", info.Pages)
	}
	if d := cmp.Diff([]int{1}, info.SkippedPages); d != "" {
		t.Errorf("SkippedPages mismatch (-want +got):\n%s", d)
	}
}

func TestImagesJustBelowThreshold(t *testing.T) {
	// 1250 px over 300.0004 pt is 299.9995 DPI.
	scale := 1250 / 300.0004
	doc := &docmodel.StaticDocument{Pages: []docmodel.StaticPage{{
		Number: 1,
		Images: []docmodel.ImageRef{{Name: "Im1", PixelWidth: 1250, PixelHeight: 1250, ScaleX: scale, ScaleY: scale}},
	}}}
	report, err := analyzeImages(context.Background(), doc, testRunner)
	if err != nil {
		t.Fatalf("analyzeImages: %v", err)
	}
	img := report.Images[0]
	if !img.IsLowRes || img.EffectiveDPI != 299.99 {
		t.Errorf("placement = %+v, want low-res at 299.99 DPI", img)
	}
	if !report.HasLowResImages || report.RecommendedPrintMethod != PrintMethodDigital {
		t.Errorf("report = %+v, want low-res with %q", report, PrintMethodDigital)
	}
	if got := resolveRequirements(PageInfo{}, ColorProfile{}, report).PrintingMethod; got != "Digital" {
		t.Errorf("PrintingMethod = %q, want Digital", got)
	}
}

func TestSummarizeImages(t *testing.T) {
	tests := []struct {
		name       string
		dpis       []float64
		lowest     float64
		average    float64
		lowRes     bool
		suitable   bool
		recommends string
	}{
		{name: "none", lowest: 0, average: 0, suitable: true, recommends: PrintMethodScreen},
		{name: "offset", dpis: []float64{300, 600}, lowest: 300, average: 450, suitable: true, recommends: PrintMethodOffset},
		{name: "digital", dpis: []float64{250, 301}, lowest: 250, average: 276, lowRes: true, suitable: true, recommends: PrintMethodDigital},
		{name: "screen", dpis: []float64{72, 400}, lowest: 72, average: 236, lowRes: true, recommends: PrintMethodScreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var placements []ImagePlacement
			for _, dpi := range tt.dpis {
				placements = append(placements, ImagePlacement{EffectiveDPI: dpi, IsLowRes: dpi < LowResThreshold})
			}
			r := summarizeImages(placements)
			if r.LowestDPI != tt.lowest || r.AverageDPI != tt.average || r.HasLowResImages != tt.lowRes ||
				r.SuitableForPrinting != tt.suitable || r.RecommendedPrintMethod != tt.recommends {
				t.Errorf("summarizeImages = %+v", r)
			}
		})
	}
}

func TestInferPrintSpec(t *testing.T) {
	page := func(w, h float64, rotation int) PageSize {
		return PageSize{WidthMm: w, HeightMm: h, Rotation: rotation, StandardSize: "Custom"}
	}
	consistent := func(pages ...PageSize) PageInfo {
		info := PageInfo{Pages: pages, Dimensions: Dimensions{Consistent: true}}
		for _, p := range pages {
			info.HasRotatedPages = info.HasRotatedPages || p.Rotation != 0
		}
		return info
	}
	indesign := Metadata{Producer: "Adobe InDesign CC 2024"}

	tests := []struct {
		name       string
		pages      PageInfo
		meta       Metadata
		bleed      bool
		pressReady bool
	}{
		{name: "exact A4", pages: consistent(page(210, 297, 0)), meta: indesign},
		{name: "fractional", pages: consistent(page(210.5, 297, 0)), meta: indesign, bleed: true, pressReady: true},
		{name: "A3 landscape plus bleed", pages: consistent(page(423.5, 300.5, 0)), meta: Metadata{Producer: "Affinity Publisher"}, bleed: true, pressReady: true},
		{name: "bleed from unknown producer", pages: consistent(page(213.5, 300.5, 0)), meta: Metadata{Producer: "Microsoft Word"}, bleed: true},
		{name: "bleed but rotated", pages: consistent(page(213.5, 300.5, 90)), meta: indesign, bleed: true},
		{name: "quark, any case", pages: consistent(page(213.5, 300.5, 0)), meta: Metadata{Producer: "QUARKXPRESS 2023"}, bleed: true, pressReady: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := inferPrintSpec(tt.pages, tt.meta)
			if spec.HasBleed != tt.bleed || spec.IsPressReady != tt.pressReady {
				t.Errorf("inferPrintSpec = %+v, want bleed %v press ready %v", spec, tt.bleed, tt.pressReady)
			}
			if spec.HasCropMarks || spec.HasRegistrationMarks {
				t.Error("marks are never detected")
			}
		})
	}
}

func TestResolveRequirements(t *testing.T) {
	a4 := PageInfo{
		Pages:      []PageSize{{StandardSize: "A4"}},
		Dimensions: Dimensions{Consistent: true},
	}
	custom := PageInfo{
		Pages:      []PageSize{{StandardSize: "Custom"}},
		Dimensions: Dimensions{Consistent: true},
	}
	images := func(lowest float64) ImageReport { return ImageReport{Count: 1, LowestDPI: lowest} }

	tests := []struct {
		name   string
		pages  PageInfo
		colors ColorProfile
		images ImageReport
		want   Requirements
	}{
		{
			name:   "rgb photo book",
			pages:  a4,
			colors: newColorProfile(false, true, false, false),
			images: images(320),
			want: Requirements{PaperSize: "A4", PaperType: "Coated - Standard", PrintingMethod: "High-Quality Digital",
				ColorMode: "RGB to CMYK conversion required", FinishingOptions: []string{}, ProductionComplexity: ComplexityLow},
		},
		{
			name:   "digital default",
			pages:  a4,
			colors: newColorProfile(false, false, false, false),
			images: images(250),
			want: Requirements{PaperSize: "A4", PaperType: "Standard", PrintingMethod: "Digital",
				ColorMode: "Grayscale/B&W", FinishingOptions: []string{}, ProductionComplexity: ComplexityLow},
		},
		{
			name:   "spot and transparency on custom size",
			pages:  custom,
			colors: newColorProfile(false, true, true, true),
			images: ImageReport{},
			want: Requirements{PaperSize: "Custom", PaperType: "Standard", PrintingMethod: "Offset",
				ColorMode:            "RGB to CMYK conversion required",
				FinishingOptions:     []string{FinishingSpotColor, FinishingTransparency},
				ProductionComplexity: ComplexityMedium},
		},
		{
			name:   "mixed color on mixed sizes",
			pages:  PageInfo{Pages: []PageSize{{StandardSize: "A4"}, {StandardSize: "A3"}}},
			colors: newColorProfile(true, true, false, false),
			images: images(150),
			want: Requirements{PaperSize: MultipleSizes, PaperType: "Coated - High Quality", PrintingMethod: "Offset",
				ColorMode: "CMYK", FinishingOptions: []string{}, ProductionComplexity: ComplexityHigh},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveRequirements(tt.pages, tt.colors, tt.images)
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("requirements mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestComplexityNeverDecreases(t *testing.T) {
	if got := ComplexityHigh.atLeast(ComplexityMedium); got != ComplexityHigh {
		t.Errorf("High.atLeast(Medium) = %q", got)
	}
	if got := ComplexityLow.atLeast(ComplexityMedium); got != ComplexityMedium {
		t.Errorf("Low.atLeast(Medium) = %q", got)
	}
}
