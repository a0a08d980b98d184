package analysis

import "time"

// Report is the result of one analysis run. It is assembled once and never
// modified afterwards.
type Report struct {
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	AnalyzedAt time.Time `json:"analyzedAt"`

	Metadata     Metadata       `json:"metadata"`
	PageInfo     PageInfo       `json:"pageInfo"`
	FontInfo     FontReport     `json:"fontInfo"`
	ColorInfo    ColorProfile   `json:"colorInfo"`
	ImageInfo    ImageReport    `json:"imageInfo"`
	PrintSpecs   PrintSpec      `json:"printSpecs"`
	Requirements Requirements   `json:"printingRequirements"`
	Issues       []QualityIssue `json:"qualityIssues"`

	// StandardCompliance is true exactly when Issues is empty.
	StandardCompliance bool `json:"standardCompliance"`

	// Diagnostics lists analyzers whose results were replaced by defaults.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Diagnostic records that a component could not inspect the document and
// its defaults were used instead.
type Diagnostic struct {
	Component string `json:"component"`
	Message   string `json:"message"`
	Cause     string `json:"cause"`
}

// Metadata holds document-level properties. Descriptive fields are empty
// when the information dictionary could not be read.
type Metadata struct {
	Title            string     `json:"title,omitempty"`
	Author           string     `json:"author,omitempty"`
	Creator          string     `json:"creator,omitempty"`
	Producer         string     `json:"producer,omitempty"`
	CreationDate     *time.Time `json:"creationDate"`
	ModificationDate *time.Time `json:"modificationDate"`
	PageCount        int        `json:"pageCount"`
	IsEncrypted      bool       `json:"isEncrypted"`
	PDFVersion       string     `json:"pdfVersion,omitempty"`
}

// PageSize is the geometry of a single page.
type PageSize struct {
	Page         int     `json:"page"`
	WidthPt      float64 `json:"widthPt"`
	HeightPt     float64 `json:"heightPt"`
	WidthMm      float64 `json:"widthMm"`
	HeightMm     float64 `json:"heightMm"`
	StandardSize string  `json:"standardSize"`
	Orientation  string  `json:"orientation"`
	Rotation     int     `json:"rotation"`
}

// Dimension is a physical page size in millimeters.
type Dimension struct {
	WidthMm  float64 `json:"widthMm"`
	HeightMm float64 `json:"heightMm"`
}

// Dimensions aggregates page sizes across the document.
type Dimensions struct {
	Consistent bool        `json:"consistent"`
	Distinct   []Dimension `json:"distinct"`
}

// PageInfo is the page geometry report.
type PageInfo struct {
	Count           int        `json:"count"`
	Pages           []PageSize `json:"pages"`
	Dimensions      Dimensions `json:"dimensions"`
	HasRotatedPages bool       `json:"hasRotatedPages"`
	SkippedPages    []int      `json:"skippedPages,omitempty"`
}

// FontOccurrence is one font used on one page.
type FontOccurrence struct {
	Page     int    `json:"page"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	Encoding string `json:"encoding"`
}

// FontUsage aggregates every occurrence of a font name. Embedded is false if
// any occurrence was not embedded.
type FontUsage struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	Encoding string `json:"encoding"`
	Embedded bool   `json:"embedded"`
	Pages    []int  `json:"pages"`
}

// FontReport is the font embedding report.
type FontReport struct {
	Embedded         []FontOccurrence `json:"embedded"`
	Missing          []FontOccurrence `json:"missing"`
	Summary          []FontUsage      `json:"summary"`
	UniqueFonts      int              `json:"uniqueFonts"`
	EmbeddedCount    int              `json:"embeddedCount"`
	MissingCount     int              `json:"missingCount"`
	AllFontsEmbedded bool             `json:"allFontsEmbedded"`
}

// Color models reported in ColorProfile.ColorModel.
const (
	ColorModelCMYK      = "CMYK"
	ColorModelRGB       = "RGB"
	ColorModelMixed     = "Mixed (RGB+CMYK)"
	ColorModelGrayscale = "Grayscale/Unknown"
)

// ColorProfile is the color usage report.
type ColorProfile struct {
	HasCMYK              bool                 `json:"hasCMYK"`
	HasRGB               bool                 `json:"hasRGB"`
	HasSpot              bool                 `json:"hasSpot"`
	HasTransparency      bool                 `json:"hasTransparency"`
	ColorModel           string               `json:"colorModel"`
	SampledPages         []int                `json:"sampledPages"`
	PrintingImplications PrintingImplications `json:"printingImplications"`
}

// PrintingImplications are consequences of the color profile for production.
type PrintingImplications struct {
	RequiresColorPrinting        bool `json:"requiresColorPrinting"`
	RequiresProfessionalPrinting bool `json:"requiresProfessionalPrinting"`
	MayHaveColorShiftIssues      bool `json:"mayHaveColorShiftIssues"`
	NeedsTransparencyFlattening  bool `json:"needsTransparencyFlattening"`
}

// ImagePlacement is a raster image as placed on a page.
type ImagePlacement struct {
	Page             int     `json:"page"`
	Name             string  `json:"name"`
	PixelWidth       int     `json:"pixelWidth"`
	PixelHeight      int     `json:"pixelHeight"`
	BitsPerComponent int     `json:"bitsPerComponent"`
	ColorSpace       string  `json:"colorSpace"`
	EffectiveDPI     float64 `json:"effectiveDPI"`
	IsLowRes         bool    `json:"isLowRes"`
}

// ImageReport is the image resolution report.
type ImageReport struct {
	Count                  int              `json:"count"`
	Images                 []ImagePlacement `json:"images"`
	HighestDPI             float64          `json:"highestDPI"`
	LowestDPI              float64          `json:"lowestDPI"`
	AverageDPI             float64          `json:"averageDPI"`
	HasLowResImages        bool             `json:"hasLowResImages"`
	SuitableForPrinting    bool             `json:"suitableForPrinting"`
	RecommendedPrintMethod string           `json:"recommendedPrintMethod"`
}

// PrintSpec holds the inferred print production properties.
type PrintSpec struct {
	HasBleed                     bool   `json:"hasBleed"`
	HasCropMarks                 bool   `json:"hasCropMarks"`
	HasRegistrationMarks         bool   `json:"hasRegistrationMarks"`
	IsPressReady                 bool   `json:"isPressReady"`
	StandardSize                 bool   `json:"standardSize"`
	RecommendedPaperSize         string `json:"recommendedPaperSize"`
	HasFractionalDimensions      bool   `json:"hasFractionalDimensions"`
	IsSlightlyLargerThanStandard bool   `json:"isSlightlyLargerThanStandard"`
}

// IssueKind classifies a QualityIssue.
type IssueKind string

const (
	IssuePageSize     IssueKind = "PAGE_SIZE"
	IssueRotation     IssueKind = "PAGE_ROTATION"
	IssueMissingFonts IssueKind = "MISSING_FONTS"
	IssueLowResImages IssueKind = "LOW_RES_IMAGES"
)

// Severity of a QualityIssue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// QualityIssue is a problem that blocks print readiness.
type QualityIssue struct {
	Kind     IssueKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Detail   string    `json:"detail"`
}

// Complexity is the production complexity tier.
type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

// Requirements are the production parameters derived from the analysis.
type Requirements struct {
	PaperSize            string     `json:"paperSize"`
	PaperType            string     `json:"paperType"`
	PrintingMethod       string     `json:"printingMethod"`
	ColorMode            string     `json:"colorMode"`
	FinishingOptions     []string   `json:"finishingOptions"`
	ProductionComplexity Complexity `json:"productionComplexity"`
}
