package analysis

import (
	"math"
	"strconv"
)

// Summary is the condensed view of a Report for presentation layers.
type Summary struct {
	FileName       string     `json:"fileName"`
	FileSize       string     `json:"fileSize"`
	PageCount      int        `json:"pageCount"`
	Dimensions     string     `json:"dimensions"`
	ColorModel     string     `json:"colorModel"`
	ImageCount     int        `json:"imageCount"`
	LowestDPI      string     `json:"lowestDPI"`
	PrintReady     bool       `json:"printReady"`
	IssueCount     int        `json:"issueCount"`
	PrintingMethod string     `json:"printingMethod"`
	PaperSize      string     `json:"paperSize"`
	Complexity     Complexity `json:"complexity"`
}

// Summarize condenses a report. It performs no I/O.
func Summarize(r *Report) Summary {
	s := Summary{
		FileName:       r.FileName,
		FileSize:       FormatFileSize(r.FileSize),
		PageCount:      r.Metadata.PageCount,
		Dimensions:     "Unknown",
		ColorModel:     r.ColorInfo.ColorModel,
		ImageCount:     r.ImageInfo.Count,
		LowestDPI:      "N/A",
		PrintReady:     r.StandardCompliance,
		IssueCount:     len(r.Issues),
		PrintingMethod: r.Requirements.PrintingMethod,
		PaperSize:      r.Requirements.PaperSize,
		Complexity:     r.Requirements.ProductionComplexity,
	}
	if len(r.PageInfo.Dimensions.Distinct) > 0 {
		s.Dimensions = formatDimension(r.PageInfo.Dimensions.Distinct[0])
	}
	if r.ImageInfo.Count > 0 {
		s.LowestDPI = strconv.FormatFloat(math.Round(r.ImageInfo.LowestDPI), 'f', 0, 64) + " DPI"
	}
	return s
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with binary units and at most two
// decimals, e.g. "1.5 MB".
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return formatNumber(math.Round(v*100)/100) + " " + sizeUnits[i]
}
