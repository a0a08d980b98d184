package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// assessQuality lists the issues that keep a document from being print
// ready, most fundamental first.
func assessQuality(pages PageInfo, fonts FontReport, images ImageReport) []QualityIssue {
	issues := []QualityIssue{}
	if !pages.Dimensions.Consistent {
		sizes := make([]string, 0, len(pages.Dimensions.Distinct))
		for _, d := range pages.Dimensions.Distinct {
			sizes = append(sizes, formatDimension(d))
		}
		detail := "No page geometry could be read"
		if len(sizes) > 0 {
			detail = fmt.Sprintf("Document contains %d different page sizes: %s", len(sizes), strings.Join(sizes, ", "))
		}
		issues = append(issues, QualityIssue{
			Kind:     IssuePageSize,
			Severity: SeverityHigh,
			Message:  "Inconsistent page sizes detected",
			Detail:   detail,
		})
	}
	if pages.HasRotatedPages {
		var rotated []string
		for _, p := range pages.Pages {
			if p.Rotation != 0 {
				rotated = append(rotated, strconv.Itoa(p.Page))
			}
		}
		issues = append(issues, QualityIssue{
			Kind:     IssueRotation,
			Severity: SeverityMedium,
			Message:  "Rotated pages detected",
			Detail:   "Rotated pages: " + strings.Join(rotated, ", "),
		})
	}
	if fonts.MissingCount > 0 {
		var names []string
		seen := make(map[string]bool)
		for _, f := range fonts.Missing {
			if !seen[f.Name] {
				seen[f.Name] = true
				names = append(names, f.Name)
			}
		}
		issues = append(issues, QualityIssue{
			Kind:     IssueMissingFonts,
			Severity: SeverityHigh,
			Message:  "Non-embedded fonts detected",
			Detail:   "Fonts not embedded: " + strings.Join(names, ", "),
		})
	}
	if images.HasLowResImages {
		issues = append(issues, QualityIssue{
			Kind:     IssueLowResImages,
			Severity: SeverityHigh,
			Message:  "Low resolution images detected",
			Detail:   fmt.Sprintf("Lowest image resolution is %s DPI; at least %.0f DPI is recommended", formatNumber(images.LowestDPI), LowResThreshold),
		})
	}
	return issues
}

func formatDimension(d Dimension) string {
	return formatNumber(d.WidthMm) + " x " + formatNumber(d.HeightMm) + " mm"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
