package analysis

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
)

var errNoFontPages = errors.New("fonts could not be read on any page")

// analyzeFonts classifies every font painted on every page. A page whose
// fonts cannot be listed is skipped; if no page could be read at all the
// whole component fails.
func analyzeFonts(ctx context.Context, doc docmodel.Document, r pageRunner) (FontReport, error) {
	numbers := allPages(doc.PageCount())
	perPage := make([][]docmodel.FontRef, len(numbers))
	ok := make([]bool, len(numbers))

	err := r.each(ctx, numbers, func(i, n int) {
		page, err := doc.Page(n)
		if err != nil {
			r.skip("fonts", n, err)
			return
		}
		fonts, err := page.FontsUsedForPainting()
		if err != nil {
			r.skip("fonts", n, err)
			return
		}
		perPage[i], ok[i] = fonts, true
	})
	if err != nil {
		return FontReport{}, err
	}
	if len(numbers) > 0 && !slices.Contains(ok, true) {
		return FontReport{}, errNoFontPages
	}

	report := emptyFontReport()
	usage := make(map[string]*FontUsage)
	for i, fonts := range perPage {
		n := numbers[i]
		for _, f := range fonts {
			occ := FontOccurrence{Page: n, Name: f.Name, Type: f.Type, Subtype: f.Subtype, Encoding: f.Encoding}
			if f.Embedded {
				report.Embedded = append(report.Embedded, occ)
			} else {
				report.Missing = append(report.Missing, occ)
			}

			u, found := usage[f.Name]
			if !found {
				u = &FontUsage{Name: f.Name, Type: f.Type, Subtype: f.Subtype, Encoding: f.Encoding, Embedded: true}
				usage[f.Name] = u
			}
			u.Embedded = u.Embedded && f.Embedded
			if !slices.Contains(u.Pages, n) {
				u.Pages = append(u.Pages, n)
			}
		}
	}

	for _, u := range usage {
		report.Summary = append(report.Summary, *u)
	}
	slices.SortFunc(report.Summary, func(a, b FontUsage) int {
		return strings.Compare(a.Name, b.Name)
	})
	report.UniqueFonts = len(report.Summary)
	report.EmbeddedCount = len(report.Embedded)
	report.MissingCount = len(report.Missing)
	report.AllFontsEmbedded = report.MissingCount == 0
	return report, nil
}

// emptyFontReport is also the optimistic default used when fonts cannot be
// inspected: nothing found means nothing missing.
func emptyFontReport() FontReport {
	return FontReport{
		Embedded:         []FontOccurrence{},
		Missing:          []FontOccurrence{},
		Summary:          []FontUsage{},
		AllFontsEmbedded: true,
	}
}
