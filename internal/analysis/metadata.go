package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// extractMetadata reads the information dictionary. Dates that cannot be
// parsed are reported as nil; only a failure to read the dictionary itself
// is returned as an error.
func extractMetadata(doc docmodel.Document) (Metadata, error) {
	info, err := doc.Info()
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read document info: %w", err)
	}
	return Metadata{
		Title:            info.Title,
		Author:           info.Author,
		Creator:          info.Creator,
		Producer:         info.Producer,
		CreationDate:     parseDocumentDate(info.CreationDate),
		ModificationDate: parseDocumentDate(info.ModDate),
		PageCount:        doc.PageCount(),
		IsEncrypted:      doc.Encrypted(),
		PDFVersion:       info.PDFVersion,
	}, nil
}

// structuralMetadata is used when the information dictionary is unreadable.
func structuralMetadata(doc docmodel.Document) Metadata {
	return Metadata{
		PageCount:   doc.PageCount(),
		IsEncrypted: doc.Encrypted(),
	}
}

var fallbackDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"Mon Jan 2 2006 15:04:05",
	"January 2, 2006",
}

// parseDocumentDate converts a date string from the information dictionary.
// The compact "D:YYYYMMDDHHmmSS[zone]" form is decoded by pdfcpu; anything
// else is tried against common layouts. It never fails: unparseable input
// yields nil.
func parseDocumentDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "D:") {
		t, ok := compactDate(s)
		if !ok {
			return nil
		}
		return &t
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// compactDate wraps types.DateTime, which indexes past the end of some
// truncated zone suffixes.
func compactDate(s string) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()
	return types.DateTime(s, true)
}
