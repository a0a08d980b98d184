package analysis

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		0:                "0 Bytes",
		512:              "512 Bytes",
		1024:             "1 KB",
		1536:             "1.5 KB",
		5 * 1024 * 1024:  "5 MB",
		1234567:          "1.18 MB",
		3 << 30:          "3 GB",
		5 << 40:          "5 TB",
		2048 * (1 << 40): "2048 TB",
	}
	for in, want := range tests {
		if got := FormatFileSize(in); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	report, err := newTestEngine(healthyA4(150)).Analyze(context.Background(), nil, "flyer.pdf", 1536)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	want := Summary{
		FileName:       "flyer.pdf",
		FileSize:       "1.5 KB",
		PageCount:      1,
		Dimensions:     "210 x 297 mm",
		ColorModel:     ColorModelCMYK,
		ImageCount:     1,
		LowestDPI:      "150 DPI",
		PrintReady:     false,
		IssueCount:     1,
		PrintingMethod: "Offset",
		PaperSize:      "A4",
		Complexity:     ComplexityMedium,
	}
	if d := cmp.Diff(want, Summarize(report)); d != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", d)
	}
}

func TestSummarizeEmptyReport(t *testing.T) {
	s := Summarize(&Report{FileName: "empty.pdf"})
	if s.Dimensions != "Unknown" || s.LowestDPI != "N/A" || s.FileSize != "0 Bytes" {
		t.Errorf("Summarize = %+v", s)
	}
}
