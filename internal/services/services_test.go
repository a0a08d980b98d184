package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/printreadiness/internal/analysis"
	"github.com/Lllllllleong/printreadiness/internal/gcp"
	"github.com/Lllllllleong/printreadiness/internal/models"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/option"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name, contentType string
		want              bool
	}{
		{"uploads/flyer.pdf", "", true},
		{"uploads/FLYER.PDF", "application/octet-stream", true},
		{"uploads/flyer", "application/pdf", true},
		{"uploads/flyer.png", "image/png", false},
		{"uploads/pdf", "", false},
	}
	for _, tt := range tests {
		if got := isPDF(tt.name, tt.contentType); got != tt.want {
			t.Errorf("isPDF(%q, %q) = %v, want %v", tt.name, tt.contentType, got, tt.want)
		}
	}
}

func TestHashBytes(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := hashBytes([]byte("abc")); got != want {
		t.Errorf("hashBytes = %s, want %s", got, want)
	}
}

func TestObjectNames(t *testing.T) {
	if got := reportObjectName("doc1"); got != "doc1/report.json" {
		t.Errorf("reportObjectName = %q", got)
	}
	if got := adviceObjectName("doc1"); got != "doc1/advice.md" {
		t.Errorf("adviceObjectName = %q", got)
	}
}

func sampleReport() *analysis.Report {
	return &analysis.Report{
		FileName: "flyer.pdf",
		FileSize: 2048,
		Metadata: analysis.Metadata{PageCount: 2},
		Issues: []analysis.QualityIssue{{
			Kind: analysis.IssueMissingFonts, Severity: analysis.SeverityHigh,
			Message: "Non-embedded fonts detected", Detail: "Fonts not embedded: Arial",
		}},
		FontInfo: analysis.FontReport{Summary: []analysis.FontUsage{
			{Name: "Arial", Embedded: false},
			{Name: "Garamond", Embedded: true},
		}},
		Requirements: analysis.Requirements{
			PaperSize:            "A4",
			PrintingMethod:       "Offset",
			FinishingOptions:     []string{analysis.FinishingSpotColor},
			ProductionComplexity: analysis.ComplexityMedium,
		},
		Diagnostics: []analysis.Diagnostic{{Component: "colors", Message: "color usage could not be determined"}},
	}
}

func TestCompletionUpdates(t *testing.T) {
	report := sampleReport()
	summary := analysis.Summarize(report)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	updates := completionUpdates(report, summary, "gs://reports/doc1/report.json", now)
	got := make(map[string]any)
	for _, u := range updates {
		got[u.Path] = u.Value
	}
	want := map[string]any{
		"status":         models.StatusCompleted,
		"reportUri":      "gs://reports/doc1/report.json",
		"pageCount":      2,
		"printReady":     false,
		"issueCount":     1,
		"colorModel":     "",
		"lowestDpi":      "N/A",
		"printingMethod": "Offset",
		"paperSize":      "A4",
		"complexity":     "Medium",
		"completedAt":    now,
		"degraded":       []string{"colors"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("updates mismatch (-want +got):\n%s", d)
	}
}

func TestCatalogArgument(t *testing.T) {
	report := sampleReport()
	summary := analysis.Summarize(report)
	arg := catalogArgument("doc1", "gs://reports/doc1/report.json", report, summary)
	if arg.DocumentID != "doc1" || arg.Summary.FileSize != "2 KB" {
		t.Errorf("catalogArgument = %+v", arg)
	}
	if d := cmp.Diff([]string{analysis.FinishingSpotColor}, arg.FinishingOptions); d != "" {
		t.Errorf("FinishingOptions mismatch (-want +got):\n%s", d)
	}
}

func TestAdvicePrompt(t *testing.T) {
	prompt, err := advicePrompt(sampleReport())
	if err != nil {
		t.Fatalf("advicePrompt: %v", err)
	}
	for _, want := range []string{"Non-embedded fonts detected", `"missingFonts": [`, `"Arial"`, "color usage could not be determined"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt does not contain %q", want)
		}
	}
	if strings.Contains(prompt, `"Garamond"`) {
		t.Error("prompt lists an embedded font as missing")
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{
			genai.Text("```markdown\n**Verdict**: "),
			genai.Text("Not ready.\n```"),
		}},
	}}}
	if got := extractText(resp); got != "**Verdict**: Not ready." {
		t.Errorf("extractText = %q", got)
	}
	if got := extractText(nil); got != "" {
		t.Errorf("extractText(nil) = %q", got)
	}
	if got := extractText(&genai.GenerateContentResponse{}); got != "" {
		t.Errorf("extractText(empty) = %q", got)
	}
}

func TestIsRefusal(t *testing.T) {
	if !isRefusal("As a Large Language Model, I cannot...") {
		t.Error("refusal not detected")
	}
	if isRefusal("Your document is ready for press.") {
		t.Error("normal advice flagged as refusal")
	}
}

func TestWithRetry(t *testing.T) {
	initialBackoff = time.Millisecond
	t.Cleanup(func() { initialBackoff = time.Second })

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), quietLogger, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("withRetry = %v after %d calls, want success after 3", err, calls)
		}
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		boom := errors.New("permanent")
		err := withRetry(context.Background(), quietLogger, func(context.Context) error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) || calls != maxRetries {
			t.Errorf("withRetry = %v after %d calls, want %v after %d", err, calls, boom, maxRetries)
		}
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		initialBackoff = time.Hour
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := withRetry(ctx, quietLogger, func(context.Context) error {
			calls++
			cancel()
			return errors.New("transient")
		})
		if !errors.Is(err, context.Canceled) || calls != 1 {
			t.Errorf("withRetry = %v after %d calls, want context.Canceled after 1", err, calls)
		}
	})
}

type savedObject struct {
	Name, ContentType string
}

// fakeSaves replaces saveObject with a recorder that fails the first
// failures calls.
func fakeSaves(t *testing.T, failures int) *[]savedObject {
	t.Helper()
	initialBackoff = time.Millisecond
	var calls []savedObject
	saveObject = func(ctx context.Context, bucket *storage.BucketHandle, objectName, contentType string, content []byte) error {
		calls = append(calls, savedObject{objectName, contentType})
		if len(calls) <= failures {
			return errors.New("transient")
		}
		return nil
	}
	t.Cleanup(func() {
		initialBackoff = time.Second
		saveObject = gcp.SaveToGCSAtomically
	})
	return &calls
}

func newOfflineStorage(t *testing.T) *storage.Client {
	t.Helper()
	client, err := storage.NewClient(context.Background(), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("storage.NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSavesRetryAlike(t *testing.T) {
	client := newOfflineStorage(t)

	t.Run("advice", func(t *testing.T) {
		calls := fakeSaves(t, 1)
		f := &AdvisorFunction{storageClient: client, config: AdvisorConfig{ReportsBucket: "reports"}}
		if err := f.saveAdvice(context.Background(), quietLogger, adviceObjectName("doc1"), "Ready."); err != nil {
			t.Fatalf("saveAdvice: %v", err)
		}
		want := []savedObject{{"doc1/advice.md", "text/markdown"}, {"doc1/advice.md", "text/markdown"}}
		if d := cmp.Diff(want, *calls); d != "" {
			t.Errorf("saves mismatch (-want +got):\n%s", d)
		}
	})

	t.Run("report", func(t *testing.T) {
		calls := fakeSaves(t, 1)
		f := &PrintAnalyzerFunction{storageClient: client, config: PrintAnalyzerConfig{ReportsBucket: "reports"}}
		uri, err := f.saveReport(context.Background(), quietLogger, "doc1", sampleReport())
		if err != nil {
			t.Fatalf("saveReport: %v", err)
		}
		if uri != "gs://reports/doc1/report.json" {
			t.Errorf("saveReport URI = %q", uri)
		}
		want := []savedObject{{"doc1/report.json", "application/json"}, {"doc1/report.json", "application/json"}}
		if d := cmp.Diff(want, *calls); d != "" {
			t.Errorf("saves mismatch (-want +got):\n%s", d)
		}
	})
}
