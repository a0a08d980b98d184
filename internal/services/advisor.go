package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/printreadiness/internal/analysis"
	"github.com/Lllllllleong/printreadiness/internal/gcp"
	"github.com/Lllllllleong/printreadiness/internal/models"
)

// maxReportBytes bounds the stored report read back by the advisor.
const maxReportBytes = 16 << 20

// AdvisorConfig holds all configuration for the advisor service.
type AdvisorConfig struct {
	ProjectID      string
	VertexAIRegion string
	ReportsBucket  string
}

// AdvisorFunction writes customer-facing remediation notes for stored
// reports.
type AdvisorFunction struct {
	storageClient *storage.Client
	vertexClient  *gcp.VertexClient
	config        AdvisorConfig
}

func loadAdvisorConfig() (*AdvisorConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	reportsBucket := gcp.GetEnv("REPORTS_BUCKET", "")
	if reportsBucket == "" {
		return nil, fmt.Errorf("REPORTS_BUCKET environment variable must be set")
	}

	return &AdvisorConfig{
		ProjectID:      projectID,
		VertexAIRegion: gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		ReportsBucket:  reportsBucket,
	}, nil
}

// NewAdvisor creates a new AdvisorFunction instance.
func NewAdvisor(ctx context.Context) (*AdvisorFunction, error) {
	config, err := loadAdvisorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	return &AdvisorFunction{
		storageClient: storageClient,
		vertexClient:  vertexClient,
		config:        *config,
	}, nil
}

// Process reads a stored report and saves a remediation note next to it.
func (f *AdvisorFunction) Process(ctx context.Context, req *models.PrintAdviceRequest) (*models.PrintAdviceResponse, error) {
	logCtx := slog.With("documentId", req.DocumentID, "reportUri", req.ReportGCSUri)
	if req.DocumentID == "" {
		return nil, fmt.Errorf("%w: documentId is required", ErrBadRequest)
	}
	logCtx.Info("Starting remediation advice.")

	bucket, object := f.config.ReportsBucket, reportObjectName(req.DocumentID)
	if req.ReportGCSUri != "" {
		var err error
		if bucket, object, err = gcp.ParseGCSUri(req.ReportGCSUri); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}
	raw, err := gcp.ReadObject(ctx, f.storageClient.Bucket(bucket), object, maxReportBytes)
	if err != nil {
		logCtx.Error("Failed to read stored report", "error", err)
		return nil, err
	}
	var report analysis.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		logCtx.Error("Stored report is not valid JSON", "error", err)
		return nil, fmt.Errorf("failed to parse report for document %s: %w", req.DocumentID, err)
	}

	prompt, err := advicePrompt(&report)
	if err != nil {
		return nil, err
	}
	resp, err := f.vertexClient.AdvisorModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logCtx.Error("Call to Vertex AI for advice failed", "error", err)
		return nil, fmt.Errorf("failed to generate advice from gemini: %w", err)
	}

	advice := extractText(resp)
	if advice == "" {
		err := fmt.Errorf("gemini returned an empty response for document %s", req.DocumentID)
		logCtx.Error("Empty response from Gemini", "error", err)
		return nil, err
	}
	if isRefusal(advice) {
		err := fmt.Errorf("gemini response indicates refusal for document %s", req.DocumentID)
		logCtx.Error("Refusal from Gemini", "error", err, "response", advice)
		return nil, err
	}

	objectName := adviceObjectName(req.DocumentID)
	if err := f.saveAdvice(ctx, logCtx, objectName, advice); err != nil {
		logCtx.Error("Failed to save advice", "error", err)
		return nil, err
	}

	adviceURI := gcp.GCSUri(f.config.ReportsBucket, objectName)
	logCtx.Info("Advice complete.", "adviceUri", adviceURI)
	return &models.PrintAdviceResponse{
		Status:       "success",
		AdviceGCSUri: adviceURI,
	}, nil
}

// saveAdvice stores the note beside the report, retrying transient failures.
func (f *AdvisorFunction) saveAdvice(ctx context.Context, logCtx *slog.Logger, objectName, advice string) error {
	return saveWithRetry(ctx, logCtx, f.storageClient.Bucket(f.config.ReportsBucket), objectName, "text/markdown", []byte(advice))
}

// adviceInput is the part of a report the model is shown.
type adviceInput struct {
	Summary      analysis.Summary        `json:"summary"`
	Issues       []analysis.QualityIssue `json:"qualityIssues"`
	PrintSpecs   analysis.PrintSpec      `json:"printSpecs"`
	Requirements analysis.Requirements   `json:"printingRequirements"`
	MissingFonts []string                `json:"missingFonts,omitempty"`
	Diagnostics  []analysis.Diagnostic   `json:"diagnostics,omitempty"`
}

func advicePrompt(report *analysis.Report) (string, error) {
	in := adviceInput{
		Summary:      analysis.Summarize(report),
		Issues:       report.Issues,
		PrintSpecs:   report.PrintSpecs,
		Requirements: report.Requirements,
		Diagnostics:  report.Diagnostics,
	}
	for _, f := range report.FontInfo.Summary {
		if !f.Embedded {
			in.MissingFonts = append(in.MissingFonts, f.Name)
		}
	}
	body, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal advice input: %w", err)
	}
	return gcp.AdvisorUserPrompt + "\n\n" + string(body), nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	s := strings.TrimSpace(sb.String())
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

func isRefusal(s string) bool {
	lower := strings.ToLower(s)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func adviceObjectName(documentID string) string {
	return documentID + "/advice.md"
}
