package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"
	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
	"github.com/Lllllllleong/printreadiness/internal/analysis"
	"github.com/Lllllllleong/printreadiness/internal/gcp"
	"github.com/Lllllllleong/printreadiness/internal/models"
	"github.com/Lllllllleong/printreadiness/internal/pdfmodel"
)

// ErrBadRequest marks errors caused by the caller's input.
var ErrBadRequest = errors.New("bad request")

const defaultMaxDocumentBytes = 200 << 20

type PrintAnalyzerConfig struct {
	ProjectID        string
	ReportsBucket    string
	CollectionName   string
	WorkflowID       string
	WorkflowLocation string
	MaxDocumentBytes int64
	PageConcurrency  int
}

type PrintAnalyzerFunction struct {
	storageClient    *storage.Client
	firestoreClient  *firestore.Client
	executionsClient *executions.Client
	engine           *analysis.Engine
	config           PrintAnalyzerConfig
}

type GCSEvent struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

func loadAnalyzerConfig() (PrintAnalyzerConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return PrintAnalyzerConfig{}, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	maxBytes, err := gcp.GetEnvInt("MAX_DOCUMENT_BYTES", defaultMaxDocumentBytes)
	if err != nil {
		return PrintAnalyzerConfig{}, err
	}
	concurrency, err := gcp.GetEnvInt("ANALYZER_PAGE_CONCURRENCY", analysis.DefaultPageConcurrency)
	if err != nil {
		return PrintAnalyzerConfig{}, err
	}

	config := PrintAnalyzerConfig{
		ProjectID:        projectID,
		ReportsBucket:    gcp.GetEnv("REPORTS_BUCKET", ""),
		CollectionName:   gcp.GetEnv("FIRESTORE_COLLECTION", "print_analyses"),
		WorkflowLocation: gcp.GetEnv("WORKFLOW_LOCATION", "us-central1"),
		WorkflowID:       gcp.GetEnv("WORKFLOW_ID", "print-catalog-ingest"),
		MaxDocumentBytes: maxBytes,
		PageConcurrency:  int(concurrency),
	}
	if config.ReportsBucket == "" {
		return PrintAnalyzerConfig{}, fmt.Errorf("REPORTS_BUCKET environment variable must be set")
	}
	return config, nil
}

func NewPrintAnalyzer(ctx context.Context) (*PrintAnalyzerFunction, error) {
	config, err := loadAnalyzerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	var executionsClient *executions.Client
	if config.WorkflowID != "" {
		executionsClient, err = executions.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create Workflows Executions client: %w", err)
		}
	}

	f := &PrintAnalyzerFunction{
		firestoreClient:  firestoreClient,
		storageClient:    storageClient,
		executionsClient: executionsClient,
		engine: analysis.NewEngine(pdfmodel.NewProvider(),
			analysis.WithPageConcurrency(config.PageConcurrency)),
		config: config,
	}
	slog.Info("Print analyzer logic initialized.", "workflowId", config.WorkflowID, "maxDocumentBytes", config.MaxDocumentBytes)
	return f, nil
}

// Process analyzes a newly uploaded object. Objects that are not PDFs are
// ignored.
func (f *PrintAnalyzerFunction) Process(ctx context.Context, e GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	if !isPDF(e.Name, e.ContentType) {
		logCtx.Info("Object is not a PDF. Skipping.", "contentType", e.ContentType)
		return nil
	}
	logCtx.Info("Processing new GCS object.")
	_, err := f.analyzeObject(ctx, logCtx, e.Bucket, e.Name)
	return err
}

// AnalyzeObject analyzes the object named by req.GCSUri on request.
func (f *PrintAnalyzerFunction) AnalyzeObject(ctx context.Context, req *models.AnalyzeDocumentRequest) (*models.AnalyzeDocumentResponse, error) {
	bucket, object, err := gcp.ParseGCSUri(req.GCSUri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	logCtx := slog.With("gcsBucket", bucket, "gcsObject", object)
	logCtx.Info("Processing analysis request.")
	return f.analyzeObject(ctx, logCtx, bucket, object)
}

func (f *PrintAnalyzerFunction) analyzeObject(ctx context.Context, logCtx *slog.Logger, bucket, object string) (*models.AnalyzeDocumentResponse, error) {
	data, err := gcp.ReadObject(ctx, f.storageClient.Bucket(bucket), object, f.config.MaxDocumentBytes)
	if err != nil {
		logCtx.Error("Failed to download source PDF", "error", err)
		return nil, err
	}

	fileHash := hashBytes(data)
	logCtx = logCtx.With("fileHash", fileHash)

	existing, err := gcp.FindFirst(ctx, f.firestoreClient, f.config.CollectionName, "fileHash", fileHash)
	if err != nil {
		logCtx.Error("Failed to check for duplicate", "error", err)
		return nil, err
	}
	if existing != nil {
		var rec models.AnalysisRecord
		if err := existing.DataTo(&rec); err != nil {
			logCtx.Warn("Failed to decode existing analysis record", "error", err)
		}
		logCtx.Info("Duplicate file detected. Skipping.", "existingDocId", existing.Ref.ID)
		return &models.AnalyzeDocumentResponse{
			Status:       "duplicate",
			DocumentID:   existing.Ref.ID,
			ReportGCSUri: rec.ReportURI,
		}, nil
	}

	docRef, err := f.createInitialRecord(ctx, fileHash, bucket, object, int64(len(data)))
	if err != nil {
		logCtx.Error("Failed to create initial Firestore record", "error", err)
		return nil, err
	}
	logCtx = logCtx.With("documentId", docRef.ID)
	logCtx.Info("Created analysis record in Firestore.")

	report, err := f.engine.Analyze(ctx, data, path.Base(object), int64(len(data)))
	if err != nil {
		return nil, f.handleError(ctx, logCtx, docRef, "failed to analyze document", err)
	}
	summary := analysis.Summarize(report)

	reportURI, err := f.saveReport(ctx, logCtx, docRef.ID, report)
	if err != nil {
		return nil, f.handleError(ctx, logCtx, docRef, "failed to save report", err)
	}
	if _, err := docRef.Update(ctx, completionUpdates(report, summary, reportURI, time.Now())); err != nil {
		return nil, f.handleError(ctx, logCtx, docRef, "failed to update status to COMPLETED", err)
	}
	logCtx.Info("Report stored.", "reportUri", reportURI, "printReady", summary.PrintReady, "issueCount", summary.IssueCount)

	if err := f.triggerWorkflow(ctx, logCtx, docRef, reportURI, report, summary); err != nil {
		// Error is already logged and handled in triggerWorkflow
		return nil, err
	}

	return &models.AnalyzeDocumentResponse{
		Status:       "success",
		DocumentID:   docRef.ID,
		ReportGCSUri: reportURI,
		Summary:      &summary,
	}, nil
}

func (f *PrintAnalyzerFunction) createInitialRecord(ctx context.Context, fileHash, bucket, object string, size int64) (*firestore.DocumentRef, error) {
	rec := models.AnalysisRecord{
		FileHash:         fileHash,
		OriginalFilename: object,
		SourceURI:        gcp.GCSUri(bucket, object),
		FileSize:         size,
		Status:           models.StatusAnalyzing,
		CreatedAt:        time.Now(),
	}
	docRef, _, err := f.firestoreClient.Collection(f.config.CollectionName).Add(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis record: %w", err)
	}
	return docRef, nil
}

// saveReport stores the report as JSON, retrying transient failures.
func (f *PrintAnalyzerFunction) saveReport(ctx context.Context, logCtx *slog.Logger, documentID string, report *analysis.Report) (string, error) {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	objectName := reportObjectName(documentID)
	bucket := f.storageClient.Bucket(f.config.ReportsBucket)
	if err := saveWithRetry(ctx, logCtx, bucket, objectName, "application/json", content); err != nil {
		return "", err
	}
	return gcp.GCSUri(f.config.ReportsBucket, objectName), nil
}

func (f *PrintAnalyzerFunction) triggerWorkflow(ctx context.Context, logCtx *slog.Logger, docRef *firestore.DocumentRef, reportURI string, report *analysis.Report, summary analysis.Summary) error {
	if f.executionsClient == nil {
		logCtx.Info("No catalog workflow configured. Skipping hand-off.")
		return nil
	}
	logCtx.Info("Triggering workflow.")
	payloadBytes, err := json.Marshal(catalogArgument(docRef.ID, reportURI, report, summary))
	if err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to marshal workflow payload", err)
	}
	req := &executionspb.CreateExecutionRequest{
		Parent: fmt.Sprintf("projects/%s/locations/%s/workflows/%s", f.config.ProjectID, f.config.WorkflowLocation, f.config.WorkflowID),
		Execution: &executionspb.Execution{
			Argument: string(payloadBytes),
		},
	}
	exec, err := f.executionsClient.CreateExecution(ctx, req)
	if err != nil {
		return f.handleError(ctx, logCtx, docRef, "failed to trigger workflow execution", err)
	}
	if _, err := docRef.Update(ctx, []firestore.Update{{Path: "workflowExecutionId", Value: exec.GetName()}}); err != nil {
		logCtx.Warn("Failed to record workflow execution", "error", err, "executionName", exec.GetName())
	}
	logCtx.Info("Hand-off to workflow complete.", "executionName", exec.GetName())
	return nil
}

func (f *PrintAnalyzerFunction) handleError(ctx context.Context, logCtx *slog.Logger, docRef *firestore.DocumentRef, message string, originalErr error) error {
	fullError := fmt.Sprintf("%s: %v", message, originalErr)
	logCtx.Error(message, "error", originalErr)
	if err := f.updateStatus(ctx, docRef, models.StatusFailed, fullError); err != nil {
		logCtx.Error("CRITICAL: Failed to update Firestore status to FAILED after a processing error.", "updateError", err)
	}
	return fmt.Errorf("%s: %w", message, originalErr)
}

func (f *PrintAnalyzerFunction) updateStatus(ctx context.Context, docRef *firestore.DocumentRef, status, errDetails string) error {
	updates := []firestore.Update{
		{Path: "status", Value: status},
	}
	if errDetails != "" {
		updates = append(updates, firestore.Update{Path: "errorDetails", Value: errDetails})
	}
	_, err := docRef.Update(ctx, updates)
	return err
}

// completionUpdates records the headline results of a stored report.
func completionUpdates(report *analysis.Report, summary analysis.Summary, reportURI string, now time.Time) []firestore.Update {
	var degraded []string
	for _, d := range report.Diagnostics {
		degraded = append(degraded, d.Component)
	}
	updates := []firestore.Update{
		{Path: "status", Value: models.StatusCompleted},
		{Path: "reportUri", Value: reportURI},
		{Path: "pageCount", Value: summary.PageCount},
		{Path: "printReady", Value: summary.PrintReady},
		{Path: "issueCount", Value: summary.IssueCount},
		{Path: "colorModel", Value: summary.ColorModel},
		{Path: "lowestDpi", Value: summary.LowestDPI},
		{Path: "printingMethod", Value: summary.PrintingMethod},
		{Path: "paperSize", Value: summary.PaperSize},
		{Path: "complexity", Value: string(summary.Complexity)},
		{Path: "completedAt", Value: now},
	}
	if len(degraded) > 0 {
		updates = append(updates, firestore.Update{Path: "degraded", Value: degraded})
	}
	return updates
}

func catalogArgument(documentID, reportURI string, report *analysis.Report, summary analysis.Summary) models.CatalogIngestArgument {
	return models.CatalogIngestArgument{
		DocumentID:       documentID,
		ReportGCSUri:     reportURI,
		Summary:          summary,
		FinishingOptions: report.Requirements.FinishingOptions,
	}
}

func reportObjectName(documentID string) string {
	return documentID + "/report.json"
}

func isPDF(name, contentType string) bool {
	if strings.EqualFold(contentType, "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
