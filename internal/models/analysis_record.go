package models

import "time"

// Analysis statuses.
const (
	StatusAnalyzing = "ANALYZING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// AnalysisRecord is the Firestore record of one print-readiness analysis.
// It tracks the job status and the headline results of the stored report.
type AnalysisRecord struct {
	FileHash            string    `firestore:"fileHash,omitempty"`
	OriginalFilename    string    `firestore:"originalFilename,omitempty"`
	SourceURI           string    `firestore:"sourceUri,omitempty"`
	FileSize            int64     `firestore:"fileSize,omitempty"`
	Status              string    `firestore:"status,omitempty"`
	ErrorDetails        string    `firestore:"errorDetails,omitempty"`
	PageCount           int       `firestore:"pageCount,omitempty"`
	ReportURI           string    `firestore:"reportUri,omitempty"`
	PrintReady          bool      `firestore:"printReady"`
	IssueCount          int       `firestore:"issueCount"`
	ColorModel          string    `firestore:"colorModel,omitempty"`
	LowestDPI           string    `firestore:"lowestDpi,omitempty"`
	PrintingMethod      string    `firestore:"printingMethod,omitempty"`
	PaperSize           string    `firestore:"paperSize,omitempty"`
	Complexity          string    `firestore:"complexity,omitempty"`
	Degraded            []string  `firestore:"degraded,omitempty"`
	WorkflowExecutionID string    `firestore:"workflowExecutionId,omitempty"`
	CreatedAt           time.Time `firestore:"createdAt,omitempty"`
	CompletedAt         time.Time `firestore:"completedAt,omitempty"`
}
