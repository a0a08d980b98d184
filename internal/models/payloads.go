package models

import "github.com/Lllllllleong/printreadiness/internal/analysis"

// These structs define the JSON payloads for HTTP requests and responses
// of the analysis functions and the argument handed to the catalog workflow.

// AnalyzeDocumentRequest is the input for the analyze-document function.
type AnalyzeDocumentRequest struct {
	GCSUri string `json:"gcsUri"`
}

// AnalyzeDocumentResponse is the output of the analyze-document function.
// Summary is empty when the document had already been analyzed.
type AnalyzeDocumentResponse struct {
	Status       string            `json:"status"`
	DocumentID   string            `json:"documentId"`
	ReportGCSUri string            `json:"reportGcsUri"`
	Summary      *analysis.Summary `json:"summary,omitempty"`
}

// PrintAdviceRequest is the input for the print-advisor function.
type PrintAdviceRequest struct {
	DocumentID   string `json:"documentId"`
	ReportGCSUri string `json:"reportGcsUri"`
}

// PrintAdviceResponse is the output of the print-advisor function.
type PrintAdviceResponse struct {
	Status       string `json:"status"`
	AdviceGCSUri string `json:"adviceGcsUri"`
}

// CatalogIngestArgument is passed to the catalog workflow once a report is
// stored, so printers can be matched against the document's requirements.
type CatalogIngestArgument struct {
	DocumentID       string           `json:"documentId"`
	ReportGCSUri     string           `json:"reportGcsUri"`
	Summary          analysis.Summary `json:"summary"`
	FinishingOptions []string         `json:"finishingOptions"`
}
