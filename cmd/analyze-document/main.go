package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/printreadiness/internal/analysis"
	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/Lllllllleong/printreadiness/internal/gcp"
	"github.com/Lllllllleong/printreadiness/internal/models"
	"github.com/Lllllllleong/printreadiness/internal/services"
)

var (
	analyzerInstance *services.PrintAnalyzerFunction
	once             sync.Once
	initErr          error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleAnalyzeDocument", handleAnalyzeDocument)
}

// main is required by the Go Functions Framework.
func main() {}

func handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		analyzerInstance, initErr = services.NewPrintAnalyzer(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.AnalyzeDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	res, err := analyzerInstance.AnalyzeObject(r.Context(), &req)
	if err != nil {
		// The specific error is already logged inside AnalyzeObject.
		http.Error(w, http.StatusText(statusFor(err)), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func statusFor(err error) int {
	var ae *analysis.AnalysisError
	switch {
	case errors.Is(err, services.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, gcp.ErrObjectTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, docmodel.ErrLoad):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ae) && errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
