// Package analysis derives a print-readiness report from a loaded document.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"golang.org/x/sync/errgroup"
)

// DefaultPageConcurrency bounds the pages inspected at once by each
// analyzer.
const DefaultPageConcurrency = 8

// Error stages.
const (
	StageLoad          = "load"
	StageOrchestration = "orchestration"
)

// AnalysisError is the only error returned by Engine.Analyze. It means no
// report was produced.
type AnalysisError struct {
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed during %s: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Engine runs analyses. It holds no per-document state and may be shared.
type Engine struct {
	provider        docmodel.Provider
	logger          *slog.Logger
	pageConcurrency int
	now             func() time.Time
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPageConcurrency sets how many pages each analyzer inspects at once.
// Values below 1 are ignored.
func WithPageConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageConcurrency = n
		}
	}
}

// WithClock replaces time.Now for the report timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(provider docmodel.Provider, opts ...Option) *Engine {
	e := &Engine{
		provider:        provider,
		logger:          slog.Default(),
		pageConcurrency: DefaultPageConcurrency,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze loads data and produces its report. Component failures are
// downgraded to defaults and listed in Report.Diagnostics; only a load
// failure, cancellation or an unexpected panic fails the run.
func (e *Engine) Analyze(ctx context.Context, data []byte, fileName string, fileSize int64) (*Report, error) {
	logCtx := e.logger.With("fileName", fileName, "fileSize", fileSize)

	if err := ctx.Err(); err != nil {
		return nil, &AnalysisError{Stage: StageLoad, Err: err}
	}
	doc, err := e.provider.Load(ctx, data)
	if err != nil {
		logCtx.Error("Failed to load document", "error", err)
		return nil, &AnalysisError{Stage: StageLoad, Err: err}
	}
	defer func() {
		if err := doc.Close(); err != nil {
			logCtx.Warn("Failed to release document", "error", err)
		}
	}()
	logCtx.Info("Document loaded.", "pageCount", doc.PageCount())

	runner := pageRunner{limit: e.pageConcurrency, logger: logCtx}
	var (
		meta      Metadata
		metaErr   error
		pages     PageInfo
		fonts     FontReport
		fontsErr  error
		colors    ColorProfile
		colorsErr error
		images    ImageReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("metadata", func() error {
		meta, metaErr = extractMetadata(doc)
		return nil
	}))
	g.Go(guard("pages", func() (err error) {
		pages, err = analyzePages(gctx, doc, runner)
		return err
	}))
	g.Go(guard("fonts", func() error {
		fonts, fontsErr = analyzeFonts(gctx, doc, runner)
		return fatal(gctx, fontsErr)
	}))
	g.Go(guard("colors", func() error {
		colors, colorsErr = analyzeColors(gctx, doc, runner)
		return fatal(gctx, colorsErr)
	}))
	g.Go(guard("images", func() (err error) {
		images, err = analyzeImages(gctx, doc, runner)
		return err
	}))
	if err := g.Wait(); err != nil {
		logCtx.Error("Analysis aborted", "error", err)
		return nil, &AnalysisError{Stage: StageOrchestration, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &AnalysisError{Stage: StageOrchestration, Err: err}
	}

	var diags []Diagnostic
	meta = settle(logCtx, &diags, "metadata", "document metadata could not be read", meta, metaErr, structuralMetadata(doc))
	fonts = settle(logCtx, &diags, "fonts", "fonts could not be verified", fonts, fontsErr, emptyFontReport())
	colors = settle(logCtx, &diags, "colors", "color usage could not be determined", colors, colorsErr, newColorProfile(false, false, false, false))

	issues := assessQuality(pages, fonts, images)
	report := &Report{
		FileName:           fileName,
		FileSize:           fileSize,
		AnalyzedAt:         e.now().UTC(),
		Metadata:           meta,
		PageInfo:           pages,
		FontInfo:           fonts,
		ColorInfo:          colors,
		ImageInfo:          images,
		PrintSpecs:         inferPrintSpec(pages, meta),
		Requirements:       resolveRequirements(pages, colors, images),
		Issues:             issues,
		StandardCompliance: len(issues) == 0,
		Diagnostics:        diags,
	}
	logCtx.Info("Analysis complete.",
		"issueCount", len(issues),
		"colorModel", colors.ColorModel,
		"imageCount", images.Count,
		"degradedComponents", len(diags),
	)
	return report, nil
}

// settle is the single place where a component failure is turned into that
// component's default.
func settle[T any](logger *slog.Logger, diags *[]Diagnostic, component, message string, v T, err error, fallback T) T {
	if err == nil {
		return v
	}
	logger.Warn("Component failed, using defaults.", "component", component, "error", err)
	*diags = append(*diags, Diagnostic{Component: component, Message: message, Cause: err.Error()})
	return fallback
}

// fatal passes through panics and errors caused by cancellation of ctx.
// Everything else is left for settle.
func fatal(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var pe *panicError
	if errors.As(err, &pe) {
		return err
	}
	return ctx.Err()
}

// panicError carries a recovered panic value.
type panicError struct {
	value any
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

// guard turns a panic in an analyzer into an error for the group.
func guard(component string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s analyzer: %w", component, &panicError{value: r})
			}
		}()
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", component, err)
		}
		return nil
	}
}
