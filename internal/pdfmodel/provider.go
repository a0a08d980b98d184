// Package pdfmodel implements docmodel.Provider on top of pdfcpu.
package pdfmodel

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Provider loads PDF bytes with pdfcpu and snapshots every page into a
// docmodel.StaticDocument. The pdfcpu context is not retained.
type Provider struct {
	Config *model.Configuration
	Logger *slog.Logger
}

var _ docmodel.Provider = (*Provider)(nil)

// NewProvider returns a Provider using pdfcpu's relaxed validation mode.
func NewProvider() *Provider {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	cfg.OptimizeResourceDicts = false
	return &Provider{Config: cfg}
}

func (p *Provider) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Load parses data and builds the page snapshots. Cancellation is checked
// before each page.
func (p *Provider) Load(ctx context.Context, data []byte) (docmodel.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", docmodel.ErrLoad)
	}
	pctx, err := p.readContext(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", docmodel.ErrLoad, err)
	}

	doc := &docmodel.StaticDocument{
		IsEncrypted: pctx.Encrypt != nil,
		Pages:       make([]docmodel.StaticPage, pctx.PageCount),
	}
	doc.Meta, doc.MetaErr = readInfo(pctx)

	for i := 1; i <= pctx.PageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Pages[i-1] = snapshotPage(pctx, i)
		if perr := doc.Pages[i-1].Err; perr != nil {
			p.logger().Debug("Page could not be read.", "page", i, "error", perr)
		}
	}
	return doc, nil
}

func (p *Provider) readContext(data []byte) (pctx *model.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			pctx, err = nil, fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()

	var conf model.Configuration
	if p.Config != nil {
		conf = *p.Config
	} else {
		conf = *model.NewDefaultConfiguration()
		conf.ValidationMode = model.ValidationRelaxed
		conf.OptimizeResourceDicts = false
	}
	pctx, err = api.ReadContext(bytes.NewReader(data), &conf)
	if err != nil {
		return nil, err
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	return pctx, nil
}

func readInfo(pctx *model.Context) (docmodel.Info, error) {
	xrt := pctx.XRefTable
	info := docmodel.Info{
		Title:        xrt.Title,
		Author:       xrt.Author,
		Creator:      xrt.Creator,
		Producer:     xrt.Producer,
		CreationDate: xrt.CreationDate,
		ModDate:      xrt.ModDate,
		PDFVersion:   xrt.Version().String(),
	}
	if pctx.Info == nil {
		return info, nil
	}
	d, err := pctx.DereferenceDict(*pctx.Info)
	if err != nil {
		return docmodel.Info{}, fmt.Errorf("failed to read info dictionary: %w", err)
	}
	if d == nil {
		return docmodel.Info{}, fmt.Errorf("info dictionary missing")
	}
	fields := map[string]*string{
		"Title":        &info.Title,
		"Author":       &info.Author,
		"Creator":      &info.Creator,
		"Producer":     &info.Producer,
		"CreationDate": &info.CreationDate,
		"ModDate":      &info.ModDate,
	}
	for key, dst := range fields {
		if s, ok := entryText(pctx, d, key); ok {
			*dst = s
		}
	}
	return info, nil
}

func snapshotPage(pctx *model.Context, pageNr int) (sp docmodel.StaticPage) {
	sp.Number = pageNr
	defer func() {
		if r := recover(); r != nil {
			sp = docmodel.StaticPage{Number: pageNr, Err: fmt.Errorf("panic while reading page: %v", r)}
		}
	}()

	// Resources are taken as declared, not trimmed to what the content names.
	pageDict, _, inh, err := pctx.PageDict(pageNr, false)
	if err != nil {
		sp.Err = fmt.Errorf("failed to get page dict: %w", err)
		return sp
	}
	if pageDict == nil {
		sp.Err = fmt.Errorf("page dict missing")
		return sp
	}

	sp.View, sp.ViewErr = viewport(pctx, pageDict, inh)

	res := pageResources(pctx, pageDict, inh)
	sp.ColorSpaces = pageColorSpaces(pctx, res)
	sp.Resources = pagePatternAndGState(pctx, res)

	content, err := pageContent(pctx, pageDict)
	if err != nil {
		err = fmt.Errorf("failed to read page content: %w", err)
		sp.FontsErr, sp.ImagesErr = err, err
		return sp
	}
	scan := newPageScan(pctx)
	scan.run(content, res, identity, "page", 0)
	sp.Fonts = scan.fonts
	sp.Images = scan.images
	return sp
}

func pageResources(pctx *model.Context, pageDict types.Dict, inh *model.InheritedPageAttrs) types.Dict {
	if inh != nil && len(inh.Resources) > 0 {
		return inh.Resources
	}
	if d, ok := entryDict(pctx, pageDict, "Resources"); ok {
		return d
	}
	return types.Dict{}
}

func viewport(pctx *model.Context, pageDict types.Dict, inh *model.InheritedPageAttrs) (docmodel.Viewport, error) {
	var box *types.Rectangle
	if inh != nil {
		box = inh.CropBox
		if box == nil {
			box = inh.MediaBox
		}
	}
	if box == nil {
		return docmodel.Viewport{}, fmt.Errorf("page has no media box")
	}

	rotation := 0
	if inh != nil {
		rotation = inh.Rotate
	}
	if r, ok := entryNumber(pctx, pageDict, "Rotate"); ok {
		rotation = int(r)
	}
	rotation = normalizeRotation(rotation)

	w, h := box.Width(), box.Height()
	if rotation == 90 || rotation == 270 {
		w, h = h, w
	}
	if w <= 0 || h <= 0 {
		return docmodel.Viewport{}, fmt.Errorf("invalid page box %.2fx%.2f", w, h)
	}
	return docmodel.Viewport{WidthPt: w, HeightPt: h, Rotation: rotation}, nil
}

// normalizeRotation maps a /Rotate value onto 0, 90, 180 or 270. Values that
// are not multiples of 90 are ignored, as viewers do.
func normalizeRotation(r int) int {
	if r%90 != 0 {
		return 0
	}
	r %= 360
	if r < 0 {
		r += 360
	}
	return r
}
