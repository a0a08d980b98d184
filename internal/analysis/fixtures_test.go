package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/Lllllllleong/printreadiness/internal/geometry"
)

var (
	fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	errTest  = errors.New("test failure")
)

type staticProvider struct {
	doc docmodel.Document
	err error
}

func (p staticProvider) Load(ctx context.Context, data []byte) (docmodel.Document, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.doc, nil
}

func newTestEngine(doc docmodel.Document, opts ...Option) *Engine {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewEngine(staticProvider{doc: doc}, append(base, opts...)...)
}

// pageMm returns a page with the given size in millimeters.
func pageMm(n int, widthMm, heightMm float64) docmodel.StaticPage {
	return docmodel.StaticPage{
		Number: n,
		View: docmodel.Viewport{
			WidthPt:  geometry.PtOf(widthMm),
			HeightPt: geometry.PtOf(heightMm),
		},
	}
}

// imageAt returns a square image of px pixels placed at the given DPI.
func imageAt(name string, px int, dpi float64) docmodel.ImageRef {
	scale := dpi / geometry.PointsPerInch
	return docmodel.ImageRef{
		Name:             name,
		PixelWidth:       px,
		PixelHeight:      px,
		ScaleX:           scale,
		ScaleY:           scale,
		BitsPerComponent: 8,
		ColorSpace:       "DeviceCMYK",
	}
}

func embeddedFont(name string) docmodel.FontRef {
	return docmodel.FontRef{Name: name, Type: "TrueType", Subtype: "TrueType", Embedded: true}
}

var cmykSpace = docmodel.ColorSpace{Kind: docmodel.ColorSpaceDeviceCMYK, Name: "DeviceCMYK"}

// healthyA4 is a single A4 page with embedded fonts, CMYK color and one
// image at the given DPI.
func healthyA4(dpi float64) *docmodel.StaticDocument {
	page := pageMm(1, 210, 297)
	page.Fonts = []docmodel.FontRef{embeddedFont("ABCDEF+Garamond")}
	page.ColorSpaces = []docmodel.ColorSpace{cmykSpace}
	page.Images = []docmodel.ImageRef{imageAt("Im1", 1200, dpi)}
	return &docmodel.StaticDocument{
		Pages: []docmodel.StaticPage{page},
		Meta: docmodel.Info{
			Title:        "Flyer",
			Producer:     "Adobe InDesign 18.0",
			CreationDate: "D:20240315103000Z",
			PDFVersion:   "1.7",
		},
	}
}

// trackingDocument wraps a Document and runs hook before every page access.
type trackingDocument struct {
	docmodel.Document
	hook func(page int)
}

func (d trackingDocument) Page(i int) (docmodel.Page, error) {
	d.hook(i)
	return d.Document.Page(i)
}
