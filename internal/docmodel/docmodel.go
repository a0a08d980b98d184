// Package docmodel defines the read-only page/object model the analysis
// engine works against, independent of how raw document bytes are parsed.
package docmodel

import (
	"context"
	"errors"
)

// ErrLoad is returned (wrapped) by a Provider when raw bytes cannot be turned
// into a Document at all.
var ErrLoad = errors.New("document could not be loaded")

// Provider turns raw document bytes into a Document.
type Provider interface {
	Load(ctx context.Context, data []byte) (Document, error)
}

// Document is a loaded document. Implementations must be safe for
// concurrent reads.
type Document interface {
	PageCount() int
	// Page returns the page with the given 1-based index.
	Page(i int) (Page, error)
	Info() (Info, error)
	Encrypted() bool
	Close() error
}

// Page exposes the facts of a single page. Each accessor may fail
// independently of the others.
type Page interface {
	Index() int
	Viewport() (Viewport, error)
	FontsUsedForPainting() ([]FontRef, error)
	ColorSpaceResources() ([]ColorSpace, error)
	PatternAndGraphicsStateResources() ([]ResourceRef, error)
	ImagePaintOperations() ([]ImageRef, error)
}

// Viewport is the displayed page size in points, after applying rotation.
type Viewport struct {
	WidthPt  float64
	HeightPt float64
	Rotation int
}

// Info holds the document information dictionary.
type Info struct {
	Title        string
	Author       string
	Creator      string
	Producer     string
	CreationDate string
	ModDate      string
	PDFVersion   string
}

// FontRef is a font selected by a text operator on a page.
type FontRef struct {
	Name     string
	Type     string
	Subtype  string
	Encoding string
	Embedded bool
}

// ColorSpaceKind is the closed set of color space families the analyzers distinguish.
type ColorSpaceKind int

const (
	ColorSpaceOther ColorSpaceKind = iota
	ColorSpaceDeviceCMYK
	ColorSpaceDeviceRGB
	ColorSpaceSeparation
)

func (k ColorSpaceKind) String() string {
	switch k {
	case ColorSpaceDeviceCMYK:
		return "DeviceCMYK"
	case ColorSpaceDeviceRGB:
		return "DeviceRGB"
	case ColorSpaceSeparation:
		return "Separation"
	default:
		return "Other"
	}
}

// ColorSpace is a declared color space resource. Name is the family name as
// written in the document, kept for Other.
type ColorSpace struct {
	Kind ColorSpaceKind
	Name string
}

// Resource categories reported by PatternAndGraphicsStateResources.
const (
	CategoryPattern   = "Pattern"
	CategoryExtGState = "ExtGState"
)

// ResourceRef names an entry of a page resource sub-dictionary.
type ResourceRef struct {
	Category string
	Name     string
}

// ImageRef describes one painted image. ScaleX and ScaleY are image pixels
// per placed point on the respective axis.
type ImageRef struct {
	Name             string
	PixelWidth       int
	PixelHeight      int
	ScaleX           float64
	ScaleY           float64
	BitsPerComponent int
	ColorSpace       string
}
