package docmodel

import (
	"fmt"
	"slices"
)

// StaticDocument is an immutable in-memory Document. Providers build one up
// front so that analyzers can read it concurrently without touching the
// underlying parser.
type StaticDocument struct {
	Pages       []StaticPage
	Meta        Info
	MetaErr     error
	IsEncrypted bool
}

var _ Document = (*StaticDocument)(nil)

func (d *StaticDocument) PageCount() int { return len(d.Pages) }

func (d *StaticDocument) Page(i int) (Page, error) {
	if i < 1 || i > len(d.Pages) {
		return nil, fmt.Errorf("invalid page number: %d (total pages: %d)", i, len(d.Pages))
	}
	p := &d.Pages[i-1]
	if p.Err != nil {
		return nil, fmt.Errorf("page %d: %w", i, p.Err)
	}
	return p, nil
}

func (d *StaticDocument) Info() (Info, error) {
	if d.MetaErr != nil {
		return Info{}, d.MetaErr
	}
	return d.Meta, nil
}

func (d *StaticDocument) Encrypted() bool { return d.IsEncrypted }

func (d *StaticDocument) Close() error { return nil }

// StaticPage is an immutable Page snapshot. A non-nil Err makes the whole
// page unreadable; the other error fields fail single accessors.
type StaticPage struct {
	Number int
	Err    error

	View    Viewport
	ViewErr error

	Fonts    []FontRef
	FontsErr error

	ColorSpaces    []ColorSpace
	ColorSpacesErr error

	Resources    []ResourceRef
	ResourcesErr error

	Images    []ImageRef
	ImagesErr error
}

var _ Page = (*StaticPage)(nil)

func (p *StaticPage) Index() int { return p.Number }

func (p *StaticPage) Viewport() (Viewport, error) {
	return p.View, p.ViewErr
}

func (p *StaticPage) FontsUsedForPainting() ([]FontRef, error) {
	return slices.Clone(p.Fonts), p.FontsErr
}

func (p *StaticPage) ColorSpaceResources() ([]ColorSpace, error) {
	return slices.Clone(p.ColorSpaces), p.ColorSpacesErr
}

func (p *StaticPage) PatternAndGraphicsStateResources() ([]ResourceRef, error) {
	return slices.Clone(p.Resources), p.ResourcesErr
}

func (p *StaticPage) ImagePaintOperations() ([]ImageRef, error) {
	return slices.Clone(p.Images), p.ImagesErr
}
