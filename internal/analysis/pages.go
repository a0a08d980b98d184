package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/Lllllllleong/printreadiness/internal/geometry"
	"golang.org/x/sync/errgroup"
)

// pageRunner runs per-page work with bounded parallelism. Results are
// written into per-page slots so aggregates never depend on scheduling.
type pageRunner struct {
	limit  int
	logger *slog.Logger
}

// each calls fn(i, pages[i]) for every page. It stops scheduling new pages
// once ctx is done and returns the context error in that case.
func (r pageRunner) each(ctx context.Context, pages []int, fn func(i, page int)) error {
	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, page := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("page %d: %w", page, &panicError{value: r})
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i, page)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// skip logs a page that was left out of a component's aggregate.
func (r pageRunner) skip(component string, page int, err error) {
	r.logger.Debug("Skipping page", "component", component, "page", page, "error", err)
}

func allPages(n int) []int {
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// analyzePages measures every page. Unreadable pages are listed in
// SkippedPages and left out of the aggregates.
func analyzePages(ctx context.Context, doc docmodel.Document, r pageRunner) (PageInfo, error) {
	numbers := allPages(doc.PageCount())
	sizes := make([]*PageSize, len(numbers))

	err := r.each(ctx, numbers, func(i, n int) {
		page, err := doc.Page(n)
		if err != nil {
			r.skip("pages", n, err)
			return
		}
		vp, err := page.Viewport()
		if err != nil {
			r.skip("pages", n, err)
			return
		}
		sizes[i] = measurePage(page.Index(), vp)
	})
	if err != nil {
		return PageInfo{}, err
	}

	info := PageInfo{
		Count: len(numbers),
		Pages: []PageSize{},
		Dimensions: Dimensions{
			Distinct: []Dimension{},
		},
	}
	seen := make(map[Dimension]bool)
	for i, size := range sizes {
		if size == nil {
			info.SkippedPages = append(info.SkippedPages, numbers[i])
			continue
		}
		info.Pages = append(info.Pages, *size)
		if size.Rotation != 0 {
			info.HasRotatedPages = true
		}
		d := Dimension{WidthMm: size.WidthMm, HeightMm: size.HeightMm}
		if !seen[d] {
			seen[d] = true
			info.Dimensions.Distinct = append(info.Dimensions.Distinct, d)
		}
	}
	info.Dimensions.Consistent = len(info.Dimensions.Distinct) == 1
	return info, nil
}

func measurePage(n int, vp docmodel.Viewport) *PageSize {
	w, h := geometry.MmOf(vp.WidthPt), geometry.MmOf(vp.HeightPt)
	return &PageSize{
		Page:         n,
		WidthPt:      vp.WidthPt,
		HeightPt:     vp.HeightPt,
		WidthMm:      w,
		HeightMm:     h,
		StandardSize: geometry.ClassifyPaper(w, h),
		Orientation:  geometry.OrientationOf(w, h),
		Rotation:     vp.Rotation,
	}
}

// firstPage returns the first readable page, if any.
func (p PageInfo) firstPage() (PageSize, bool) {
	if len(p.Pages) == 0 {
		return PageSize{}, false
	}
	return p.Pages[0], true
}
