package pdfmodel

import (
	"fmt"
	"math"

	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxDepth bounds Form XObject nesting and reference chains.
const maxDepth = 20

// pageScan collects the fonts and images a page's content streams paint.
type pageScan struct {
	ctx *model.Context

	fonts    []docmodel.FontRef
	fontSeen map[string]bool

	images    []docmodel.ImageRef
	imageSeen map[string]bool
}

func newPageScan(ctx *model.Context) *pageScan {
	return &pageScan{
		ctx:       ctx,
		fontSeen:  make(map[string]bool),
		imageSeen: make(map[string]bool),
	}
}

// pageContent concatenates the decoded content streams of a page.
func pageContent(ctx *model.Context, pageDict types.Dict) ([]byte, error) {
	contents, found := pageDict.Find("Contents")
	if !found || contents == nil {
		return nil, nil
	}
	obj, err := resolve(ctx, contents)
	if err != nil {
		return nil, err
	}
	switch v := obj.(type) {
	case types.StreamDict:
		return streamContent(v)
	case types.Array:
		var buf []byte
		for i, item := range v {
			sd, ok := streamOf(ctx, item)
			if !ok {
				return nil, fmt.Errorf("content stream %d is not a stream", i)
			}
			b, err := streamContent(sd)
			if err != nil {
				return nil, fmt.Errorf("content stream %d: %w", i, err)
			}
			buf = append(buf, b...)
			buf = append(buf, '\n')
		}
		return buf, nil
	}
	return nil, fmt.Errorf("unexpected page contents type %T", obj)
}

// run interprets one content stream under the given resources and initial CTM.
func (s *pageScan) run(content []byte, res types.Dict, ctm matrix, scope string, depth int) {
	var stack []matrix
	walkOperators(content, func(op operator) {
		switch op.name {
		case "q":
			stack = append(stack, ctm)
		case "Q":
			if n := len(stack); n > 0 {
				ctm = stack[n-1]
				stack = stack[:n-1]
			}
		case "cm":
			if v, ok := op.numbers(6); ok {
				ctm = matrix{v[0], v[1], v[2], v[3], v[4], v[5]}.concat(ctm)
			}
		case "Tf":
			if name, ok := op.nameOperand(1); ok {
				s.useFont(res, name, scope)
			}
		case "Do":
			if name, ok := op.nameOperand(0); ok {
				s.paintXObject(res, name, ctm, scope, depth)
			}
		}
	})
}

func (s *pageScan) useFont(res types.Dict, resName, scope string) {
	key := scope + "/" + resName
	if s.fontSeen[key] {
		return
	}
	s.fontSeen[key] = true
	fonts, ok := entryDict(s.ctx, res, "Font")
	if !ok {
		return
	}
	o, found := fonts.Find(resName)
	if !found {
		return
	}
	if indRef, ok := o.(types.IndirectRef); ok {
		objKey := fmt.Sprintf("obj %d", indRef.ObjectNumber.Value())
		if s.fontSeen[objKey] {
			return
		}
		s.fontSeen[objKey] = true
	}
	fd, ok := dictOf(s.ctx, o)
	if !ok {
		return
	}
	s.fonts = append(s.fonts, fontRef(s.ctx, resName, fd))
}

func (s *pageScan) paintXObject(res types.Dict, resName string, ctm matrix, scope string, depth int) {
	xobjects, ok := entryDict(s.ctx, res, "XObject")
	if !ok {
		return
	}
	o, found := xobjects.Find(resName)
	if !found {
		return
	}
	key := scope + "/" + resName
	if indRef, ok := o.(types.IndirectRef); ok {
		key = fmt.Sprintf("obj %d", indRef.ObjectNumber.Value())
	}
	sd, ok := streamOf(s.ctx, o)
	if !ok {
		return
	}

	switch entryName(s.ctx, sd.Dict, "Subtype") {
	case "Image":
		if s.imageSeen[key] {
			return
		}
		if img, ok := imageRef(s.ctx, resName, sd.Dict, ctm); ok {
			s.imageSeen[key] = true
			s.images = append(s.images, img)
		}
	case "Form":
		if depth >= maxDepth {
			return
		}
		content, err := streamContent(sd)
		if err != nil {
			return
		}
		formCTM := ctm
		if arr, ok := arrayOf(s.ctx, sd.Dict["Matrix"]); ok && len(arr) == 6 {
			var m matrix
			valid := true
			for i, v := range arr {
				f, ok := numberOf(s.ctx, v)
				if !ok {
					valid = false
					break
				}
				m[i] = f
			}
			if valid {
				formCTM = m.concat(ctm)
			}
		}
		formRes := res
		if d, ok := entryDict(s.ctx, sd.Dict, "Resources"); ok {
			formRes = d
		}
		s.run(content, formRes, formCTM, key, depth+1)
	}
}

// imageRef describes an image XObject painted under ctm. The image occupies
// the unit square in image space, so the CTM column norms are its placed
// width and height in points.
func imageRef(ctx *model.Context, resName string, d types.Dict, ctm matrix) (docmodel.ImageRef, bool) {
	w, okW := entryNumber(ctx, d, "Width")
	h, okH := entryNumber(ctx, d, "Height")
	if !okW || !okH || w <= 0 || h <= 0 {
		return docmodel.ImageRef{}, false
	}
	placedW := math.Hypot(ctm[0], ctm[1])
	placedH := math.Hypot(ctm[2], ctm[3])
	if placedW == 0 || placedH == 0 {
		return docmodel.ImageRef{}, false
	}

	img := docmodel.ImageRef{
		Name:        resName,
		PixelWidth:  int(w),
		PixelHeight: int(h),
		ScaleX:      w / placedW,
		ScaleY:      h / placedH,
	}
	if bpc, ok := entryNumber(ctx, d, "BitsPerComponent"); ok {
		img.BitsPerComponent = int(bpc)
	}
	if entryBool(ctx, d, "ImageMask") {
		img.BitsPerComponent = 1
		img.ColorSpace = "ImageMask"
		return img, true
	}
	if cs, found := d.Find("ColorSpace"); found {
		img.ColorSpace = colorSpaceFamily(ctx, cs)
	}
	return img, true
}
