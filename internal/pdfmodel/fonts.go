package pdfmodel

import (
	"github.com/Lllllllleong/printreadiness/internal/docmodel"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// fontRef describes a font dictionary. A font counts as embedded when its
// descriptor carries a font program, or when it is a Type3 font whose glyphs
// are content streams inside the document.
func fontRef(ctx *model.Context, resName string, fd types.Dict) docmodel.FontRef {
	ref := docmodel.FontRef{
		Name:     entryName(ctx, fd, "BaseFont"),
		Type:     entryName(ctx, fd, "Subtype"),
		Encoding: fontEncoding(ctx, fd),
	}
	if ref.Name == "" {
		ref.Name = resName
	}

	if ref.Type == "Type3" {
		ref.Subtype = "Type3"
		ref.Embedded = true
		return ref
	}

	programFont := fd
	if ref.Type == "Type0" {
		if arr, ok := arrayOf(ctx, fd["DescendantFonts"]); ok && len(arr) > 0 {
			if desc, ok := dictOf(ctx, arr[0]); ok {
				programFont = desc
				ref.Subtype = entryName(ctx, desc, "Subtype")
			}
		}
	}

	if descriptor, ok := entryDict(ctx, programFont, "FontDescriptor"); ok {
		switch {
		case hasEntry(descriptor, "FontFile"):
			ref.Embedded = true
			ref.Subtype = "Type1"
		case hasEntry(descriptor, "FontFile2"):
			ref.Embedded = true
			ref.Subtype = "TrueType"
		case hasEntry(descriptor, "FontFile3"):
			ref.Embedded = true
			if ff, ok := entryDict(ctx, descriptor, "FontFile3"); ok {
				if st := entryName(ctx, ff, "Subtype"); st != "" {
					ref.Subtype = st
				}
			}
		}
	}
	if ref.Subtype == "" {
		ref.Subtype = ref.Type
	}
	return ref
}

func hasEntry(d types.Dict, key string) bool {
	o, found := d.Find(key)
	return found && o != nil
}

func fontEncoding(ctx *model.Context, fd types.Dict) string {
	o, found := fd.Find("Encoding")
	if !found {
		return ""
	}
	if n, ok := nameOf(ctx, o); ok {
		return n
	}
	if d, ok := dictOf(ctx, o); ok {
		if base := entryName(ctx, d, "BaseEncoding"); base != "" {
			return base
		}
		return "Custom"
	}
	if _, ok := streamOf(ctx, o); ok {
		return "CMap"
	}
	return ""
}
