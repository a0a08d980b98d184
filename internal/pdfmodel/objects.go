package pdfmodel

import (
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// resolve follows indirect references until a direct object is reached.
func resolve(ctx *model.Context, o types.Object) (types.Object, error) {
	for depth := 0; depth < maxDepth; depth++ {
		indRef, ok := o.(types.IndirectRef)
		if !ok {
			return o, nil
		}
		obj, err := ctx.Dereference(indRef)
		if err != nil {
			return nil, fmt.Errorf("failed to dereference object %d: %w", indRef.ObjectNumber.Value(), err)
		}
		o = obj
	}
	return nil, fmt.Errorf("reference chain too deep")
}

// dictOf resolves o and returns it as a dictionary. Stream dictionaries are
// accepted and their dictionary part returned.
func dictOf(ctx *model.Context, o types.Object) (types.Dict, bool) {
	if o == nil {
		return nil, false
	}
	obj, err := resolve(ctx, o)
	if err != nil {
		return nil, false
	}
	switch v := obj.(type) {
	case types.Dict:
		return v, true
	case types.StreamDict:
		return v.Dict, true
	}
	return nil, false
}

func entryDict(ctx *model.Context, d types.Dict, key string) (types.Dict, bool) {
	o, found := d.Find(key)
	if !found {
		return nil, false
	}
	return dictOf(ctx, o)
}

func streamOf(ctx *model.Context, o types.Object) (types.StreamDict, bool) {
	obj, err := resolve(ctx, o)
	if err != nil {
		return types.StreamDict{}, false
	}
	sd, ok := obj.(types.StreamDict)
	return sd, ok
}

// streamContent returns the decoded bytes of a stream.
func streamContent(sd types.StreamDict) ([]byte, error) {
	if len(sd.Content) == 0 && len(sd.Raw) > 0 {
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("failed to decode stream: %w", err)
		}
	}
	return sd.Content, nil
}

func nameOf(ctx *model.Context, o types.Object) (string, bool) {
	obj, err := resolve(ctx, o)
	if err != nil {
		return "", false
	}
	n, ok := obj.(types.Name)
	return string(n), ok
}

func entryName(ctx *model.Context, d types.Dict, key string) string {
	o, found := d.Find(key)
	if !found {
		return ""
	}
	s, _ := nameOf(ctx, o)
	return s
}

// entryText decodes a text string entry (literal or hex, PDFDocEncoding or
// UTF-16BE).
func entryText(ctx *model.Context, d types.Dict, key string) (string, bool) {
	o, found := d.Find(key)
	if !found {
		return "", false
	}
	obj, err := resolve(ctx, o)
	if err != nil {
		return "", false
	}
	switch v := obj.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		return s, err == nil
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		return s, err == nil
	case types.Name:
		return string(v), true
	}
	return "", false
}

func numberOf(ctx *model.Context, o types.Object) (float64, bool) {
	obj, err := resolve(ctx, o)
	if err != nil {
		return 0, false
	}
	switch v := obj.(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

func entryNumber(ctx *model.Context, d types.Dict, key string) (float64, bool) {
	o, found := d.Find(key)
	if !found {
		return 0, false
	}
	return numberOf(ctx, o)
}

func entryBool(ctx *model.Context, d types.Dict, key string) bool {
	o, found := d.Find(key)
	if !found {
		return false
	}
	obj, err := resolve(ctx, o)
	if err != nil {
		return false
	}
	b, ok := obj.(types.Boolean)
	return ok && bool(b)
}

func arrayOf(ctx *model.Context, o types.Object) (types.Array, bool) {
	obj, err := resolve(ctx, o)
	if err != nil {
		return nil, false
	}
	a, ok := obj.(types.Array)
	return a, ok
}

// sortedKeys returns the keys of d in lexical order so snapshots do not
// depend on map iteration order.
func sortedKeys(d types.Dict) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
