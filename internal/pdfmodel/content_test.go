package pdfmodel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalkOperators(t *testing.T) {
	content := []byte(`% leading comment
q 1 0 0 1 10 20 cm
BT /F#201 12 Tf (a (nested) \) string) Tj <48656c6c6f> Tj ET
BI /W 2 /H 2 /BPC 8 /CS /G ID ` + "\x00EI\xff\x01" + ` EI
[ 1 2 ] 0 d << /MCID 3 >> BDC EMC
/Im1 Do Q`)

	var got []string
	walkOperators(content, func(op operator) {
		got = append(got, op.name)
	})
	want := []string{"q", "cm", "BT", "Tf", "Tj", "Tj", "ET", "BI", "ID", "EI", "d", "BDC", "EMC", "Do", "Q"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("operators mismatch (-want +got):\n%s", d)
	}
}

func TestOperatorOperands(t *testing.T) {
	var fontName string
	var cm []float64
	walkOperators([]byte("/F#201 12 Tf 2 0 0 3 4 5 cm"), func(op operator) {
		switch op.name {
		case "Tf":
			fontName, _ = op.nameOperand(1)
		case "cm":
			cm, _ = op.numbers(6)
		}
	})
	if fontName != "F 1" {
		t.Errorf("font name = %q, want %q", fontName, "F 1")
	}
	if d := cmp.Diff([]float64{2, 0, 0, 3, 4, 5}, cm); d != "" {
		t.Errorf("cm operands mismatch (-want +got):\n%s", d)
	}
}

func TestMatrixConcat(t *testing.T) {
	scale := matrix{2, 0, 0, 3, 0, 0}
	translate := matrix{1, 0, 0, 1, 10, 20}
	got := scale.concat(translate)
	want := matrix{2, 0, 0, 3, 10, 20}
	if got != want {
		t.Errorf("concat = %v, want %v", got, want)
	}
	if identity.concat(scale) != scale {
		t.Error("identity is not neutral")
	}
}
