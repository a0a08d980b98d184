package analysis

import (
	"testing"
	"time"
)

func TestParseDocumentDate(t *testing.T) {
	ist := time.FixedZone("", 5*3600+30*60)
	pst := time.FixedZone("", -8*3600)
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{in: "D:20240315103000Z", want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), ok: true},
		{in: "D:20240315103000", want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), ok: true},
		{in: "D:20240315", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{in: "D:2024", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{in: "D:20240315103000+05'30'", want: time.Date(2024, 3, 15, 10, 30, 0, 0, ist), ok: true},
		{in: "D:20240315103000-08'00'", want: time.Date(2024, 3, 15, 10, 30, 0, 0, pst), ok: true},
		{in: "  D:20240315103000Z  ", want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), ok: true},
		{in: "2024-03-15T10:30:00Z", want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), ok: true},
		{in: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{in: "D:20241315"},
		{in: "D:20240230"},
		{in: "D:2024XX15"},
		{in: "D:"},
		{in: "D:20240315103000+"},
		{in: "last tuesday"},
		{in: ""},
	}
	for _, tt := range tests {
		got := parseDocumentDate(tt.in)
		if !tt.ok {
			if got != nil {
				t.Errorf("parseDocumentDate(%q) = %v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil || !got.Equal(tt.want) {
			t.Errorf("parseDocumentDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
