package text

import (
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
)

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want di.Direction
	}{
		{"latin", "hello world", di.DirectionLTR},
		{"arabic", "مرحبا", di.DirectionRTL},
		{"hebrew", "שלום", di.DirectionRTL},
		{"digits", "123", di.DirectionLTR},
		{"empty", "", di.DirectionLTR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectDirection(tt.text); got != tt.want {
				t.Errorf("detectDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectScript(t *testing.T) {
	if got := detectScript([]rune("hello")); got != language.Latin {
		t.Errorf("latin text script = %v", got)
	}
	if got := detectScript([]rune("  hello")); got != language.Latin {
		t.Errorf("leading spaces should be skipped, got %v", got)
	}
	if got := detectScript([]rune("   ")); got != language.Latin {
		t.Errorf("all-space text should default to Latin, got %v", got)
	}
	if got := detectScript([]rune("مرحبا")); got == language.Latin {
		t.Errorf("arabic text resolved to Latin")
	}
}

func TestFixedConversions(t *testing.T) {
	for _, v := range []float64{0, 1, 34, 46.5, 0.25} {
		if got := fixedToFloat(floatToFixed(v)); got != v {
			t.Errorf("round trip of %v = %v", v, got)
		}
	}
}
