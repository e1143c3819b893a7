package text_test

import (
	"testing"

	"oai-harvester/internal/utils/text"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{name: "shorter than limit", input: "año", n: 10, want: "año"},
		{name: "exact limit", input: "año", n: 3, want: "año"},
		{name: "cut on rune boundary", input: "señora", n: 3, want: "señ"},
		{name: "zero keeps all", input: "señora", n: 0, want: "señora"},
		{name: "negative keeps all", input: "señora", n: -1, want: "señora"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.TruncateRunes(tt.input, tt.n); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
		})
	}
}
