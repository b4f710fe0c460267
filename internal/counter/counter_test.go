package counter

import "testing"

func TestWordCounter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "single word", text: "turbine", want: 1},
		{name: "multiple words", text: "gas turbine design review", want: 4},
		{name: "extra whitespace", text: "  gas\n\tturbine  ", want: 2},
	}

	c := wordCounter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCharCounter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "ascii", text: "abc", want: 3},
		{name: "multibyte runes", text: "résumé", want: 6},
	}

	c := charCounter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewUnknownMethod(t *testing.T) {
	if _, err := New(Method(99)); err == nil {
		t.Error("New() expected error for unknown method, got nil")
	}
}

func TestMethodString(t *testing.T) {
	if Tokens.String() != "tokens" || Words.String() != "words" || Characters.String() != "characters" {
		t.Error("Method.String() returned unexpected names")
	}
}
