package normalize

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := New(DefaultOptions())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "   \n\t  ",
			want: []string{},
		},
		{
			name: "stopwords and plural lemma",
			text: "The Gas Turbines are running efficiently.",
			want: []string{"gas", "turbine", "running", "efficiently"},
		},
		{
			name: "punctuation boundaries",
			text: "deep-learning, neural/networks!",
			want: []string{"deep", "learning", "neural", "network"},
		},
		{
			name: "url masked out",
			text: "see https://example.com/paper for details",
			want: []string{"see", "details"},
		},
		{
			name: "email masked out",
			text: "contact author@example.edu today",
			want: []string{"contact", "today"},
		},
		{
			name: "single characters dropped",
			text: "a b c gas",
			want: []string{"gas"},
		},
		{
			name: "irregular plural",
			text: "comparative analyses of hypotheses",
			want: []string{"comparative", "analysis", "hypothesis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := New(DefaultOptions())
	text := "Advances in Gas Turbine Design for hospital systems"

	first := n.Normalize(text)
	second := n.Normalize(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize() not deterministic: %v vs %v", first, second)
	}
}

func TestSteps(t *testing.T) {
	n := New(DefaultOptions())
	steps := n.Steps("The Gas Turbines are running efficiently.")

	wantNames := []string{"original", "lowercased", "tokenized", "lemmatized"}
	if len(steps) != len(wantNames) {
		t.Fatalf("Steps() returned %d stages, want %d", len(steps), len(wantNames))
	}
	for i, name := range wantNames {
		if steps[i].Name != name {
			t.Errorf("Steps()[%d].Name = %q, want %q", i, steps[i].Name, name)
		}
	}

	if steps[0].Output != "The Gas Turbines are running efficiently." {
		t.Errorf("original stage altered the input: %q", steps[0].Output)
	}
	if steps[2].Output != "gas turbines running efficiently" {
		t.Errorf("tokenized stage = %q, want %q", steps[2].Output, "gas turbines running efficiently")
	}
	if steps[3].Output != "gas turbine running efficiently" {
		t.Errorf("lemmatized stage = %q, want %q", steps[3].Output, "gas turbine running efficiently")
	}
}

func TestOptionsDisabled(t *testing.T) {
	n := New(Options{Lowercase: true})

	// stop-words and inflections survive when removal/lemmatization are off
	got := n.Normalize("The Turbines")
	want := []string{"the", "turbines"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() with minimal options = %v, want %v", got, want)
	}
}
