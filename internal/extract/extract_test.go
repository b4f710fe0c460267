package extract

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Gas Turbine Advances</title></head>
<body>
<nav><a href="/">Home</a> | <a href="/about">About</a></nav>
<article>
<h1>Advances in Gas Turbine Design</h1>
<p>Modern gas turbines achieve higher efficiency through improved blade cooling.
This article reviews recent developments in turbine design, covering materials,
aerodynamics, and combustion. Experimental results show efficiency gains of up
to four percent across a range of operating conditions and load profiles.</p>
<p>Further work examines the role of additive manufacturing in producing
complex cooling channels that were previously impossible to machine.</p>
</article>
<footer>Copyright 2024. All rights reserved.</footer>
</body>
</html>`

func TestMainText(t *testing.T) {
	text, err := MainText(strings.NewReader(samplePage), nil)
	if err != nil {
		t.Fatalf("MainText() error = %v", err)
	}

	if !strings.Contains(text, "blade cooling") {
		t.Errorf("MainText() missing article body, got: %q", text)
	}
	if strings.Contains(text, "<p>") || strings.Contains(text, "<article>") {
		t.Errorf("MainText() leaked HTML tags: %q", text)
	}
}

func TestSelectorText(t *testing.T) {
	tests := []struct {
		name        string
		selector    string
		wantErr     bool
		wantContain string
	}{
		{
			name:        "matching selector",
			selector:    "article",
			wantErr:     false,
			wantContain: "blade cooling",
		},
		{
			name:     "no match",
			selector: ".does-not-exist",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := SelectorText(strings.NewReader(samplePage), tt.selector)
			if tt.wantErr {
				if err == nil {
					t.Error("SelectorText() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectorText() error = %v", err)
			}
			if !strings.Contains(text, tt.wantContain) {
				t.Errorf("SelectorText() = %q, want substring %q", text, tt.wantContain)
			}
		})
	}
}

func TestHTMLToTextCollapsesWhitespace(t *testing.T) {
	text, err := htmlToText("<p>one</p>\n\n\n<p>two</p>")
	if err != nil {
		t.Fatalf("htmlToText() error = %v", err)
	}
	if strings.Contains(text, "\n\n\n") {
		t.Errorf("htmlToText() left triple newlines: %q", text)
	}
}
