package pub

import "testing"

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "lowercases scheme and host",
			raw:  "HTTPS://Example.COM/en/persons/alice-smith",
			want: "https://example.com/en/persons/alice-smith",
		},
		{
			name: "strips fragment",
			raw:  "https://example.com/publications/42#abstract",
			want: "https://example.com/publications/42",
		},
		{
			name: "strips trailing slash",
			raw:  "https://example.com/publications/42/",
			want: "https://example.com/publications/42",
		},
		{
			name: "strips default https port",
			raw:  "https://example.com:443/publications/42",
			want: "https://example.com/publications/42",
		},
		{
			name: "strips default http port",
			raw:  "http://example.com:80/publications/42",
			want: "http://example.com/publications/42",
		},
		{
			name: "keeps non-default port",
			raw:  "https://example.com:8443/publications/42",
			want: "https://example.com:8443/publications/42",
		},
		{
			name: "trims surrounding whitespace",
			raw:  "  https://example.com/publications/42  ",
			want: "https://example.com/publications/42",
		},
		{
			name: "preserves query string",
			raw:  "https://example.com/publications?page=2",
			want: "https://example.com/publications?page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalURL(tt.raw)
			if err != nil {
				t.Fatalf("CanonicalURL(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDocumentID(t *testing.T) {
	// spellings of the same page must share an identifier
	a, err := DocumentID("HTTPS://Example.com/publications/42/")
	if err != nil {
		t.Fatal(err)
	}
	b, err := DocumentID("https://example.com/publications/42#cite")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("equivalent URLs got different IDs: %q vs %q", a, b)
	}

	c, err := DocumentID("https://example.com/publications/43")
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Error("distinct URLs got the same ID")
	}

	if len(a) != 64 {
		t.Errorf("ID length = %d, want 64 hex chars", len(a))
	}
}
