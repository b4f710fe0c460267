package crawler

import (
	"net/url"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustParseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := parseHTML([]byte(html))
	if err != nil {
		t.Fatalf("parseHTML() error = %v", err)
	}
	return doc
}

func baseURL(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://pureportal.example.ac.uk/en/persons/alice-smith")
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestProfileLinks(t *testing.T) {
	doc := mustParseDoc(t, `<html><body>
<a href="/en/persons/beta-author">B</a>
<a href="/en/persons/alpha-author">A</a>
<a href="/en/persons/alpha-author">A again</a>
<a href="https://elsewhere.example.com/en/persons/offsite">offsite</a>
<a href="/en/publications/some-paper">paper</a>
</body></html>`)

	links := profileLinks(doc, baseURL(t))

	want := []string{
		"https://pureportal.example.ac.uk/en/persons/alpha-author",
		"https://pureportal.example.ac.uk/en/persons/beta-author",
	}
	if len(links) != len(want) {
		t.Fatalf("profileLinks() = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("profileLinks()[%d] = %s, want %s", i, links[i], want[i])
		}
	}
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "header h1",
			html: `<div class="header"><h1>Alice Smith</h1></div>`,
			want: "Alice Smith",
		},
		{
			name: "bare h1 fallback",
			html: `<h1>  Bob Jones  </h1>`,
			want: "Bob Jones",
		},
		{
			name: "missing",
			html: `<p>nothing here</p>`,
			want: "Unknown Author",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authorName(mustParseDoc(t, tt.html)); got != tt.want {
				t.Errorf("authorName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublicationSummaries(t *testing.T) {
	doc := mustParseDoc(t, `<div class="list-results">
<div class="result-container">
  <h3 class="title"><a href="/en/publications/paper-one">Paper One</a></h3>
  <span class="authors">Alice Smith, Wei Wong &amp; Priya Patel</span>
  <span class="date">Published 12 Jun 2020</span>
</div>
<div class="result-container">
  <h3 class="title"><a href="/en/publications/paper-two">Paper Two</a></h3>
</div>
<div class="result-container">
  <span class="date">2019</span>
</div>
</div>`)

	base := baseURL(t)
	summaries := publicationSummaries(doc, base, base.String(), "Alice Smith")

	// the titleless container is dropped
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	first := summaries[0]
	if first.Title != "Paper One" {
		t.Errorf("Title = %q, want Paper One", first.Title)
	}
	if first.URL != "https://pureportal.example.ac.uk/en/publications/paper-one" {
		t.Errorf("URL = %q, want resolved publication link", first.URL)
	}
	if first.Year != "2020" {
		t.Errorf("Year = %q, want 2020", first.Year)
	}
	wantAuthors := []string{"Alice Smith", "Wei Wong", "Priya Patel"}
	if len(first.Authors) != len(wantAuthors) {
		t.Fatalf("Authors = %v, want %v", first.Authors, wantAuthors)
	}
	for i := range wantAuthors {
		if first.Authors[i] != wantAuthors[i] {
			t.Errorf("Authors = %v, want %v", first.Authors, wantAuthors)
		}
	}

	// no author line falls back to the profile owner
	second := summaries[1]
	if len(second.Authors) != 1 || second.Authors[0] != "Alice Smith" {
		t.Errorf("fallback Authors = %v, want [Alice Smith]", second.Authors)
	}
	if second.Year != "" {
		t.Errorf("missing year = %q, want empty", second.Year)
	}
}

func TestNextPageLink(t *testing.T) {
	doc := mustParseDoc(t, `<a class="nextLink" href="?page=1">Next</a>`)
	got := nextPageLink(doc, baseURL(t))
	want := "https://pureportal.example.ac.uk/en/persons/alice-smith?page=1"
	if got != want {
		t.Errorf("nextPageLink() = %q, want %q", got, want)
	}

	doc = mustParseDoc(t, `<p>last page</p>`)
	if got := nextPageLink(doc, baseURL(t)); got != "" {
		t.Errorf("nextPageLink() on last page = %q, want empty", got)
	}
}

func TestPublicationDetails(t *testing.T) {
	doc := mustParseDoc(t, `<html><body>
<div class="rendering_researchoutput_abstractportal">
  <div class="textblock">This study examines renewable generation capacity across offshore installations.</div>
</div>
<h3>Keywords</h3>
<ul><li>renewable energy</li><li>offshore wind</li></ul>
<span class="fingerprint-tag">Engineering</span>
<span class="fingerprint-tag">renewable energy</span>
</body></html>`)

	detail := publicationDetails(doc)

	if detail.Abstract == "" {
		t.Fatal("abstract not extracted")
	}
	want := []string{"renewable energy", "offshore wind", "Engineering"}
	if len(detail.Keywords) != len(want) {
		t.Fatalf("Keywords = %v, want %v (fingerprint duplicate dropped)", detail.Keywords, want)
	}
	for i := range want {
		if detail.Keywords[i] != want[i] {
			t.Errorf("Keywords = %v, want %v", detail.Keywords, want)
		}
	}
}

func TestPublicationDetailsRejectsChrome(t *testing.T) {
	doc := mustParseDoc(t, `<div class="abstract">
  <div class="textblock">Accept cookies Privacy policy Terms Login Search Home About Contact</div>
</div>`)

	if detail := publicationDetails(doc); detail.Abstract != "" {
		t.Errorf("chrome text kept as abstract: %q", detail.Abstract)
	}
}

func TestIsBoilerplate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "navigation chrome",
			text: "Home About Search Login Contact Help Cookie Settings Privacy Policy",
			want: true,
		},
		{
			name: "publication prose",
			text: "We evaluate the thermal performance of cooled turbine blades under cyclic load.",
			want: false,
		},
		{
			name: "empty",
			text: "",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBoilerplate(tt.text); got != tt.want {
				t.Errorf("isBoilerplate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
