package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scholarseek/scholarseek/internal/fetch"
	"github.com/scholarseek/scholarseek/internal/pub"
)

// memStore is an in-memory Store for crawl tests.
type memStore struct {
	mu      sync.Mutex
	docs    map[string]pub.Document
	visited map[string]struct{}
}

func newMemStore() *memStore {
	return &memStore{
		docs:    make(map[string]pub.Document),
		visited: make(map[string]struct{}),
	}
}

func (s *memStore) VisitedContains(_ context.Context, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.visited[hash]
	return ok, nil
}

func (s *memStore) VisitedAdd(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visited[hash] = struct{}{}
	return nil
}

func (s *memStore) SaveDocuments(_ context.Context, docs []pub.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return nil
}

func (s *memStore) titles() map[string]pub.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	byTitle := make(map[string]pub.Document, len(s.docs))
	for _, d := range s.docs {
		byTitle[d.Title] = d
	}
	return byTitle
}

const publicationPage = `<html><body>
<div class="rendering_researchoutput_abstractportal">
  <div class="textblock">We present a novel approach to %s that improves efficiency in modern installations.</div>
</div>
<h2>Keywords</h2>
<ul><li>%s</li><li>efficiency</li></ul>
<span class="fingerprint-tag">Engineering</span>
</body></html>`

// testSite builds a small portal: a seed page listing three author
// profiles, one profile with a paginated publication list, and detail
// pages per publication. One publication link 404s; one profile is
// blocked by robots.txt.
func testSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /en/persons/secret-person\n")
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
<nav><a href="/about">About</a></nav>
<a href="/en/persons/alice-smith">Alice Smith</a>
<a href="/en/persons/bob-jones">Bob Jones</a>
<a href="/en/persons/secret-person">Secret Person</a>
</body></html>`)
	})

	mux.HandleFunc("/en/persons/alice-smith", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `<html><body>
<div class="header"><h1>Alice Smith</h1></div>
<div class="list-results">
  <div class="result-container">
    <h3 class="title"><a href="/en/publications/wind-farm-layout">Offshore Wind Farm Layout Optimization</a></h3>
    <span class="date">2021</span>
  </div>
</div>
</body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body>
<div class="header"><h1>Alice Smith</h1></div>
<div class="list-results">
  <div class="result-container">
    <h3 class="title"><a href="/en/publications/turbine-cooling">Advances in Gas Turbine Blade Cooling</a></h3>
    <span class="authors">Alice Smith, Wei Wong</span>
    <span class="date">15 Mar 2023</span>
  </div>
</div>
<a class="nextLink" href="/en/persons/alice-smith?page=1">Next</a>
</body></html>`)
	})

	mux.HandleFunc("/en/persons/bob-jones", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
<div class="header"><h1>Bob Jones</h1></div>
<div class="list-results">
  <div class="result-container">
    <h3 class="title"><a href="/en/publications/hospital-study">Hospital Readmission Study</a></h3>
    <span class="date">2022</span>
  </div>
  <div class="result-container">
    <h3 class="title"><a href="/en/publications/missing">Withdrawn Paper</a></h3>
  </div>
</div>
</body></html>`)
	})

	mux.HandleFunc("/en/publications/turbine-cooling", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, publicationPage, "gas turbine blade cooling", "gas turbines")
	})
	mux.HandleFunc("/en/publications/wind-farm-layout", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, publicationPage, "wind farm layout", "wind energy")
	})
	mux.HandleFunc("/en/publications/hospital-study", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, publicationPage, "readmission modelling", "public health")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testCrawler(server *httptest.Server, store Store) *Crawler {
	cfg := Config{
		SeedURL:   server.URL + "/",
		UserAgent: "scholarseek-test",
		Delay:     time.Millisecond,
		Workers:   2,
	}
	return New(cfg, fetch.NewClient(cfg.UserAgent), store, nil)
}

func TestRunCrawlsSite(t *testing.T) {
	server := testSite(t)
	store := newMemStore()

	stats, err := testCrawler(server, store).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.DocumentsStored != 3 {
		t.Errorf("DocumentsStored = %d, want 3", stats.DocumentsStored)
	}
	if stats.ProfilesCrawled != 2 {
		t.Errorf("ProfilesCrawled = %d, want 2", stats.ProfilesCrawled)
	}

	docs := store.titles()
	doc, ok := docs["Advances in Gas Turbine Blade Cooling"]
	if !ok {
		t.Fatal("turbine publication not stored")
	}
	if doc.Year != "2023" {
		t.Errorf("Year = %q, want 2023", doc.Year)
	}
	if len(doc.Authors) != 2 || doc.Authors[0] != "Alice Smith" || doc.Authors[1] != "Wei Wong" {
		t.Errorf("Authors = %v, want [Alice Smith, Wei Wong]", doc.Authors)
	}
	if !strings.Contains(doc.Abstract, "gas turbine blade cooling") {
		t.Errorf("Abstract = %q, want scraped abstract text", doc.Abstract)
	}
	wantKeywords := []string{"gas turbines", "efficiency", "Engineering"}
	if len(doc.Keywords) != len(wantKeywords) {
		t.Fatalf("Keywords = %v, want %v", doc.Keywords, wantKeywords)
	}
	for i, kw := range wantKeywords {
		if doc.Keywords[i] != kw {
			t.Errorf("Keywords = %v, want %v", doc.Keywords, wantKeywords)
		}
	}

	// pagination: the second-page publication was discovered via .nextLink
	if _, ok := docs["Offshore Wind Farm Layout Optimization"]; !ok {
		t.Error("paginated publication not stored")
	}
}

func TestRunSkipsRobotsDisallowed(t *testing.T) {
	server := testSite(t)
	store := newMemStore()

	stats, err := testCrawler(server, store).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	found := false
	for _, skip := range stats.Skipped {
		if strings.Contains(skip.URL, "secret-person") {
			found = true
			if !strings.Contains(skip.Reason, "robots") {
				t.Errorf("skip reason = %q, want robots mention", skip.Reason)
			}
		}
	}
	if !found {
		t.Errorf("no skip record for robots-disallowed profile; skips = %v", stats.Skipped)
	}
}

func TestRunRecordsFetchFailures(t *testing.T) {
	server := testSite(t)
	store := newMemStore()

	stats, err := testCrawler(server, store).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	found := false
	for _, skip := range stats.Skipped {
		if strings.Contains(skip.URL, "/en/publications/missing") {
			found = true
			if !strings.Contains(skip.Reason, "fetch failed") {
				t.Errorf("skip reason = %q, want fetch failure", skip.Reason)
			}
		}
	}
	if !found {
		t.Error("404 publication produced no skip record")
	}

	// the failure did not abort the rest of the traversal
	if stats.DocumentsStored != 3 {
		t.Errorf("DocumentsStored = %d, want 3 despite one failed fetch", stats.DocumentsStored)
	}
}

func TestRunIsIncremental(t *testing.T) {
	server := testSite(t)
	store := newMemStore()
	crawler := testCrawler(server, store)

	first, err := crawler.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.DocumentsStored != 3 {
		t.Fatalf("first run stored %d documents, want 3", first.DocumentsStored)
	}

	second, err := crawler.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.DocumentsStored != 0 {
		t.Errorf("second run stored %d documents, want 0 (visited set persisted)", second.DocumentsStored)
	}

	indexed := 0
	for _, skip := range second.Skipped {
		if skip.Reason == "already indexed" {
			indexed++
		}
	}
	if indexed != 3 {
		t.Errorf("second run marked %d publications already indexed, want 3", indexed)
	}
}

func TestRunCancelled(t *testing.T) {
	server := testSite(t)
	store := newMemStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testCrawler(server, store).Run(ctx); err == nil {
		t.Error("Run() with cancelled context returned nil error")
	}
}

func TestRunBadSeed(t *testing.T) {
	crawler := New(Config{SeedURL: "://not-a-url"}, fetch.NewClient("test"), newMemStore(), nil)
	if _, err := crawler.Run(context.Background()); err == nil {
		t.Error("Run() with invalid seed returned nil error")
	}
}

func TestRunMaxProfiles(t *testing.T) {
	server := testSite(t)
	store := newMemStore()

	cfg := Config{
		SeedURL:     server.URL + "/",
		UserAgent:   "scholarseek-test",
		Delay:       time.Millisecond,
		Workers:     2,
		MaxProfiles: 1,
	}
	stats, err := New(cfg, fetch.NewClient(cfg.UserAgent), store, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.ProfilesCrawled > 1 {
		t.Errorf("ProfilesCrawled = %d, want at most 1", stats.ProfilesCrawled)
	}
}
