// Package crawler implements the breadth-first publication crawler. It
// discovers author profiles from a seed listing page, walks each profile's
// paginated publication list, and deep-scrapes every new publication page
// into a stored document. Traversal drains one BFS level at a time,
// respects robots.txt and a per-host politeness delay, and skips any
// publication whose canonical URL hash is already in the durable visited
// set.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/scholarseek/scholarseek/internal/counter"
	"github.com/scholarseek/scholarseek/internal/fetch"
	"github.com/scholarseek/scholarseek/internal/pub"
)

// Store is the durable persistence boundary the crawler writes through.
type Store interface {
	VisitedContains(ctx context.Context, urlHash string) (bool, error)
	VisitedAdd(ctx context.Context, urlHash string) error
	SaveDocuments(ctx context.Context, docs []pub.Document) error
}

// Config controls one crawl run.
type Config struct {
	SeedURL   string
	UserAgent string

	// Delay is the minimum interval between fetches to the same host.
	Delay time.Duration

	// Workers bounds concurrent fetches across hosts. Fetches to one
	// host are still serialized by the politeness limiter.
	Workers int

	// MaxProfiles caps how many author profiles the seed page yields.
	MaxProfiles int

	// MaxPublicationsPerProfile caps listing entries enqueued per
	// profile across its pagination pages.
	MaxPublicationsPerProfile int

	// MaxAbstractTokens truncates stored abstracts; 0 stores them whole.
	MaxAbstractTokens int
}

const (
	DefaultDelay   = 2 * time.Second
	DefaultWorkers = 4
)

// SkipRecord explains why one URL reached the Skipped terminal state.
type SkipRecord struct {
	URL    string
	Reason string
}

// Stats summarizes a completed (or cancelled) crawl run.
type Stats struct {
	PagesFetched    int
	ProfilesCrawled int
	DocumentsStored int
	Skipped         []SkipRecord
	DeepestLevel    int
}

// Crawler is a reusable BFS crawler bound to a fetch client and a store.
type Crawler struct {
	cfg    Config
	client *fetch.Client
	store  Store
	tokens *counter.TokenCounter
}

// New builds a crawler. tokens may be nil to disable abstract truncation.
func New(cfg Config, client *fetch.Client, store Store, tokens *counter.TokenCounter) *Crawler {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Crawler{cfg: cfg, client: client, store: store, tokens: tokens}
}

// run holds the mutable state of one crawl pass.
type run struct {
	crawler  *Crawler
	robots   *robotsPolicy
	frontier *frontier
	limiters *hostLimiters

	mu         sync.Mutex
	stats      Stats
	perProfile map[string]int
}

// Run executes one full BFS crawl. URL-level failures are recorded and
// skipped; only a bad seed URL or context cancellation abort the run.
// Cancellation mid-run returns the stats accumulated so far: the visited
// set already holds every stored document, so the next run resumes
// without refetching them.
func (c *Crawler) Run(ctx context.Context) (Stats, error) {
	seed, err := url.Parse(c.cfg.SeedURL)
	if err != nil {
		return Stats{}, fmt.Errorf("invalid seed URL %q: %w", c.cfg.SeedURL, err)
	}
	if seed.Host == "" {
		return Stats{}, fmt.Errorf("seed URL %q has no host", c.cfg.SeedURL)
	}

	r := &run{
		crawler:    c,
		robots:     loadRobotsPolicy(ctx, c.client, seed, c.cfg.UserAgent),
		frontier:   newFrontier(request{URL: c.cfg.SeedURL, Kind: kindSeed}),
		limiters:   newHostLimiters(rate.Every(c.cfg.Delay)),
		perProfile: make(map[string]int),
	}

	pool, err := ants.NewPool(c.cfg.Workers)
	if err != nil {
		return Stats{}, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	slog.Info("crawl starting", "seed", c.cfg.SeedURL, "workers", c.cfg.Workers, "delay", c.cfg.Delay)

	for {
		if err := ctx.Err(); err != nil {
			return r.snapshot(), err
		}

		level := r.frontier.Level()
		slog.Debug("draining level", "depth", r.frontier.Depth(), "urls", len(level))

		var wg sync.WaitGroup
		for _, req := range level {
			req := req
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				r.process(ctx, req)
			}); err != nil {
				wg.Done()
				r.skip(req.URL, fmt.Sprintf("worker pool: %v", err))
			}
		}
		wg.Wait()

		if !r.frontier.NextLevel() {
			break
		}
	}

	stats := r.snapshot()
	stats.DeepestLevel = r.frontier.Depth()
	slog.Info("crawl complete",
		"pages", stats.PagesFetched,
		"profiles", stats.ProfilesCrawled,
		"stored", stats.DocumentsStored,
		"skipped", len(stats.Skipped))
	return stats, nil
}

// process drives one URL through Discovered -> Fetched -> Parsed ->
// Stored, or to Skipped with a recorded reason.
func (r *run) process(ctx context.Context, req request) {
	c := r.crawler

	canonical, err := pub.CanonicalURL(req.URL)
	if err != nil {
		r.skip(req.URL, fmt.Sprintf("bad URL: %v", err))
		return
	}
	target, err := url.Parse(canonical)
	if err != nil {
		r.skip(req.URL, fmt.Sprintf("bad URL: %v", err))
		return
	}

	if !r.robots.allows(target) {
		r.skip(req.URL, "disallowed by robots.txt")
		return
	}

	// the durable visited set only tracks stored publications; listing
	// and profile pages are refetched each run so new publications are
	// still discovered
	if req.Kind == kindPublication {
		visited, err := c.store.VisitedContains(ctx, pub.HashURL(canonical))
		if err != nil {
			r.skip(req.URL, fmt.Sprintf("visited lookup: %v", err))
			return
		}
		if visited {
			r.skip(req.URL, "already indexed")
			return
		}
	}

	if err := r.limiters.wait(ctx, target.Host); err != nil {
		r.skip(req.URL, "cancelled before fetch")
		return
	}

	body, err := c.client.GetPage(ctx, req.URL)
	if err != nil {
		r.skip(req.URL, fmt.Sprintf("fetch failed: %v", err))
		return
	}
	r.countFetch()

	doc, err := parseHTML(body)
	if err != nil {
		r.skip(req.URL, fmt.Sprintf("parse failed: %v", err))
		return
	}

	switch req.Kind {
	case kindSeed:
		r.parseSeed(doc, target)
	case kindProfile, kindListing:
		r.parseListing(doc, target, req)
	case kindPublication:
		r.storePublication(ctx, doc, canonical, req)
	}
}

func (r *run) parseSeed(doc *goquery.Document, base *url.URL) {
	links := profileLinks(doc, base)
	if max := r.crawler.cfg.MaxProfiles; max > 0 && len(links) > max {
		links = links[:max]
	}
	slog.Info("profiles discovered", "count", len(links))
	for _, link := range links {
		r.frontier.Enqueue(request{URL: link, Kind: kindProfile})
	}
}

func (r *run) parseListing(doc *goquery.Document, base *url.URL, req request) {
	owner := req.Owner
	profileURL := req.Profile
	if req.Kind == kindProfile {
		owner = authorName(doc)
		profileURL = req.URL
		r.countProfile()
	}

	summaries := publicationSummaries(doc, base, profileURL, owner)
	for i := range summaries {
		if max := r.crawler.cfg.MaxPublicationsPerProfile; max > 0 && r.profileCount(profileURL) >= max {
			break
		}
		s := summaries[i]
		r.addProfileCount(profileURL)
		r.frontier.Enqueue(request{
			URL:     s.URL,
			Kind:    kindPublication,
			Owner:   owner,
			Profile: profileURL,
			Summary: &s,
		})
	}

	// pagination continues one BFS level below the listing page
	if next := nextPageLink(doc, base); next != "" {
		r.frontier.Enqueue(request{
			URL:     next,
			Kind:    kindListing,
			Owner:   owner,
			Profile: profileURL,
		})
	}
}

func (r *run) storePublication(ctx context.Context, doc *goquery.Document, canonical string, req request) {
	c := r.crawler

	detail := publicationDetails(doc)
	abstract := detail.Abstract
	if c.tokens != nil && c.cfg.MaxAbstractTokens > 0 {
		abstract = c.tokens.Truncate(abstract, c.cfg.MaxAbstractTokens)
	}

	summary := req.Summary
	if summary == nil {
		r.skip(req.URL, "publication without listing metadata")
		return
	}

	document := pub.Document{
		ID:         pub.HashURL(canonical),
		Title:      summary.Title,
		Authors:    summary.Authors,
		Keywords:   detail.Keywords,
		Year:       summary.Year,
		Abstract:   abstract,
		SourceURL:  canonical,
		ProfileURL: summary.ProfileURL,
		CrawledAt:  time.Now().UTC(),
	}

	if err := c.store.SaveDocuments(ctx, []pub.Document{document}); err != nil {
		r.skip(req.URL, fmt.Sprintf("store failed: %v", err))
		return
	}
	if err := c.store.VisitedAdd(ctx, document.ID); err != nil {
		r.skip(req.URL, fmt.Sprintf("visited update: %v", err))
		return
	}

	r.countStored()
	slog.Debug("publication stored", "title", document.Title, "url", canonical)
}

func (r *run) skip(url, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Skipped = append(r.stats.Skipped, SkipRecord{URL: url, Reason: reason})
	slog.Debug("url skipped", "url", url, "reason", reason)
}

func (r *run) countFetch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.PagesFetched++
}

func (r *run) countProfile() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.ProfilesCrawled++
}

func (r *run) countStored() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.DocumentsStored++
}

func (r *run) profileCount(profileURL string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perProfile[profileURL]
}

func (r *run) addProfileCount(profileURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perProfile[profileURL]++
}

func (r *run) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.stats
	stats.Skipped = append([]SkipRecord(nil), r.stats.Skipped...)
	return stats
}

// hostLimiters serializes fetches per origin host at the politeness rate.
type hostLimiters struct {
	mu    sync.Mutex
	limit rate.Limit
	hosts map[string]*rate.Limiter
}

func newHostLimiters(limit rate.Limit) *hostLimiters {
	return &hostLimiters{limit: limit, hosts: make(map[string]*rate.Limiter)}
}

func (h *hostLimiters) wait(ctx context.Context, host string) error {
	h.mu.Lock()
	limiter, ok := h.hosts[host]
	if !ok {
		limiter = rate.NewLimiter(h.limit, 1)
		h.hosts[host] = limiter
	}
	h.mu.Unlock()
	return limiter.Wait(ctx)
}
