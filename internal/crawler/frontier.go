package crawler

import (
	"sync"
)

// pageKind tells the parser which extraction applies to a fetched page.
type pageKind int

const (
	kindSeed pageKind = iota
	kindProfile
	kindListing
	kindPublication
)

func (k pageKind) String() string {
	switch k {
	case kindSeed:
		return "seed"
	case kindProfile:
		return "profile"
	case kindListing:
		return "listing"
	case kindPublication:
		return "publication"
	default:
		return "unknown"
	}
}

// request is one frontier entry awaiting fetch.
type request struct {
	URL   string
	Kind  pageKind
	Depth int

	// Owner carries the profile author name down to listing and
	// publication pages discovered under that profile; Profile is the
	// profile page URL they were discovered from.
	Owner   string
	Profile string

	// Summary is set on publication requests: the listing-page metadata
	// the detail page completes.
	Summary *publicationSummary
}

// frontier holds the BFS queue one level at a time. The current level is
// fully drained before NextLevel exposes the entries enqueued below it,
// which keeps traversal strictly breadth-first and memory bounded by one
// level.
type frontier struct {
	mu      sync.Mutex
	current []request
	next    []request
	depth   int

	// seenRun dedupes enqueues within the run so a URL discovered from
	// two pages enters the frontier once.
	seenRun map[string]struct{}
}

func newFrontier(seed request) *frontier {
	return &frontier{
		current: []request{seed},
		seenRun: map[string]struct{}{seed.URL: {}},
	}
}

// Level returns the entries of the current depth in FIFO order. The
// returned slice is owned by the caller.
func (f *frontier) Level() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	level := f.current
	f.current = nil
	return level
}

// Enqueue adds a request to the next level unless its URL was already
// enqueued this run.
func (f *frontier) Enqueue(req request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.seenRun[req.URL]; dup {
		return
	}
	f.seenRun[req.URL] = struct{}{}
	req.Depth = f.depth + 1
	f.next = append(f.next, req)
}

// NextLevel promotes the accumulated next level to current. It reports
// false when the frontier is exhausted.
func (f *frontier) NextLevel() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.next) == 0 {
		return false
	}
	f.current = f.next
	f.next = nil
	f.depth++
	return true
}

func (f *frontier) Depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.depth
}
