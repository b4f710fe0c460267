// Package pub defines the publication document model shared by the crawler,
// the index and the persistence layer.
package pub

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// Document is a single crawled publication record. Documents are immutable
// once stored; a re-crawl of the same source URL replaces the record wholesale
// under the same ID.
type Document struct {
	// ID is the stable hash of the canonical source URL.
	ID string `json:"id"`

	Title string `json:"title"`

	// Authors preserves the order in which authors appear on the page.
	Authors []string `json:"authors"`

	Keywords []string `json:"keywords"`

	// Year is the publication year as shown on the page, or empty when the
	// page carries no recognizable year.
	Year string `json:"year"`

	Abstract string `json:"abstract"`

	// SourceURL is the canonical URL the document was scraped from.
	SourceURL string `json:"source_url"`

	// ProfileURL is the author profile page the document was discovered on.
	ProfileURL string `json:"profile_url"`

	CrawledAt time.Time `json:"crawled_at"`
}

// CanonicalURL normalizes a URL so that trivially different spellings of the
// same page hash to the same identifier: lowercased scheme and host, no
// fragment, no trailing slash, default ports stripped.
func CanonicalURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	// strip default ports
	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}

// HashURL returns the stable identifier for a canonical URL. The hash doubles
// as the visited-set key that guarantees a URL is never fetched twice across
// crawl runs.
func HashURL(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// DocumentID canonicalizes a raw URL and returns its hash identifier.
func DocumentID(rawURL string) (string, error) {
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return "", err
	}
	return HashURL(canonical), nil
}
