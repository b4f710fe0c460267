package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/temoto/robotstxt"

	"github.com/scholarseek/scholarseek/internal/fetch"
)

// robotsPolicy answers per-URL fetch permission for one host. A missing
// or unreadable robots.txt means everything is allowed, matching the
// conventional permissive fallback.
type robotsPolicy struct {
	group *robotstxt.Group
}

// loadRobotsPolicy fetches and parses robots.txt for the seed's host.
func loadRobotsPolicy(ctx context.Context, client *fetch.Client, seed *url.URL, userAgent string) *robotsPolicy {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", seed.Scheme, seed.Host)

	body, status, err := client.Get(ctx, robotsURL)
	if err != nil {
		slog.Warn("robots.txt unreachable, assuming allowed", "url", robotsURL, "error", err)
		return &robotsPolicy{}
	}

	robots, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		slog.Warn("robots.txt unparseable, assuming allowed", "url", robotsURL, "error", err)
		return &robotsPolicy{}
	}

	return &robotsPolicy{group: robots.FindGroup(userAgent)}
}

// allows reports whether the policy permits fetching the given URL path.
func (p *robotsPolicy) allows(u *url.URL) bool {
	if p.group == nil {
		return true
	}
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return p.group.Test(path)
}
