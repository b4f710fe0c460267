// Package fetch provides the HTTP client used by the crawler and the
// classify input path, plus source reading for files and stdin.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// Size limits to prevent memory overload when a page or file is unexpectedly
// large. Publication pages are small; these are generous caps, not targets.
const (
	MaxPageSizeBytes = 10 * 1024 * 1024 // 10MB per fetched page
	MaxFileSizeBytes = 50 * 1024 * 1024 // 50MB for local files and stdin
)

// RequestTimeout caps a single fetch end to end.
const RequestTimeout = 30 * time.Second

// phase timeouts derived from RequestTimeout
var (
	dialTimeout           = RequestTimeout / 6
	tlsTimeout            = RequestTimeout / 6
	responseHeaderTimeout = RequestTimeout / 2
)

// limitedReadCloser wraps an io.ReadCloser to enforce a byte budget.
type limitedReadCloser struct {
	io.ReadCloser
	n      int64
	source string
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.n <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.n {
		p = p[0:l.n]
	}
	n, err = l.ReadCloser.Read(p)
	l.n -= int64(n)
	return
}

// Client is a fetch client with fixed timeouts and a stable User-Agent.
// Safe for concurrent use across fetch workers.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client identifying itself with the given User-Agent.
func NewClient(userAgent string) *Client {
	return &Client{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: RequestTimeout,
			Transport: &http.Transport{
				Dial: (&net.Dialer{
					Timeout: dialTimeout,
				}).Dial,
				TLSHandshakeTimeout:   tlsTimeout,
				ResponseHeaderTimeout: responseHeaderTimeout,
			},
		},
	}
}

// Get fetches a URL and returns the response body and HTTP status code.
// A non-nil error means the request never produced a usable response
// (network failure, cancellation); callers decide how to treat non-200
// statuses.
func (c *Client) Get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching %q: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(&limitedReadCloser{
		ReadCloser: resp.Body,
		n:          MaxPageSizeBytes,
		source:     url,
	})
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading body of %q: %w", url, err)
	}

	return body, resp.StatusCode, nil
}

// GetPage fetches a URL and fails unless the server answered 200 OK.
func (c *Client) GetPage(ctx context.Context, url string) ([]byte, error) {
	body, status, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: unexpected status %d", url, status)
	}
	return body, nil
}

// ReadSource opens a classify input source and returns a size-limited
// reader. Three source kinds are supported:
//   - "-" reads from standard input
//   - "http://" or "https://" URLs are fetched
//   - anything else is treated as a local file path
func (c *Client) ReadSource(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return &limitedReadCloser{
			ReadCloser: os.Stdin,
			n:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		body, err := c.GetPage(ctx, source)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(strings.NewReader(string(body))), nil
	default:
		return openFile(source)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing file %q: %w", path, err)
	}
	if info.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, info.Size(), MaxFileSizeBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %q: %w", path, err)
	}
	return f, nil
}
