package fetch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scholarseek/scholarseek/internal/fetch"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name: "ok response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("publication page"))
			},
			wantStatus: http.StatusOK,
			wantBody:   "publication page",
		},
		{
			name: "not found still returns status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("missing"))
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := fetch.NewClient("scholarseek-test/0.1")
			body, status, err := client.Get(context.Background(), server.URL)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("Get() status = %d, want %d", status, tt.wantStatus)
			}
			if string(body) != tt.wantBody {
				t.Errorf("Get() body = %q, want %q", string(body), tt.wantBody)
			}
		})
	}
}

func TestGetSendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := fetch.NewClient("scholarseek/0.1 (+https://example.org)")
	if _, _, err := client.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotUA != "scholarseek/0.1 (+https://example.org)" {
		t.Errorf("User-Agent = %q, want configured value", gotUA)
	}
}

func TestGetPageRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := fetch.NewClient("scholarseek-test/0.1")
	if _, err := client.GetPage(context.Background(), server.URL); err == nil {
		t.Error("GetPage() expected error for 503 response, got nil")
	}
}

func TestGetCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("never read"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := fetch.NewClient("scholarseek-test/0.1")
	if _, _, err := client.Get(ctx, server.URL); err == nil {
		t.Error("Get() expected error for cancelled context, got nil")
	}
}

func TestReadSource(t *testing.T) {
	client := fetch.NewClient("scholarseek-test/0.1")

	t.Run("local file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "input.txt")
		if err := os.WriteFile(path, []byte("hospital CEO merger"), 0o600); err != nil {
			t.Fatal(err)
		}

		rc, err := client.ReadSource(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadSource() error = %v", err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading source: %v", err)
		}
		if string(data) != "hospital CEO merger" {
			t.Errorf("ReadSource() = %q, want file contents", string(data))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := client.ReadSource(context.Background(), "/nonexistent/path.txt"); err == nil {
			t.Error("ReadSource() expected error for missing file, got nil")
		}
	})

	t.Run("http url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("remote text"))
		}))
		defer server.Close()

		rc, err := client.ReadSource(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("ReadSource() error = %v", err)
		}
		defer rc.Close()

		data, _ := io.ReadAll(rc)
		if !strings.Contains(string(data), "remote text") {
			t.Errorf("ReadSource() = %q, want remote body", string(data))
		}
	})
}
