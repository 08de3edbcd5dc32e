package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchWritesRemoteBytes(t *testing.T) {
	body := []byte("release archive bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		w.Write(body)
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	err := NewDownloader().Fetch(context.Background(), server.URL, destPath)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("destination bytes differ from response body")
	}
}

func TestFetchFollowsRedirectChain(t *testing.T) {
	body := []byte("final response body")

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop1", http.StatusFound)
	})
	mux.HandleFunc("/hop1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop2", http.StatusFound)
	})
	mux.HandleFunc("/hop2", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	})

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	err := NewDownloader().Fetch(context.Background(), server.URL+"/start", destPath)
	if err != nil {
		t.Fatalf("fetch through redirects: %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Error("destination differs from final response body")
	}
}

func TestFetchRedirectCap(t *testing.T) {
	hops := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, fmt.Sprintf("/hop-%d", hops), http.StatusMovedPermanently)
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	err := NewDownloader().Fetch(context.Background(), server.URL, destPath)

	if !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("got %v, want ErrTooManyRedirects", err)
	}
	if fileExists(destPath) {
		t.Error("partial file left behind after redirect cap")
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"not_found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"server_error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			destPath := filepath.Join(t.TempDir(), "archive.zip")
			err := NewDownloader().Fetch(context.Background(), server.URL, destPath)

			var derr *DownloadError
			if !errors.As(err, &derr) {
				t.Fatalf("got %v, want DownloadError", err)
			}
			if derr.StatusCode != tt.statusCode {
				t.Errorf("status code %d, want %d", derr.StatusCode, tt.statusCode)
			}
			if _, statErr := os.Stat(destPath); !os.IsNotExist(statErr) {
				t.Error("partial file left behind after failed download")
			}
		})
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	err := NewDownloader().Fetch(context.Background(), server.URL, destPath)

	var derr *DownloadError
	if !errors.As(err, &derr) {
		t.Fatalf("got %v, want DownloadError", err)
	}
	if fileExists(destPath) {
		t.Error("partial file left behind after network failure")
	}
}

func TestFetchTruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000000")
		w.Write([]byte("short"))
		// Hijack and drop the connection mid-body.
		if hj, ok := w.(http.Hijacker); ok {
			conn, _, _ := hj.Hijack()
			conn.Close()
		}
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	err := NewDownloader().Fetch(context.Background(), server.URL, destPath)

	if err == nil {
		t.Fatal("expected error on truncated body")
	}
	if fileExists(destPath) {
		t.Error("partial file left behind after truncated transfer")
	}
}

func TestFetchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	err := NewDownloader().Fetch(ctx, server.URL, destPath)

	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
	if fileExists(destPath) {
		t.Error("partial file left behind after cancellation")
	}
}

func TestFetchCreatesNestedDirectories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("content"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "1.12.0", "archive.zip")
	if err := NewDownloader().Fetch(context.Background(), server.URL, destPath); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !fileExists(destPath) {
		t.Error("file was not created in nested directory")
	}
}
