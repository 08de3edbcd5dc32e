package provision

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout is the HTTP request timeout for archive fetches.
	DefaultTimeout = 5 * time.Minute
	// MaxRedirects caps the redirect chain a fetch will follow.
	MaxRedirects = 10
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "tfwrap/1.0"
)

// Downloader streams release archives to disk. Redirects are followed
// by an explicit bounded loop rather than the client's automatic
// handling, so the chain length is observable and capped.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a new downloader.
func NewDownloader() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// Fetch downloads url to destPath in a single attempt. On success the
// destination holds exactly the remote bytes; on any failure no file
// is left at destPath.
func (d *Downloader) Fetch(ctx context.Context, url, destPath string) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := writeAtomic(destPath, resp.Body, resp.ContentLength); err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	return nil
}

// get issues the request and walks the redirect chain.
func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	for hop := 0; hop <= MaxRedirects; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &DownloadError{URL: url, Err: fmt.Errorf("create request: %w", err)}
		}
		req.Header.Set("User-Agent", d.userAgent)

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, &DownloadError{URL: url, Err: err}
		}

		switch resp.StatusCode {
		case http.StatusMovedPermanently,
			http.StatusFound,
			http.StatusSeeOther,
			http.StatusTemporaryRedirect,
			http.StatusPermanentRedirect:
			loc, err := resp.Location()
			resp.Body.Close()
			if err != nil {
				return nil, &DownloadError{URL: url, Err: fmt.Errorf("redirect without location: %w", err)}
			}
			url = loc.String()
			continue
		}

		return resp, nil
	}

	return nil, &DownloadError{URL: url, Err: ErrTooManyRedirects}
}

// writeAtomic streams body into a temp file next to destPath and
// renames it into place, so a failed transfer leaves nothing behind.
func writeAtomic(destPath string, body io.Reader, size int64) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	data, finish := progress(body, size)
	defer finish()

	if _, err := io.Copy(tmpFile, data); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
