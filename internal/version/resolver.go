package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTTL is the freshness window of a cached latest-version
	// answer.
	DefaultTTL = time.Hour
	// DefaultLookupTimeout bounds a single index request.
	DefaultLookupTimeout = 30 * time.Second
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "tfwrap/1.0"

	defaultReleasesURL = "https://api.github.com/repos/hashicorp/terraform/releases/latest"
	defaultTagsURL     = "https://api.github.com/repos/hashicorp/terraform/tags"
)

// ErrResolutionFailed signals that neither the release index nor the
// tags index produced a usable version. Callers degrade to the
// no-version-hint path; this error is never fatal to the overall
// command.
var ErrResolutionFailed = errors.New("could not resolve latest terraform version")

// HTTPClient is the minimal client surface, substitutable in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c HTTPClient) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithIndexURLs overrides the release and tags index endpoints.
func WithIndexURLs(releases, tags string) Option {
	return func(r *Resolver) {
		if releases != "" {
			r.releasesURL = releases
		}
		if tags != "" {
			r.tagsURL = tags
		}
	}
}

// WithToken sets the bearer credential attached to index requests.
func WithToken(token string) Option {
	return func(r *Resolver) {
		r.token = token
	}
}

// WithTTL sets the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(r *Resolver) {
		if c != nil {
			r.clock = c
		}
	}
}

// Resolver determines which terraform version to use.
type Resolver struct {
	client      HTTPClient
	releasesURL string
	tagsURL     string
	token       string
	recordPath  string
	ttl         time.Duration
	clock       Clock
}

// NewResolver creates a resolver persisting its freshness record under
// cacheRoot. A GITHUB_TOKEN in the environment is attached to index
// requests to raise rate limits.
func NewResolver(cacheRoot string, opts ...Option) *Resolver {
	r := &Resolver{
		client:      &http.Client{Timeout: DefaultLookupTimeout},
		releasesURL: defaultReleasesURL,
		tagsURL:     defaultTagsURL,
		token:       os.Getenv("GITHUB_TOKEN"),
		recordPath:  filepath.Join(cacheRoot, RecordFilename),
		ttl:         DefaultTTL,
		clock:       RealClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve determines the version string to use. An explicit version is
// returned verbatim with no network call. Otherwise a fresh cached
// record answers directly; a stale or missing record triggers exactly
// one lookup attempt against the release index, falling back to the
// tags index. Both failing yields ErrResolutionFailed.
func (r *Resolver) Resolve(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if rec, ok := readRecord(r.recordPath); ok && rec.Fresh(r.clock.Now(), r.ttl) {
		return rec.Version, nil
	}

	ver, err := r.lookupRelease(ctx)
	if err != nil {
		ver, err = r.lookupTag(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}

	// Persisting the answer is best-effort: a read-only cache dir must
	// not break version resolution.
	_ = writeRecord(r.recordPath, Record{Version: ver, FetchedAt: r.clock.Now()})

	return ver, nil
}

// lookupRelease queries the "latest release" index.
func (r *Resolver) lookupRelease(ctx context.Context) (string, error) {
	body, err := r.get(ctx, r.releasesURL)
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("decode release index: %w", err)
	}

	tag := release.TagName
	if tag == "" {
		tag = release.Name
	}
	if tag == "" {
		return "", fmt.Errorf("release index has no tag name")
	}

	return Normalize(tag), nil
}

// lookupTag queries the tags index and takes the most recent entry.
func (r *Resolver) lookupTag(ctx context.Context) (string, error) {
	body, err := r.get(ctx, r.tagsURL)
	if err != nil {
		return "", err
	}

	var tags []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &tags); err != nil {
		return "", fmt.Errorf("decode tags index: %w", err)
	}
	if len(tags) == 0 || tags[0].Name == "" {
		return "", fmt.Errorf("tags index is empty")
	}

	return Normalize(tags[0].Name), nil
}

func (r *Resolver) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
