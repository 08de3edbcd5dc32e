package version

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// RecordFilename is the name of the freshness cache file under the
// cache root.
const RecordFilename = "latest-version.json"

// Record is the persisted answer of the most recent "latest version"
// lookup. A record older than the TTL is stale: still readable, but it
// must trigger a refresh attempt.
type Record struct {
	Version   string    `json:"version"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Fresh reports whether the record is still inside the freshness
// window at the given instant.
func (r *Record) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.FetchedAt) < ttl
}

// readRecord loads the record at path. Any failure (missing file,
// unreadable, malformed) is reported as no record.
func readRecord(path string) (*Record, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Version == "" {
		return nil, false
	}

	return &rec, true
}

// writeRecord persists the record at path. Callers treat this as
// best-effort; the returned error exists for tests only.
func writeRecord(path string, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
