// Package provision makes sure a runnable terraform binary of a given
// version exists locally, downloading and extracting a release archive
// when neither the cache nor the PATH can serve.
//
// # Flow
//
// Ensure walks a linear state machine with no branching back:
//
//  1. Cache check: an already-extracted binary wins immediately.
//  2. PATH probe: a system-installed terraform that answers a trivial
//     diagnostic command wins next; the bare command name is returned
//     and PATH resolution is left to the spawn step.
//  3. Provision: map the host platform to the release naming, reuse an
//     already-downloaded archive in the version's cache directory, or
//     fetch it.
//  4. Extract into the version's cache directory.
//  5. Finalize: verify the runnable entry, drop the archive.
//
// # Failure semantics
//
// A cache miss and a failed PATH probe are ordinary. Download and
// extraction failures are fatal to the current provisioning attempt
// and propagate; nothing here retries automatically. Partial downloads
// never survive (temp file plus rename); a failed extraction may leave
// the version directory partially populated.
//
// # Concurrency
//
// The download-extract transaction for a version is guarded by an
// advisory per-version lock so parallel invocations converge on one
// download. The cache is re-checked after the lock is won.
package provision
