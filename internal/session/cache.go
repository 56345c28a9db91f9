package session

import (
	"context"

	"github.com/steveyegge/beadboard/internal/gateway"
	"github.com/steveyegge/beadboard/internal/types"
)

// issueSource records where an issue was first seen: the display name of its
// directory and the location hint to use when re-fetching it.
type issueSource struct {
	directory string
	hint      string
}

// SnapshotCache memoizes full-detail issue fetches for the duration of one
// snapshot (the window between two refreshes).
//
// The first GetIssue for an id performs exactly one gateway fetch, using the
// location hint registered for that id; every later call within the same
// snapshot returns the memoized record. Failed fetches are not cached, so a
// transient failure is retried on the next call. Clear discards everything
// and must run at the start of every refresh so no stale cross-directory
// data survives.
//
// The cache is owned by a Session and is not safe for concurrent use.
type SnapshotCache struct {
	gw      gateway.Gateway
	issues  map[string]*types.Issue
	sources map[string]issueSource
}

// NewSnapshotCache creates an empty cache backed by the given gateway.
func NewSnapshotCache(gw gateway.Gateway) *SnapshotCache {
	return &SnapshotCache{
		gw:      gw,
		issues:  make(map[string]*types.Issue),
		sources: make(map[string]issueSource),
	}
}

// Clear discards all memoized issues and source registrations.
func (c *SnapshotCache) Clear() {
	c.issues = make(map[string]*types.Issue)
	c.sources = make(map[string]issueSource)
}

// RegisterIssueSource records the directory an issue came from so a later
// cache miss fetches it from the right place.
func (c *SnapshotCache) RegisterIssueSource(id, directory, hint string) {
	c.sources[id] = issueSource{directory: directory, hint: hint}
}

// Source returns the registered source directory name for an issue id.
func (c *SnapshotCache) Source(id string) (string, bool) {
	src, ok := c.sources[id]
	return src.directory, ok
}

// GetIssue returns the full detail for an issue, fetching through the
// gateway at most once per snapshot. Callers receive a clone; mutating it
// does not affect the cache.
func (c *SnapshotCache) GetIssue(ctx context.Context, id string) (*types.Issue, error) {
	if cached, ok := c.issues[id]; ok {
		return cached.Clone(), nil
	}

	hint := c.sources[id].hint
	issue, err := c.gw.Get(ctx, id, hint)
	if err != nil {
		return nil, err
	}

	c.issues[id] = issue
	return issue.Clone(), nil
}

// Drop removes one issue's memoized detail, forcing a re-fetch on the next
// GetIssue. The source registration is kept.
func (c *SnapshotCache) Drop(id string) {
	delete(c.issues, id)
}
