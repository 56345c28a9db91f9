// Package session owns one aggregation session over the monitored
// directories: the snapshot cache, the aggregated issue list, the
// dependents graph, and the edit state for the currently selected issue.
//
// A Session is deliberately not a process-wide singleton; tests and
// multiple consumers each build their own. It is single-threaded: gateway
// calls block, and no method is safe to call concurrently with another on
// the same Session.
package session

import (
	"context"
	"log"
	"os"

	"github.com/steveyegge/beadboard/internal/gateway"
	"github.com/steveyegge/beadboard/internal/query"
	"github.com/steveyegge/beadboard/internal/registry"
	"github.com/steveyegge/beadboard/internal/types"
)

// Config holds session construction parameters.
type Config struct {
	// Gateway is the issue store backend. Required.
	Gateway gateway.Gateway

	// Registry is the directory registry to aggregate over. Required.
	Registry *registry.Config

	// Logger receives aggregation diagnostics (skipped directories).
	// Defaults to a prefixed stderr logger.
	Logger *log.Logger
}

// Session aggregates issues from all visible directories and serves
// consistent derived views until the next refresh.
type Session struct {
	gw       gateway.Gateway
	registry *registry.Config
	logger   *log.Logger

	cache      *SnapshotCache
	issues     []types.Issue
	dependents map[string][]string

	// skippedDirs counts directories whose list call failed during the
	// last refresh. Failures are deliberately swallowed so one broken
	// source does not block browsing the others.
	skippedDirs int

	selected int

	current  *types.Issue
	modified bool
}

// New creates a Session. The initial state is empty; call Refresh to load.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[session] ", log.LstdFlags)
	}
	return &Session{
		gw:         cfg.Gateway,
		registry:   cfg.Registry,
		logger:     logger,
		cache:      NewSnapshotCache(cfg.Gateway),
		dependents: make(map[string][]string),
		selected:   -1,
	}
}

// Cache exposes the session's snapshot cache.
func (s *Session) Cache() *SnapshotCache {
	return s.cache
}

// Issues returns the aggregated issue list in post-aggregation order.
func (s *Session) Issues() []types.Issue {
	return s.issues
}

// SkippedDirectories reports how many visible directories failed to list
// during the last refresh.
func (s *Session) SkippedDirectories() int {
	return s.skippedDirs
}

// Refresh rebuilds the snapshot: clear the cache, re-list every visible
// directory, register issue sources, and recompute the dependents graph.
// The steps run in that order; there is no partial-refresh mode.
func (s *Session) Refresh(ctx context.Context) {
	s.cache.Clear()
	s.issues = s.listAll(ctx)
	s.registerSources()
	s.computeDependents(ctx)
}

// listAll aggregates issues from every visible directory in registration
// order. A directory whose list call fails is skipped silently (logged
// only); its issues simply do not appear. Every returned issue is stamped
// with the directory's display name.
func (s *Session) listAll(ctx context.Context) []types.Issue {
	s.skippedDirs = 0

	var all []types.Issue
	for _, dir := range s.registry.Visible() {
		issues, err := s.gw.List(ctx, dir.Path)
		if err != nil {
			s.skippedDirs++
			s.logger.Printf("skipping %s: %v", dir.Path, err)
			continue
		}

		name := dir.SourceName()
		for i := range issues {
			issues[i].SourceDirectory = name
		}
		all = append(all, issues...)
	}
	return all
}

// registerSources records, for every aggregated issue, which directory to
// re-fetch it from on a cache miss.
func (s *Session) registerSources() {
	byName := make(map[string]string)
	for _, dir := range s.registry.Visible() {
		byName[dir.SourceName()] = dir.Path
	}

	for _, issue := range s.issues {
		hint := byName[issue.SourceDirectory]
		s.cache.RegisterIssueSource(issue.ID, issue.SourceDirectory, hint)
	}
}

// computeDependents rebuilds the reverse-dependency map from empty. Each
// issue's full detail is fetched through the cache (list records may omit
// dependencies); issues whose fetch fails contribute no edges.
func (s *Session) computeDependents(ctx context.Context) {
	dependents := make(map[string][]string)
	for _, issue := range s.issues {
		full, err := s.cache.GetIssue(ctx, issue.ID)
		if err != nil {
			continue
		}
		for _, dep := range full.Dependencies {
			dependents[dep.ID] = append(dependents[dep.ID], issue.ID)
		}
	}
	s.dependents = dependents
}

// Dependents returns the ids of issues that list the given id as a blocker.
func (s *Session) Dependents(id string) []string {
	return s.dependents[id]
}

// DependentCount returns the number of issues blocked by the given id.
func (s *Session) DependentCount(id string) int {
	return len(s.dependents[id])
}

// BlockerCount returns the number of the issue's dependencies that are not
// closed. A failed detail fetch counts as zero blockers.
func (s *Session) BlockerCount(ctx context.Context, id string) int {
	full, err := s.cache.GetIssue(ctx, id)
	if err != nil {
		return 0
	}
	return full.OpenBlockerCount()
}

// Readiness derives the issue's readiness from its status and its open
// blocker count.
func (s *Session) Readiness(ctx context.Context, issue *types.Issue) types.Readiness {
	switch issue.Status {
	case types.StatusClosed:
		return types.ReadinessClosed
	case types.StatusInProgress:
		return types.ReadinessInProgress
	default:
		return types.ComputeReadiness(issue.Status, s.BlockerCount(ctx, issue.ID))
	}
}

// Rows computes the query pipeline's input in one pass: every aggregated
// issue paired with its readiness and blocker/dependent counts.
func (s *Session) Rows(ctx context.Context) []query.Row {
	rows := make([]query.Row, 0, len(s.issues))
	for i, issue := range s.issues {
		blockers := s.BlockerCount(ctx, issue.ID)
		rows = append(rows, query.Row{
			Issue:      issue,
			Readiness:  types.ComputeReadiness(issue.Status, blockers),
			Blockers:   blockers,
			Dependents: s.DependentCount(issue.ID),
			Index:      i,
		})
	}
	return rows
}

// Select marks the issue at the given post-aggregation index as selected.
// Out-of-range indices deselect.
func (s *Session) Select(index int) {
	if index < 0 || index >= len(s.issues) {
		s.selected = -1
		return
	}
	s.selected = index
}

// Deselect clears the selection.
func (s *Session) Deselect() {
	s.selected = -1
}

// SelectNext advances the selection, clamped to the last issue. With no
// selection it selects the first issue.
func (s *Session) SelectNext() {
	if len(s.issues) == 0 {
		return
	}
	if s.selected < 0 {
		s.selected = 0
		return
	}
	if s.selected < len(s.issues)-1 {
		s.selected++
	}
}

// SelectPrevious moves the selection back, clamped to the first issue.
func (s *Session) SelectPrevious() {
	if len(s.issues) == 0 || s.selected < 0 {
		return
	}
	if s.selected > 0 {
		s.selected--
	}
}

// Selected returns the selected index, or ok=false when nothing is
// selected.
func (s *Session) Selected() (int, bool) {
	if s.selected < 0 {
		return 0, false
	}
	return s.selected, true
}

// IndexOf resolves an issue id to its post-aggregation index, for
// navigating from a blocker or dependent reference. Returns -1 when the id
// is not in the current set.
func (s *Session) IndexOf(id string) int {
	for i, issue := range s.issues {
		if issue.ID == id {
			return i
		}
	}
	return -1
}

// LoadDetail fetches an issue's full detail through the cache and makes it
// the current edit target. On failure the previous detail is cleared and
// the error surfaces to the caller.
func (s *Session) LoadDetail(ctx context.Context, id string) (*types.Issue, error) {
	issue, err := s.cache.GetIssue(ctx, id)
	if err != nil {
		s.current = nil
		s.modified = false
		return nil, err
	}
	s.current = issue
	s.modified = false
	return issue, nil
}

// Current returns the issue being edited, or nil.
func (s *Session) Current() *types.Issue {
	return s.current
}

// MarkModified flags the current issue as locally edited.
func (s *Session) MarkModified() {
	s.modified = true
}

// Modified reports whether the current issue has unsaved edits.
func (s *Session) Modified() bool {
	return s.modified
}
