// Package types defines core data structures for the beadboard engine.
package types

// Issue represents a trackable work item as returned by the bd CLI.
// Timestamps are kept as opaque strings: the engine only displays them and
// compares them lexically, it never parses them.
type Issue struct {
	// ===== Core Identification =====
	ID string `json:"id"`

	// ===== Issue Content =====
	Title       string `json:"title"`
	Description string `json:"description"`
	Notes       string `json:"notes,omitempty"`

	// ===== Status & Workflow =====
	Status    Status `json:"status"`
	Priority  int    `json:"priority"` // 0-4, lower is more urgent
	IssueType string `json:"issue_type"`

	// ===== Assignment =====
	Assignee string `json:"assignee,omitempty"`

	// ===== Timestamps =====
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	// ===== Relational Data =====
	// Dependencies are this issue's blockers. The list command may return
	// partial records without dependencies; only a full-detail fetch is
	// guaranteed to populate them.
	Dependencies []BlockerRef `json:"dependencies,omitempty"`

	// SourceDirectory is the display name of the directory this issue was
	// loaded from. Stamped by the aggregation step, not part of the record
	// the gateway returns.
	SourceDirectory string `json:"source_directory,omitempty"`
}

// BlockerRef is an abbreviated reference to a blocking issue as embedded in
// another issue's dependency list. It carries only what the engine needs for
// display and readiness computation; it never nests further dependencies.
type BlockerRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// Status represents the current state of an issue. The store may define
// values beyond the built-in constants; the engine treats those opaquely
// and only compares against the three it knows.
type Status string

// Statuses the engine recognizes. Anything else is treated like open for
// readiness purposes.
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// IsClosed reports whether the status is the terminal closed state.
func (s Status) IsClosed() bool {
	return s == StatusClosed
}

// EditableStatuses lists the status values offered by editing surfaces.
// The store may hold others; those round-trip untouched.
func EditableStatuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusClosed}
}

// OpenBlockerCount returns the number of dependencies whose status is not
// closed. Only meaningful on a full-detail record.
func (i *Issue) OpenBlockerCount() int {
	count := 0
	for _, dep := range i.Dependencies {
		if !dep.Status.IsClosed() {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the issue. Cached records are cloned before
// being handed to callers so edits never mutate the snapshot cache.
func (i *Issue) Clone() *Issue {
	out := *i
	if i.Dependencies != nil {
		out.Dependencies = make([]BlockerRef, len(i.Dependencies))
		copy(out.Dependencies, i.Dependencies)
	}
	return &out
}
