// Package gateway talks to the external bd issue tracker on behalf of the
// engine.
//
// The engine never assumes how issues are stored; everything goes through
// the Gateway interface. The production implementation (Client) shells out
// to the bd command-line tool and parses its JSON output. Tests substitute
// counting stubs.
//
// # Location hints
//
// Every operation accepts an optional location hint: the path of a monitored
// directory. When present, the client resolves it to the directory's storage
// artifact (.beads/*.db) and scopes the bd invocation to it with --db. When
// no artifact is found the call proceeds unscoped and bd applies its own
// default resolution.
package gateway

import (
	"context"

	"github.com/steveyegge/beadboard/internal/types"
)

// Gateway defines the three operations the engine needs from the issue
// store. Implementations may shell out, link a library, or speak a network
// protocol; callers must not assume which.
//
// All operations fail with ErrUnavailable, *RejectedError, or
// ErrMalformedResponse rather than panicking.
type Gateway interface {
	// List returns all issues visible at the hinted location.
	// Returned records may be partial (no dependencies).
	List(ctx context.Context, hint string) ([]types.Issue, error)

	// Get fetches one issue's full detail, including its direct blockers.
	Get(ctx context.Context, id string, hint string) (*types.Issue, error)

	// Update applies a single field edit to an issue.
	Update(ctx context.Context, id, field, value string) error
}
