package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/steveyegge/beadboard/internal/types"
)

// StorageDirName is the conventional subdirectory holding a directory's
// issue database.
const StorageDirName = ".beads"

// storageExt is the file extension of the storage artifact inside
// StorageDirName.
const storageExt = ".db"

// Client implements Gateway by invoking the bd command-line tool.
//
// Every invocation runs under a timeout so a hung bd process cannot hang
// the engine; a timeout is reported as ErrUnavailable.
type Client struct {
	// Bin is the bd executable name or path.
	Bin string

	// Timeout bounds each bd invocation. Zero means no bound.
	Timeout time.Duration
}

// NewClient creates a Client for the given bd binary.
func NewClient(bin string, timeout time.Duration) *Client {
	if bin == "" {
		bin = "bd"
	}
	return &Client{Bin: bin, Timeout: timeout}
}

// List invokes `bd list --json`, scoped to the hinted location.
func (c *Client) List(ctx context.Context, hint string) ([]types.Issue, error) {
	args := []string{"list", "--json"}
	args = appendStorageFlag(args, hint)

	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var issues []types.Issue
	if err := json.Unmarshal(out, &issues); err != nil {
		return nil, fmt.Errorf("%w: parsing bd list output: %v", ErrMalformedResponse, err)
	}
	return issues, nil
}

// Get invokes `bd show <id> --json`, scoped to the hinted location.
func (c *Client) Get(ctx context.Context, id string, hint string) (*types.Issue, error) {
	args := []string{"show", id, "--json"}
	args = appendStorageFlag(args, hint)

	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var issue types.Issue
	if err := json.Unmarshal(out, &issue); err != nil {
		return nil, fmt.Errorf("%w: parsing bd show output: %v", ErrMalformedResponse, err)
	}
	return &issue, nil
}

// Update invokes `bd update <id> --<field> <value>`. Updates are never
// scoped to a location; bd resolves the issue by id.
func (c *Client) Update(ctx context.Context, id, field, value string) error {
	_, err := c.run(ctx, "update", id, "--"+field, value)
	return err
}

// run executes bd with the given arguments and classifies failures into the
// gateway error kinds.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// A deadline kill shows up as a generic exec failure; check the
		// context first so timeouts report as unavailability.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %s timed out: %v", ErrUnavailable, c.Bin, ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &RejectedError{
				Op:         args[0],
				Diagnostic: strings.TrimSpace(stderr.String()),
			}
		}

		return nil, fmt.Errorf("%w: failed to execute %s: %v", ErrUnavailable, c.Bin, err)
	}

	return stdout.Bytes(), nil
}

// appendStorageFlag resolves a location hint to its storage artifact and
// appends the --db flag when one is found.
func appendStorageFlag(args []string, hint string) []string {
	if hint == "" {
		return args
	}
	if db := ResolveStorage(hint); db != "" {
		args = append(args, "--db", db)
	}
	return args
}

// ResolveStorage locates the storage artifact for a monitored directory:
// the first *.db file inside <dir>/.beads. Returns empty when the directory
// has no artifact, in which case bd falls back to its own resolution.
func ResolveStorage(dir string) string {
	storageDir := filepath.Join(dir, StorageDirName)
	entries, err := os.ReadDir(storageDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == storageExt {
			return filepath.Join(storageDir, entry.Name())
		}
	}
	return ""
}
