package gateway

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveStorage(t *testing.T) {
	t.Run("finds db file", func(t *testing.T) {
		dir := t.TempDir()
		storage := filepath.Join(dir, StorageDirName)
		if err := os.MkdirAll(storage, 0o755); err != nil {
			t.Fatal(err)
		}
		dbPath := filepath.Join(storage, "issues.db")
		if err := os.WriteFile(dbPath, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		if got := ResolveStorage(dir); got != dbPath {
			t.Errorf("ResolveStorage() = %q, want %q", got, dbPath)
		}
	})

	t.Run("ignores non-db files", func(t *testing.T) {
		dir := t.TempDir()
		storage := filepath.Join(dir, StorageDirName)
		if err := os.MkdirAll(storage, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(storage, "notes.txt"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		if got := ResolveStorage(dir); got != "" {
			t.Errorf("ResolveStorage() = %q, want empty", got)
		}
	})

	t.Run("missing storage dir", func(t *testing.T) {
		if got := ResolveStorage(t.TempDir()); got != "" {
			t.Errorf("ResolveStorage() = %q, want empty", got)
		}
	})
}

func TestAppendStorageFlag(t *testing.T) {
	dir := t.TempDir()
	storage := filepath.Join(dir, StorageDirName)
	if err := os.MkdirAll(storage, 0o755); err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(storage, "issues.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := appendStorageFlag([]string{"list", "--json"}, dir)
	want := []string{"list", "--json", "--db", dbPath}
	if len(got) != len(want) {
		t.Fatalf("appendStorageFlag() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("appendStorageFlag() = %v, want %v", got, want)
		}
	}

	unhinted := appendStorageFlag([]string{"list", "--json"}, "")
	if len(unhinted) != 2 {
		t.Errorf("empty hint appended flags: %v", unhinted)
	}

	unresolved := appendStorageFlag([]string{"list", "--json"}, t.TempDir())
	if len(unresolved) != 2 {
		t.Errorf("hint without storage appended flags: %v", unresolved)
	}
}

func TestRunClassifiesStartFailure(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "no-such-bd"), 0)

	_, err := c.run(context.Background(), "list", "--json")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("start failure classified as %v, want ErrUnavailable", err)
	}
}

func TestRunClassifiesNonZeroExit(t *testing.T) {
	bin := writeScript(t, "#!/bin/sh\necho 'no issue found: bb-404' >&2\nexit 1\n")
	c := NewClient(bin, 0)

	_, err := c.run(context.Background(), "show", "bb-404", "--json")

	rejected, ok := IsRejected(err)
	if !ok {
		t.Fatalf("non-zero exit classified as %v, want RejectedError", err)
	}
	if rejected.Op != "show" {
		t.Errorf("RejectedError.Op = %q, want %q", rejected.Op, "show")
	}
	if rejected.Diagnostic != "no issue found: bb-404" {
		t.Errorf("RejectedError.Diagnostic = %q", rejected.Diagnostic)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("RejectedError also matched ErrUnavailable")
	}
}

func TestRunClassifiesTimeout(t *testing.T) {
	bin := writeScript(t, "#!/bin/sh\nsleep 5\n")
	c := NewClient(bin, 50*time.Millisecond)

	_, err := c.run(context.Background(), "list", "--json")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("timeout classified as %v, want ErrUnavailable", err)
	}
	if _, ok := IsRejected(err); ok {
		t.Error("timeout classified as RejectedError")
	}
}

func TestListParsesOutput(t *testing.T) {
	bin := writeScript(t, `#!/bin/sh
echo '[{"id":"bb-1","title":"First","status":"open","priority":1},{"id":"bb-2","title":"Second","status":"closed","priority":2}]'
`)
	c := NewClient(bin, 0)

	issues, err := c.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("List() returned %d issues, want 2", len(issues))
	}
	if issues[0].ID != "bb-1" || issues[1].ID != "bb-2" {
		t.Errorf("List() ids = %q, %q", issues[0].ID, issues[1].ID)
	}
}

func TestListMalformedOutput(t *testing.T) {
	bin := writeScript(t, "#!/bin/sh\necho 'Database locked, try again'\n")
	c := NewClient(bin, 0)

	_, err := c.List(context.Background(), "")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("bad JSON classified as %v, want ErrMalformedResponse", err)
	}
}

func TestGetParsesDetail(t *testing.T) {
	bin := writeScript(t, `#!/bin/sh
echo '{"id":"bb-1","title":"First","status":"open","priority":1,"dependencies":[{"id":"bb-2","title":"Second","status":"open"}]}'
`)
	c := NewClient(bin, 0)

	issue, err := c.Get(context.Background(), "bb-1", "")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if issue.ID != "bb-1" {
		t.Errorf("Get() id = %q, want bb-1", issue.ID)
	}
	if len(issue.Dependencies) != 1 || issue.Dependencies[0].ID != "bb-2" {
		t.Errorf("Get() dependencies = %+v", issue.Dependencies)
	}
}

// writeScript drops an executable shell script into a temp dir, standing in
// for the bd binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bd")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}
