package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegister(t *testing.T) {
	cfg := &Config{}

	if !cfg.Register("/work/api") {
		t.Fatal("first Register() = false")
	}
	if cfg.Register("/work/api") {
		t.Error("duplicate Register() = true")
	}
	if cfg.Register("/work/api/") {
		t.Error("Register() treated trailing slash as a new path")
	}

	if len(cfg.Directories) != 1 {
		t.Fatalf("got %d directories, want 1", len(cfg.Directories))
	}
	if !cfg.Directories[0].Visible {
		t.Error("registered directory not visible by default")
	}
}

func TestComputeDisplayNames(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := &Config{Directories: []DirectoryConfig{
		{Path: "/work/api", Visible: true},
		{Path: filepath.Join(home, "a", "repo"), Visible: true},
		{Path: filepath.Join(home, "b", "repo"), Visible: true},
	}}
	cfg.ComputeDisplayNames()

	if got := cfg.Directories[0].DisplayName; got != "api" {
		t.Errorf("unique base display name = %q, want %q", got, "api")
	}

	sep := string(filepath.Separator)
	wantA := "repo (~" + sep + filepath.Join("a", "repo") + ")"
	wantB := "repo (~" + sep + filepath.Join("b", "repo") + ")"
	if got := cfg.Directories[1].DisplayName; got != wantA {
		t.Errorf("duplicate base display name = %q, want %q", got, wantA)
	}
	if got := cfg.Directories[2].DisplayName; got != wantB {
		t.Errorf("duplicate base display name = %q, want %q", got, wantB)
	}
}

func TestSourceName(t *testing.T) {
	named := DirectoryConfig{Path: "/work/api", DisplayName: "api (~/work/api)"}
	if got := named.SourceName(); got != "api (~/work/api)" {
		t.Errorf("SourceName() = %q, want display name", got)
	}

	unnamed := DirectoryConfig{Path: "/work/api"}
	if got := unnamed.SourceName(); got != "api" {
		t.Errorf("SourceName() without display name = %q, want %q", got, "api")
	}
}

func TestSetVisible(t *testing.T) {
	cfg := &Config{}
	cfg.Register("/work/api")
	cfg.Register("/work/web")

	if !cfg.SetVisible("/work/api", false) {
		t.Fatal("SetVisible() on registered path = false")
	}
	if cfg.SetVisible("/work/unknown", false) {
		t.Error("SetVisible() on unregistered path = true")
	}

	visible := cfg.Visible()
	if len(visible) != 1 || visible[0].Path != "/work/web" {
		t.Errorf("Visible() = %+v, want only /work/web", visible)
	}
}

func TestVisibleKeepsRegistrationOrder(t *testing.T) {
	cfg := &Config{}
	for _, p := range []string{"/w/c", "/w/a", "/w/b"} {
		cfg.Register(p)
	}

	visible := cfg.Visible()
	want := []string{"/w/c", "/w/a", "/w/b"}
	for i, dir := range visible {
		if dir.Path != want[i] {
			t.Fatalf("Visible()[%d] = %q, want %q", i, dir.Path, want[i])
		}
	}
}

func TestLoadFromFallback(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
		if len(cfg.Directories) != 0 || cfg.SidebarCollapsed {
			t.Errorf("missing file did not yield empty default: %+v", cfg)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("{not yaml::"), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg := LoadFrom(path)
		if len(cfg.Directories) != 0 {
			t.Errorf("corrupt file did not yield empty default: %+v", cfg)
		}
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &Config{SidebarCollapsed: true}
	cfg.Register("/work/api")
	cfg.SetVisible("/work/api", false)

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded := LoadFrom(path)
	if !loaded.SidebarCollapsed {
		t.Error("sidebar flag lost in round trip")
	}
	if len(loaded.Directories) != 1 {
		t.Fatalf("got %d directories, want 1", len(loaded.Directories))
	}
	if loaded.Directories[0].Path != "/work/api" || loaded.Directories[0].Visible {
		t.Errorf("directory lost in round trip: %+v", loaded.Directories[0])
	}
}

func TestAbbreviatePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	sep := string(filepath.Separator)
	tests := []struct {
		path string
		want string
	}{
		{filepath.Join(home, "work", "api"), "~" + sep + filepath.Join("work", "api")},
		{home, "~"},
		{"/opt/other", "/opt/other"},
	}

	for _, tt := range tests {
		if got := AbbreviatePath(tt.path); got != tt.want {
			t.Errorf("AbbreviatePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
