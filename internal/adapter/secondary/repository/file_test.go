package repository

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"

	"wpvolume/internal/domain"
)

func newTestRepo(t *testing.T) (domain.SettingsRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	return repo, path
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	repo, _ := newTestRepo(t)
	got, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if want := domain.DefaultSettings(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestSaveLoad(t *testing.T) {
	repo, path := newTestRepo(t)

	want := domain.DefaultSettings()
	want.Step = 0.1
	want.Limit = 1.2
	want.Executable = "flatpak-spawn --host wpctl"
	want.Emoji = false
	want.ThemePath = "/usr/share/icons/bar"
	want.Clicks = map[domain.Button]string{domain.ButtonMiddle: domain.CommandNextSink}
	want.PollInterval = 500 * time.Millisecond
	want.CommandTimeout = 2 * time.Second

	if err := repo.Save(want); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	repo, path := newTestRepo(t)
	if err := os.WriteFile(path, []byte(`{"step": 0.02, "emoji": false}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := domain.DefaultSettings()
	want.Step = 0.02
	want.Emoji = false
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{"step":`},
		{"bad button", `{"clicks": {"9": "mute"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, path := newTestRepo(t)
			if err := os.WriteFile(path, []byte(tc.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := repo.Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewFileRepositoryRequiresPath(t *testing.T) {
	if _, err := NewFileRepository(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSaveLoadEmptyClicks(t *testing.T) {
	repo, path := newTestRepo(t)

	settings := domain.DefaultSettings()
	settings.Clicks = map[domain.Button]string{}
	if err := repo.Save(settings); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Clicks == nil || len(got.Clicks) != 0 {
		t.Fatalf("clicks after round trip: %v", got.Clicks)
	}

	// A null or missing key still restores the default bindings.
	if err := os.WriteFile(path, []byte(`{"clicks": null}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if want := domain.DefaultSettings().Clicks; !reflect.DeepEqual(got.Clicks, want) {
		t.Fatalf("clicks %v, want defaults %v", got.Clicks, want)
	}
}
