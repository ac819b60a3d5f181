package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestStoresRoundTrip(t *testing.T) {
	t.Parallel()

	prefs := Preferences{
		GradeFiles:   []string{"/data/M20.xlsx", "/data/MORTAR_1_4.xlsx"},
		OutputFolder: "/data/out",
		CalendarFile: "/data/calendar.xlsx",
	}

	for _, backend := range []string{"json", "toml"} {
		path := filepath.Join(t.TempDir(), "nested", "settings."+backend)
		store, err := Open(backend, path)
		if err != nil {
			t.Fatalf("%s: open: %v", backend, err)
		}
		if err := store.Save(prefs); err != nil {
			t.Fatalf("%s: save: %v", backend, err)
		}
		got, err := store.Load()
		if err != nil {
			t.Fatalf("%s: load: %v", backend, err)
		}
		if !reflect.DeepEqual(got, prefs) {
			t.Fatalf("%s: want=%+v got=%+v", backend, prefs, got)
		}
	}
}

func TestMissingFileLoadsEmpty(t *testing.T) {
	t.Parallel()

	for _, store := range []Store{
		NewJSONStore(filepath.Join(t.TempDir(), "none.json")),
		NewTOMLStore(filepath.Join(t.TempDir(), "none.toml")),
	} {
		prefs, err := store.Load()
		if err != nil {
			t.Fatalf("%s: %v", store.Path(), err)
		}
		if !prefs.IsZero() {
			t.Fatalf("%s: want empty preferences got %+v", store.Path(), prefs)
		}
	}
}

func TestJSONKeepsKeyNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := NewJSONStore(path).Save(Preferences{GradeFiles: []string{"a.xlsx"}, OutputFolder: "out", CalendarFile: "cal.xlsx"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, key := range []string{`"grade_files"`, `"output_path"`, `"calendar_path"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("missing key %s in %s", key, data)
		}
	}
}

func TestCorruptFileIsAnError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewJSONStore(path).Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	if _, err := Open("yaml", "x"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	store, err := Open("toml", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if filepath.Ext(store.Path()) != ".toml" {
		t.Fatalf("default toml store path %q", store.Path())
	}
	if _, ok := store.(*TOMLStore); !ok {
		t.Fatalf("want *TOMLStore got %T", store)
	}
	store, _ = Open("", "")
	if filepath.Base(store.Path()) != DefaultFileName {
		t.Fatalf("default json store path %q", store.Path())
	}
}
