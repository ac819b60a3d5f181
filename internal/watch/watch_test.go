package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRelevant(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	grades := filepath.Join(dir, "grades")
	os.Mkdir(grades, 0755)
	calendar := filepath.Join(dir, "calendar.xlsx")

	w, err := New([]string{calendar}, []string{grades}, time.Second)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.fs.Close()
	w.Ignore(filepath.Join(grades, "office_Processed.xlsx"))

	cases := map[string]bool{
		calendar:                                       true,
		filepath.Join(dir, "other.xlsx"):               false,
		filepath.Join(grades, "M20.xlsx"):              true,
		filepath.Join(grades, "M20.XLSX"):              true,
		filepath.Join(grades, "~$M20.xlsx"):            false,
		filepath.Join(grades, "notes.txt"):             false,
		filepath.Join(grades, "sub", "x.xlsx"):         false,
		filepath.Join(grades, "office_Processed.xlsx"): false,
	}
	for path, want := range cases {
		if got := w.relevant(path); got != want {
			t.Fatalf("relevant(%s) want=%v got=%v", path, want, got)
		}
	}
}

func TestRunDebouncesChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "M20.xlsx")
	if err := os.WriteFile(file, []byte("v1"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(nil, []string{dir}, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan []string, 4)
	stopped := make(chan error, 1)
	go func() {
		stopped <- w.Run(ctx, func(changed []string) { calls <- changed })
	}()

	os.WriteFile(file, []byte("v2"), 0644)
	os.WriteFile(file, []byte("v3"), 0644)
	os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644)

	select {
	case changed := <-calls:
		if len(changed) != 1 || filepath.Base(changed[0]) != "M20.xlsx" {
			t.Fatalf("unexpected change set %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no rerun after change")
	}

	select {
	case changed := <-calls:
		t.Fatalf("burst produced a second rerun: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop on cancel")
	}
}
