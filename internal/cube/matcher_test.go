package cube

import (
	"errors"
	"reflect"
	"testing"

	"cubeproc/internal/excel"
	"cubeproc/internal/grade"
)

func TestFindMatchesKeepsWorkbookOrder(t *testing.T) {
	t.Parallel()

	book := newMemBook("D", "A", "C", "B").
		put("D", MarkerRow, MarkerCol, excel.Text("M20")).
		put("A", MarkerRow, MarkerCol, excel.Text("M25")).
		put("C", MarkerRow, MarkerCol, excel.Text("m 20")).
		put("B", MarkerRow, MarkerCol, excel.Text(" M20 "))

	matches, err := FindMatches(book, "M20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"D", "C", "B"}; !reflect.DeepEqual(matches, want) {
		t.Fatalf("want=%v got=%v", want, matches)
	}
}

func TestFindMatchesIgnoresCaseAndSpaces(t *testing.T) {
	t.Parallel()

	book := newMemBook("Cube").put("Cube", MarkerRow, MarkerCol, excel.Text("m 20"))

	matches, _ := FindMatches(book, "M20")
	if len(matches) != 1 || matches[0] != "Cube" {
		t.Fatalf("marker 'm 20' should match M20, got %v", matches)
	}

	mortar := newMemBook("Mortar").put("Mortar", MarkerRow, MarkerCol, excel.Text("1 : 4"))
	if matches, _ := FindMatches(mortar, "1:4"); len(matches) != 1 {
		t.Fatalf("marker '1 : 4' should match 1:4, got %v", matches)
	}
}

func TestFindMatchesNoMatchIsEmpty(t *testing.T) {
	t.Parallel()

	book := newMemBook("A", "B").put("A", MarkerRow, MarkerCol, excel.Text("M25"))

	matches, err := FindMatches(book, "M20")
	if err != nil {
		t.Fatalf("no match must not be an error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("want no matches got %v", matches)
	}
}

func TestFindMatchesSkipsUnreadableSheets(t *testing.T) {
	t.Parallel()

	book := newMemBook("A", "Broken", "B").
		put("A", MarkerRow, MarkerCol, excel.Text("M20")).
		put("B", MarkerRow, MarkerCol, excel.Text("M20"))
	book.broken["Broken"] = true

	matches, err := FindMatches(book, "M20")
	if !errors.Is(err, errBroken) {
		t.Fatalf("want errBroken got %v", err)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(matches, want) {
		t.Fatalf("want=%v got=%v", want, matches)
	}
}

func TestMatchGradeFileAppliesAliases(t *testing.T) {
	t.Parallel()

	book := newMemBook("A", "B", "C").
		put("A", MarkerRow, MarkerCol, excel.Text("M20")).
		put("B", MarkerRow, MarkerCol, excel.Text("m 25")).
		put("C", MarkerRow, MarkerCol, excel.Text("M20"))

	aliases := grade.Aliases{}
	aliases.Set("GRADE25", "M25")
	aliases.Set("TRIAL", "")

	direct, err := MatchGradeFile(book, "/data/M20.xlsx", aliases)
	if err != nil || direct.Resolution != grade.Unchanged {
		t.Fatalf("unexpected direct match: %+v err=%v", direct, err)
	}
	if want := []string{"A", "C"}; !reflect.DeepEqual(direct.Sheets, want) {
		t.Fatalf("want=%v got=%v", want, direct.Sheets)
	}

	aliased, err := MatchGradeFile(book, "/data/Grade_25.xlsx", aliases)
	if err != nil || aliased.Resolution != grade.Aliased || aliased.Target != "M25" {
		t.Fatalf("unexpected aliased match: %+v err=%v", aliased, err)
	}
	if want := []string{"B"}; !reflect.DeepEqual(aliased.Sheets, want) {
		t.Fatalf("want=%v got=%v", want, aliased.Sheets)
	}

	ignored, err := MatchGradeFile(book, "/data/Trial.xlsx", aliases)
	if err != nil || ignored.Resolution != grade.Ignored || len(ignored.Sheets) != 0 {
		t.Fatalf("ignored grade matched sheets: %+v err=%v", ignored, err)
	}
}
