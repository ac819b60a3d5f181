package cube

import (
	"errors"
	"log/slog"
	"testing"

	"cubeproc/internal/excel"
)

func sourceBook(rows int) *memBook {
	book := newMemBook("Sheet1")
	for r := 0; r < rows; r++ {
		row := SourceFirstRow + r
		for i := 0; i < ValuesPerRow; i++ {
			book.put("Sheet1", row, SourceWeightCol+i, excel.Number(float64(100*(r+1)+i)))
			book.put("Sheet1", row, SourceStrengthCol+i, excel.Number(float64(10*(r+1)+i)))
		}
	}
	return book
}

func TestReadSourceRowsStopsAtFirstEmptyKey(t *testing.T) {
	t.Parallel()

	book := sourceBook(3)
	// a filled row below a gap is not read
	book.put("Sheet1", SourceFirstRow+4, SourceKeyCol, excel.Number(1))

	rows, err := ReadSourceRows(book, "Sheet1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("want 3 rows got %d", len(rows))
	}
	if rows[0].Row != 2 || rows[2].Row != 4 {
		t.Fatalf("unexpected row numbers: %d..%d", rows[0].Row, rows[2].Row)
	}
	if rows[1].Weights[5].Data != float64(205) || rows[1].Strengths[0].Data != float64(20) {
		t.Fatalf("unexpected values: %+v", rows[1])
	}
}

func TestReadSourceRowsEmptySheet(t *testing.T) {
	t.Parallel()

	rows, err := ReadSourceRows(newMemBook("Sheet1"), "Sheet1")
	if err != nil || len(rows) != 0 {
		t.Fatalf("want no rows got %d err=%v", len(rows), err)
	}
}

func TestPair(t *testing.T) {
	t.Parallel()

	rows := make([]SourceRow, 3)
	for i := range rows {
		rows[i].Row = i + 2
	}

	cases := []struct {
		name        string
		rows        []SourceRow
		sheets      []string
		wantSheets  []string
		wantDropped int
	}{
		{"equal", rows[:2], []string{"A", "B"}, []string{"A", "B"}, 0},
		{"more sheets", rows[:2], []string{"A", "B", "C"}, []string{"A", "B"}, 0},
		{"more rows", rows, []string{"A", "B"}, []string{"A", "B"}, 1},
		{"no sheets", rows, nil, nil, 3},
		{"no rows", nil, []string{"A"}, nil, 0},
	}
	for _, c := range cases {
		pairs, dropped := Pair(c.rows, c.sheets)
		if dropped != c.wantDropped {
			t.Fatalf("%s: dropped want=%d got=%d", c.name, c.wantDropped, dropped)
		}
		if len(pairs) != len(c.wantSheets) {
			t.Fatalf("%s: pairs want=%d got=%d", c.name, len(c.wantSheets), len(pairs))
		}
		for i, p := range pairs {
			if p.Sheet != c.wantSheets[i] || p.Row.Row != i+2 {
				t.Fatalf("%s: pair %d = row %d -> %s", c.name, i, p.Row.Row, p.Sheet)
			}
		}
	}
}

func TestDistributeWritesOneRowPerSheet(t *testing.T) {
	t.Parallel()

	rows, _ := ReadSourceRows(sourceBook(2), "Sheet1")
	dst := newMemBook("A", "B")
	journal := NewJournal("test", nil)

	written, err := Distribute(dst, rows, []string{"A", "B"}, journal)
	if err != nil || written != 2 {
		t.Fatalf("want 2 rows written got %d err=%v", written, err)
	}

	for i := 0; i < ValuesPerRow; i++ {
		if got := dst.value("A", WeightRow, DestinationFirstCol+i); got.Data != float64(100+i) {
			t.Fatalf("A weight %d got %#v", i, got.Data)
		}
		if got := dst.value("A", StrengthRow, DestinationFirstCol+i); got.Data != float64(10+i) {
			t.Fatalf("A strength %d got %#v", i, got.Data)
		}
		if got := dst.value("B", WeightRow, DestinationFirstCol+i); got.Data != float64(200+i) {
			t.Fatalf("B weight %d got %#v", i, got.Data)
		}
		if got := dst.value("B", StrengthRow, DestinationFirstCol+i); got.Data != float64(20+i) {
			t.Fatalf("B strength %d got %#v", i, got.Data)
		}
	}
	if journal.Count(slog.LevelWarn) != 0 {
		t.Fatalf("unexpected warnings: %v", journal.Events())
	}

	events := journal.Events()
	if len(events) != 2 {
		t.Fatalf("want one event per row got %v", events)
	}
	for i, want := range []string{"A", "B"} {
		if v, _ := attrValue(events[i], "sheet"); v != want {
			t.Fatalf("event %d sheet attr want=%s got=%v", i, want, v)
		}
	}
}

func TestDistributeDropsOverrun(t *testing.T) {
	t.Parallel()

	rows, _ := ReadSourceRows(sourceBook(3), "Sheet1")
	dst := newMemBook("A", "B")
	journal := NewJournal("test", nil)

	written, err := Distribute(dst, rows, []string{"A", "B"}, journal)
	if err != nil || written != 2 {
		t.Fatalf("want 2 rows written got %d err=%v", written, err)
	}
	if dst.writes != 2*2*ValuesPerRow {
		t.Fatalf("sheet revisited: %d cell writes", dst.writes)
	}
	if got := dst.value("A", WeightRow, DestinationFirstCol); got.Data != float64(100) {
		t.Fatalf("sheet A overwritten by a later row: %#v", got.Data)
	}
	if journal.Count(slog.LevelWarn) != 1 {
		t.Fatalf("want one overrun warning, events: %v", journal.Events())
	}
}

func TestDistributeStopsOnWriteFailure(t *testing.T) {
	t.Parallel()

	rows, _ := ReadSourceRows(sourceBook(3), "Sheet1")
	dst := newMemBook("A", "B", "C")
	dst.broken["B"] = true

	written, err := Distribute(dst, rows, []string{"A", "B", "C"}, NewJournal("test", nil))
	if !errors.Is(err, errBroken) {
		t.Fatalf("want errBroken got %v", err)
	}
	if written != 1 {
		t.Fatalf("want 1 row written before failure got %d", written)
	}
	if !dst.value("C", WeightRow, DestinationFirstCol).IsEmpty() {
		t.Fatalf("row written after failure")
	}
}
