package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFromReader(t *testing.T) {
	csv := "Id,Age,Name\n1,21,Alice\n2,35,Bob\n"
	table, err := LoadCSVFromReader(strings.NewReader(csv), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("LoadCSVFromReader: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	ages, err := table.FloatColumn("Age")
	if err != nil {
		t.Fatalf("FloatColumn: %v", err)
	}
	if ages[0] != 21 || ages[1] != 35 {
		t.Errorf("ages = %v", ages)
	}
	names, err := table.StringColumn("Name")
	if err != nil {
		t.Fatalf("StringColumn: %v", err)
	}
	if names[1] != "Bob" {
		t.Errorf("names = %v", names)
	}
	if _, err := table.FloatColumn("Missing"); err == nil {
		t.Error("expected an error for an unknown column")
	}
}

func TestLoadCSVSkipRows(t *testing.T) {
	csv := "junk line\nA,B\n1,2\n"
	opts := DefaultCSVOptions()
	opts.SkipRows = 1
	table, err := LoadCSVFromReader(strings.NewReader(csv), opts)
	if err != nil {
		t.Fatalf("LoadCSVFromReader: %v", err)
	}
	if _, err := table.ColumnIndex("A"); err != nil {
		t.Errorf("header not found after skipping: %v", err)
	}
}

func TestCodebookValidate(t *testing.T) {
	good := Codebook{
		{Name: "a", Start: 1, End: 2},
		{Name: "b", Start: 5, End: 5},
	}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
	overlapping := Codebook{
		{Name: "a", Start: 1, End: 3},
		{Name: "b", Start: 3, End: 4},
	}
	if err := overlapping.Validate(); err == nil {
		t.Error("expected an error for overlapping fields")
	}
	backwards := Codebook{{Name: "a", Start: 4, End: 2}}
	if err := backwards.Validate(); err == nil {
		t.Error("expected an error for a reversed range")
	}
}

func TestLoadFixedWidth(t *testing.T) {
	// Columns: 1-2 id, 4-6 value, 8 flag.
	content := "01 123 1\n02     2\n03 456  \n"
	path := filepath.Join(t.TempDir(), "fixed.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cb := Codebook{
		{Name: "id", Start: 1, End: 2},
		{Name: "value", Start: 4, End: 6},
		{Name: "flag", Start: 8, End: 8},
	}
	ext, err := LoadFixedWidth(path, cb)
	if err != nil {
		t.Fatalf("LoadFixedWidth: %v", err)
	}
	if ext.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ext.Len())
	}
	values, err := ext.Column("value")
	if err != nil {
		t.Fatal(err)
	}
	// Blank fields map to -1.
	want := []float64{123, -1, 456}
	for i := range values {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, values[i], want[i])
		}
	}
	flags, _ := ext.Column("flag")
	if flags[2] != -1 {
		t.Errorf("flags[2] = %v, want -1", flags[2])
	}
}

func TestExtractFilter(t *testing.T) {
	ext := &Extract{
		Codebook: Codebook{{Name: "x", Start: 1, End: 1}},
		Columns:  [][]float64{{1, -1, 3, -1}},
	}
	col, _ := ext.Column("x")
	keep := make([]bool, len(col))
	for i, v := range col {
		keep[i] = v > 0
	}
	ext.Filter(keep)
	if ext.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ext.Len())
	}
	col, _ = ext.Column("x")
	if col[0] != 1 || col[1] != 3 {
		t.Errorf("filtered column = %v", col)
	}
}
