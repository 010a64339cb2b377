package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Field describes one variable in a fixed-width record layout: the variable
// name and the 1-based inclusive range of character columns carrying its
// value.
type Field struct {
	Name  string
	Start int
	End   int
}

// Codebook is an ordered fixed-width record layout.
type Codebook []Field

// Validate checks that every field has a sane column range and that the
// fields do not overlap.
func (c Codebook) Validate() error {
	prev := 0
	sorted := append(Codebook(nil), c...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Start < sorted[j-1].Start; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	for _, f := range sorted {
		if f.Start < 1 || f.End < f.Start {
			return fmt.Errorf("field %q has invalid column range %d-%d", f.Name, f.Start, f.End)
		}
		if f.Start <= prev {
			return fmt.Errorf("field %q overlaps the preceding field", f.Name)
		}
		prev = f.End
	}
	return nil
}

// Index returns the position of the named field in the codebook.
func (c Codebook) Index(name string) (int, error) {
	for i, f := range c {
		if f.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("variable %q not in codebook", name)
}

// Extract holds the columns read from a fixed-width file, one slice per
// codebook field, all of the same length.
type Extract struct {
	Codebook Codebook
	Columns  [][]float64
}

// Column returns the values of the named variable.
func (e *Extract) Column(name string) ([]float64, error) {
	i, err := e.Codebook.Index(name)
	if err != nil {
		return nil, err
	}
	return e.Columns[i], nil
}

// Len returns the number of records in the extract.
func (e *Extract) Len() int {
	if len(e.Columns) == 0 {
		return 0
	}
	return len(e.Columns[0])
}

// Filter keeps only the records at the positions where keep is true.
func (e *Extract) Filter(keep []bool) {
	for ci, col := range e.Columns {
		out := col[:0]
		for ri, v := range col {
			if keep[ri] {
				out = append(out, v)
			}
		}
		e.Columns[ci] = out
	}
}

// LoadFixedWidth reads a fixed-width ASCII file according to the codebook.
// Blank fields map to -1, matching the missing-value convention of the
// survey extracts this loader targets.
func LoadFixedWidth(filename string, codebook Codebook) (*Extract, error) {
	if err := codebook.Validate(); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	extract := &Extract{
		Codebook: codebook,
		Columns:  make([][]float64, len(codebook)),
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++
		for fi, f := range codebook {
			var datum string
			if f.Start-1 < len(line) {
				end := f.End
				if end > len(line) {
					end = len(line)
				}
				datum = strings.TrimSpace(line[f.Start-1 : end])
			}
			v := -1.0
			if datum != "" {
				v, err = strconv.ParseFloat(datum, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d, variable %q: %w", lineNum, f.Name, err)
				}
			}
			extract.Columns[fi] = append(extract.Columns[fi], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if extract.Len() == 0 {
		return nil, fmt.Errorf("no records found in %s", filename)
	}

	return extract, nil
}
