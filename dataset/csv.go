package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Table holds the contents of a delimited text file: a header row and the
// data records, all as strings.
type Table struct {
	Header  []string
	Records [][]string
}

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Delimiter rune // Field delimiter (default: ',')
	SkipRows  int  // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{Delimiter: ','}
}

// LoadCSV loads a table from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a table from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.Trim(h, "\""))
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, errors.New("no data rows found in CSV")
	}

	return &Table{Header: header, Records: records}, nil
}

// ColumnIndex returns the index of the named column, or an error when the
// header does not contain it.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header %v", name, t.Header)
}

// FloatColumn extracts the named column as floats. Every record must carry a
// parseable value in that column.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(t.Records))
	for i, record := range t.Records {
		if idx >= len(record) {
			return nil, fmt.Errorf("record %d has no column %d", i, idx)
		}
		raw := strings.TrimSpace(strings.Trim(record[idx], "\""))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("record %d, column %q: %w", i, name, err)
		}
		values[i] = v
	}
	return values, nil
}

// StringColumn extracts the named column as trimmed strings.
func (t *Table) StringColumn(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(t.Records))
	for i, record := range t.Records {
		if idx >= len(record) {
			return nil, fmt.Errorf("record %d has no column %d", i, idx)
		}
		values[i] = strings.TrimSpace(strings.Trim(record[idx], "\""))
	}
	return values, nil
}

// Len returns the number of data records in the table.
func (t *Table) Len() int {
	return len(t.Records)
}
