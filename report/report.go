// Package report writes summary metrics files for the analyses.
//
// A metrics file lists each entry as the key followed by " =" on one line
// and the value, formatted to four significant digits, on the next:
//
//	Kuiper's statistic / lenscale =
//	3.061
//	Kuiper's p-value =
//	1.062e-05
//
// Entries keep the order in which they were added.
package report

import (
	"fmt"
	"os"
	"strings"
)

// Metrics is an ordered collection of named values destined for a
// metrics.txt file.
type Metrics struct {
	keys   []string
	values map[string]string
}

// NewMetrics returns an empty collection.
func NewMetrics() *Metrics {
	return &Metrics{values: make(map[string]string)}
}

// Add records a scalar value under the given key. Adding an existing key
// overwrites its value but keeps its original position.
func (m *Metrics) Add(key string, value float64) {
	m.set(key, formatValue(value))
}

// AddInt records an integer value under the given key.
func (m *Metrics) AddInt(key string, value int) {
	m.set(key, fmt.Sprintf("%d", value))
}

// AddPair records a two-element tuple under the given key.
func (m *Metrics) AddPair(key string, a, b float64) {
	m.set(key, "("+formatValue(a)+", "+formatValue(b)+")")
}

// AddString records a pre-formatted value under the given key.
func (m *Metrics) AddString(key, value string) {
	m.set(key, value)
}

func (m *Metrics) set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Len reports the number of entries.
func (m *Metrics) Len() int { return len(m.keys) }

// Get returns the formatted value stored under key, if any.
func (m *Metrics) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// String renders the collection in the metrics file format.
func (m *Metrics) String() string {
	var b strings.Builder
	for _, k := range m.keys {
		b.WriteString(k)
		b.WriteString(" =\n")
		b.WriteString(m.values[k])
		b.WriteString("\n")
	}
	return b.String()
}

// Write saves the collection to filename, replacing any existing file.
func (m *Metrics) Write(filename string) error {
	return os.WriteFile(filename, []byte(m.String()), 0o644)
}

// formatValue renders v to four significant digits, keeping integral values
// free of a trailing exponent where possible.
func formatValue(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
