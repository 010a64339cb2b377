// Package dds analyzes the Taylor-Mickel data set of expenditures by
// California's Department of Developmental Services.
package dds

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sartorproj/gocumdiff/dataset"
)

// DataURL locates the Taylor-Mickel data set in Microsoft Excel format.
const DataURL = "http://www.StatLit.org/XLS/2014-Taylor-Mickel-Paradox-Data.xlsx"

// Local names of the downloaded workbook and its converted form.
const (
	XLSXFile = "taylor-mickel.xlsx"
	CSVFile  = "taylor-mickel.csv"
)

// The genders and ethnicities recorded in the data set, which name the
// subpopulations available for comparison.
var (
	Genders     = []string{"Female", "Male"}
	Ethnicities = []string{"Asian", "Black", "Hispanic", "White"}
)

// Records holds the columns of the data set used by the analysis, one entry
// per individual.
type Records struct {
	Ages         []float64
	Expenditures []float64
	Gender       []string
	Ethnicity    []string
}

// Len returns the number of individuals.
func (r *Records) Len() int { return len(r.Ages) }

// Attribute returns the column that a subpopulation name selects on:
// Gender for "Female" and "Male", Ethnicity otherwise.
func (r *Records) Attribute(subpop string) []string {
	for _, g := range Genders {
		if subpop == g {
			return r.Gender
		}
	}
	return r.Ethnicity
}

// IsGender reports whether the subpopulation name is a gender.
func IsGender(subpop string) bool {
	return subpop == "Female" || subpop == "Male"
}

// ValidSubpop reports whether the name is a known gender or ethnicity.
func ValidSubpop(subpop string) bool {
	for _, s := range append(append([]string(nil), Genders...), Ethnicities...) {
		if subpop == s {
			return true
		}
	}
	return false
}

// ValidatePair checks that two subpopulation names can be compared directly:
// a gender against the other gender, or an ethnicity against a distinct
// ethnicity.
func ValidatePair(subpop, subpop2 string) error {
	if !ValidSubpop(subpop) {
		return fmt.Errorf("unknown subpopulation %q", subpop)
	}
	if !ValidSubpop(subpop2) {
		return fmt.Errorf("unknown subpopulation %q", subpop2)
	}
	if IsGender(subpop) != IsGender(subpop2) {
		return fmt.Errorf("cannot compare %q with %q: one is a gender, the other an ethnicity",
			subpop, subpop2)
	}
	if subpop == subpop2 {
		return fmt.Errorf("the two subpopulations must be distinct")
	}
	return nil
}

// EnsureData downloads the workbook into dir if absent and converts it to
// comma-separated values, keeping the workbook; it returns the CSV path.
func EnsureData(dir string, log zerolog.Logger) (string, error) {
	xlsxPath := filepath.Join(dir, XLSXFile)
	if _, err := os.Stat(xlsxPath); os.IsNotExist(err) {
		log.Info().Str("url", DataURL).Msg("downloading Taylor-Mickel data")
		if err := dataset.Download(DataURL, xlsxPath); err != nil {
			return "", fmt.Errorf("downloading Taylor-Mickel data: %w", err)
		}
	}
	csvPath := filepath.Join(dir, CSVFile)
	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		log.Info().Str("file", csvPath).Msg("converting workbook to CSV")
		if err := dataset.ConvertXLSX(xlsxPath, csvPath); err != nil {
			return "", fmt.Errorf("converting Taylor-Mickel data: %w", err)
		}
	}
	return csvPath, nil
}

// Load reads the columns of interest from the converted data set. The value
// "White not Hispanic" is shortened to "White".
func Load(csvPath string) (*Records, error) {
	table, err := dataset.LoadCSV(csvPath, dataset.DefaultCSVOptions())
	if err != nil {
		return nil, err
	}
	ages, err := table.FloatColumn("Age")
	if err != nil {
		return nil, err
	}
	exp, err := table.FloatColumn("Expenditures")
	if err != nil {
		return nil, err
	}
	gender, err := table.StringColumn("Gender")
	if err != nil {
		return nil, err
	}
	ethnicity, err := table.StringColumn("Ethnicity")
	if err != nil {
		return nil, err
	}
	for i, e := range ethnicity {
		if e == "White not Hispanic" {
			ethnicity[i] = "White"
		}
	}
	return &Records{
		Ages:         ages,
		Expenditures: exp,
		Gender:       gender,
		Ethnicity:    ethnicity,
	}, nil
}
