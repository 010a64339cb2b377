// Package brfss analyzes the Behavioral Risk Factor Surveillance System of
// the Centers for Disease Control and Prevention.
package brfss

import "github.com/sartorproj/gocumdiff/dataset"

// Names of the variates used by the analysis, as given in the BRFSS codebook
// for the 2022 ASCII data.
const (
	VarWeight      = "Final Weight: Land-line and Cell-phone Data"
	VarBMI         = "Computed Body Mass Index"
	VarWeightKg    = "Computed Weight in Kilograms"
	VarHeightM     = "Computed Height in Meters"
	VarSex         = "Computed Sex Variable"
	VarHeartAttack = "Ever Diagnosed with Heart Attack"
	VarAngina      = "Ever Diagnosed with Angina or Coronary Heart Disease"
	VarStroke      = "Ever Diagnosed with a Stroke"
	VarAsthma      = "Ever Told Had Asthma"
	VarKidney      = "Ever told you have kidney disease?"
	VarCOVID       = "Have you ever been told you tested positive for COVID-19?"
	VarLongCOVID   = "Have a 3 month or longer COVID symptoms?"
	VarCOVIDVax    = "Received At Least One COVID-19 Vaccination"
	VarNoDoctor    = "Could Not Afford to See Doctor"
	VarFoodStamps  = "During the Past 12 Months Have You Received Food Stamps"
	VarDiabetes    = "What type of diabetes do you have?"
	VarMetro       = "Metropolitan Status"
	VarHIVTest     = "Ever Been Tested for HIV Calculated Variable"
)

// DataURL locates the zipped 2022 ASCII data on the CDC's site.
const DataURL = "https://www.cdc.gov/brfss/annual_data/2022/files/LLCP2022ASC.zip"

// ZipMember is the name of the fixed-width data file inside the zip archive.
// The trailing space is part of the name as published.
const ZipMember = "LLCP2022.ASC "

// DataFile is the local name of the decompressed fixed-width data file.
const DataFile = "LLCP2022.txt"

// Codebook returns the column positions of the variates the analysis reads
// from the fixed-width records. Positions are 1-based and inclusive, matching
// the published codebook.
func Codebook() dataset.Codebook {
	return dataset.Codebook{
		{Name: VarNoDoctor, Start: 111, End: 111},
		{Name: VarHeartAttack, Start: 118, End: 118},
		{Name: VarAngina, Start: 119, End: 119},
		{Name: VarStroke, Start: 120, End: 120},
		{Name: VarAsthma, Start: 121, End: 121},
		{Name: VarKidney, Start: 127, End: 127},
		{Name: VarCOVID, Start: 265, End: 265},
		{Name: VarLongCOVID, Start: 266, End: 266},
		{Name: VarDiabetes, Start: 271, End: 271},
		{Name: VarCOVIDVax, Start: 288, End: 288},
		{Name: VarFoodStamps, Start: 365, End: 365},
		{Name: VarMetro, Start: 1402, End: 1402},
		{Name: VarWeight, Start: 1751, End: 1760},
		{Name: VarSex, Start: 1980, End: 1980},
		{Name: VarHeightM, Start: 1990, End: 1992},
		{Name: VarWeightKg, Start: 1993, End: 1997},
		{Name: VarBMI, Start: 1998, End: 2001},
		{Name: VarHIVTest, Start: 2051, End: 2051},
	}
}

// Subpops returns the response variates whose coded values 1 and 2 define
// the subpopulation pairs for the analysis. The kitchen-sink variant covers
// thirteen variates, the default five.
func Subpops(kitchenSink bool) []string {
	if kitchenSink {
		return []string{
			VarHeartAttack,
			VarAngina,
			VarStroke,
			VarAsthma,
			VarKidney,
			VarCOVID,
			VarLongCOVID,
			VarCOVIDVax,
			VarNoDoctor,
			VarFoodStamps,
			VarDiabetes,
			VarMetro,
			VarHIVTest,
		}
	}
	return []string{
		VarHeartAttack,
		VarStroke,
		VarKidney,
		VarNoDoctor,
		VarHIVTest,
	}
}

// PairedVars returns the response variates compared pairwise per individual.
func PairedVars() []string {
	return []string{
		VarHeartAttack,
		VarAngina,
		VarStroke,
		VarKidney,
	}
}
