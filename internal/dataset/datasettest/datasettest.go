// Package datasettest provides a small IPEDS-shaped fixture for tests.
package datasettest

import (
	"fmt"
	"strings"
	"testing"

	"ipedsviz/internal/dataset"
)

// Circulations is the digital-circulation column of the IPEDS extract.
const Circulations = "Total digital/electronic circulations (books and media)"

// Carnegie is the Carnegie classification column of the IPEDS extract.
const Carnegie = "Carnegie Classification 2010: Basic"

// SampleCSV spans three years and four institutions. Beta's 2020 retention
// rate, Gamma's 2020 circulations and Alpha's 2019 enrollment are missing.
const SampleCSV = `Institution,Year,LAT,LON,State,Retention Rate,Total digital/electronic circulations (books and media),Carnegie Classification 2010: Basic,Enrollment
Alpha College,2018,40.1,-75.2,PA,0.81,1200,Baccalaureate Colleges,1500
Alpha College,2019,40.1,-75.2,PA,0.83,1350,Baccalaureate Colleges,
Alpha College,2020,40.1,-75.2,PA,0.85,1500,Baccalaureate Colleges,1600
Beta University,2018,34.05,-118.25,CA,0.9,5000,Research Universities,30000
Beta University,2019,34.05,-118.25,CA,0.91,5200,Research Universities,31000
Beta University,2020,34.05,-118.25,CA,,5400,Research Universities,32000
Gamma Institute,2019,40.71,-74.0,NY,0.77,800,Master's Colleges,9000
Gamma Institute,2020,40.71,-74.0,NY,0.79,,Master's Colleges,9100
Delta State,2020,30.27,-97.74,TX,0.7,300,Master's Colleges,12000
`

// Sample parses SampleCSV.
func Sample(tb testing.TB) *dataset.Dataset {
	tb.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(SampleCSV))
	if err != nil {
		tb.Fatalf("parse sample: %v", err)
	}
	return ds
}

// WithoutColumn parses SampleCSV with one column removed.
func WithoutColumn(tb testing.TB, name string) *dataset.Dataset {
	tb.Helper()
	lines := strings.Split(strings.TrimSpace(SampleCSV), "\n")
	header := strings.Split(lines[0], ",")
	drop := -1
	for i, h := range header {
		if h == name {
			drop = i
		}
	}
	if drop < 0 {
		tb.Fatalf("no column %q in sample", name)
	}
	var b strings.Builder
	for _, line := range lines {
		cells := strings.Split(line, ",")
		cells = append(cells[:drop:drop], cells[drop+1:]...)
		fmt.Fprintln(&b, strings.Join(cells, ","))
	}
	ds, err := dataset.ReadCSV(strings.NewReader(b.String()))
	if err != nil {
		tb.Fatalf("parse sample without %q: %v", name, err)
	}
	return ds
}
