// Package dataprocessing reads layoff and hiring source files and turns
// them into employment events ready for fusion.
//
// # Architecture
//
// The package has three parts:
//
// 1. Parser: reads CSV source files with header-driven column lookup
// 2. Workbook: reads XLSX workbooks, probing sheets for employment data
// 3. Filter: applies optional company/year/month/industry criteria
//
// # Usage
//
// Basic parsing example:
//
//	events, err := dataprocessing.ParseCSV("layoffs.csv", domain.EventKindLayoff)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Filtering:
//
//	f := dataprocessing.Filter{Years: []int{2023}}
//	recent := f.Apply(events)
//
// Rows with unparseable dates or negative counts are rejected with a
// parsing error; fully blank rows are skipped silently.
package dataprocessing
