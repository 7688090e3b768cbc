// Package report writes the results of a test run to a spreadsheet.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/launchdarkly/rest-contract-tests/framework"

	"github.com/xuri/excelize/v2"
)

const (
	ResultsSheet = "Results"

	patternType    = "pattern"
	patternValue   = 1
	errorBgColor   = "FF5900"
	warningBgColor = "FFEB9C"
	skipBgColor    = "D9D9D9"

	// SlowTestThreshold is the duration above which a passing test is highlighted.
	SlowTestThreshold = 2 * time.Second
)

var columns = []struct {
	title string
	width float64
}{
	{"Test", 48},
	{"Result", 10},
	{"Duration (ms)", 14},
	{"Details", 100},
}

// RunInfo describes the test run as a whole.
type RunInfo struct {
	ID       string
	BaseURL  string
	Started  time.Time
	Duration time.Duration
}

// Summary is the number of tests with each outcome.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Summarize counts the test outcomes.
func Summarize(results framework.Results) Summary {
	passed, failed, skipped := results.Counts()
	return Summary{Total: len(results.Tests), Passed: passed, Failed: failed, Skipped: skipped}
}

// WriteXLSX writes a spreadsheet with one row for each test, followed by a summary of the run.
// Rows for failed tests are filled red, skipped tests grey, and slow tests yellow.
func WriteXLSX(path string, info RunInfo, results framework.Results) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("could not create sheet: %w", err)
	}

	styles := make(map[string]int)
	for status, color := range map[string]string{"FAIL": errorBgColor, "SKIP": skipBgColor, "SLOW": warningBgColor} {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{color}},
		})
		if err != nil {
			return fmt.Errorf("could not create cell style: %w", err)
		}
		styles[status] = id
	}

	for i, col := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ResultsSheet, name, name, col.width); err != nil {
			return err
		}
		if err := f.SetCellValue(ResultsSheet, cellName(i+1, 1), col.title); err != nil {
			return err
		}
	}

	for i, r := range results.Tests {
		row := i + 2
		values := []interface{}{
			r.TestID.String(),
			r.Status(),
			r.Duration.Milliseconds(),
			details(r),
		}
		for j, v := range values {
			if err := f.SetCellValue(ResultsSheet, cellName(j+1, row), v); err != nil {
				return err
			}
		}
		style, highlighted := styles[r.Status()]
		if !highlighted && r.Duration > SlowTestThreshold {
			style, highlighted = styles["SLOW"]
		}
		if highlighted {
			if err := f.SetCellStyle(ResultsSheet, cellName(1, row), cellName(len(columns), row), style); err != nil {
				return err
			}
		}
	}

	summary := Summarize(results)
	row := len(results.Tests) + 3
	for _, line := range [][2]interface{}{
		{"Run ID", info.ID},
		{"Base URL", info.BaseURL},
		{"Started", info.Started.Format(time.RFC3339)},
		{"Duration (ms)", info.Duration.Milliseconds()},
		{"Total", summary.Total},
		{"Passed", summary.Passed},
		{"Failed", summary.Failed},
		{"Skipped", summary.Skipped},
	} {
		if err := f.SetCellValue(ResultsSheet, cellName(1, row), line[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(ResultsSheet, cellName(2, row), line[1]); err != nil {
			return err
		}
		row++
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create report directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save report to %s: %w", path, err)
	}
	return nil
}

func details(r framework.TestResult) string {
	if r.Skipped {
		return r.SkipReason
	}
	lines := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
