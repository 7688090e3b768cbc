package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
)

// PrintFilterDescription describes the filters, if any, that will cause tests to be skipped.
func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(out)
}

// PrintResults writes a summary of a test run, listing each failed test with its errors.
func PrintResults(out io.Writer, results Results) {
	if !results.OK() {
		failColor.Fprintln(out, "FAILED TESTS:")
		for _, f := range results.Failures {
			fmt.Fprintf(out, "  * %s\n", f.TestID)
			for _, err := range f.Errors {
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintf(out, "      %s\n", line)
				}
			}
		}
		fmt.Fprintln(out)
	}
	passed, failed, skipped := results.Counts()
	passColor.Fprintf(out, "%d passed", passed)
	fmt.Fprint(out, ", ")
	if failed > 0 {
		failColor.Fprintf(out, "%d failed", failed)
	} else {
		fmt.Fprint(out, "0 failed")
	}
	if skipped > 0 {
		fmt.Fprint(out, ", ")
		skipColor.Fprintf(out, "%d skipped", skipped)
	}
	fmt.Fprintln(out)
}
