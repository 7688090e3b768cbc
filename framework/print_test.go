package framework

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func TestPrintResultsAllPassed(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	PrintResults(&buf, Results{Tests: []TestResult{{TestID: id("a")}, {TestID: id("b"), Skipped: true}}})
	assert.Equal(t, "1 passed, 0 failed, 1 skipped\n", buf.String())
}

func TestPrintResultsWithFailures(t *testing.T) {
	withoutColor(t)
	failure := TestResult{
		TestID: id("resources", "resource not found"),
		Errors: []error{errors.New("expected status 404 but was 200\nsecond line")},
	}
	var buf bytes.Buffer
	PrintResults(&buf, Results{Tests: []TestResult{{TestID: id("a")}, failure}, Failures: []TestResult{failure}})
	assert.Equal(t, "FAILED TESTS:\n"+
		"  * resources/resource not found\n"+
		"      expected status 404 but was 200\n"+
		"      second line\n"+
		"\n"+
		"1 passed, 1 failed\n", buf.String())
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, RegexFilters{})
	assert.Empty(t, buf.String())

	var f RegexFilters
	require.NoError(t, f.MustNotMatch.Set("delay"))
	PrintFilterDescription(&buf, f)
	assert.Contains(t, buf.String(), `skip any matching "delay"`)
	assert.NotContains(t, buf.String(), "not matching")
}
