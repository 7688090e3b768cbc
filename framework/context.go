package framework

import (
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// FilteredReason is the skip reason reported for tests excluded by the filter.
const FilteredReason = "excluded by filter parameters"

type environment struct {
	results Results
	filter  Filter
	lock    sync.Mutex
}

func (e *environment) addResult(result TestResult, failed bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.results.Tests = append(e.results.Tests, result)
	if failed {
		e.results.Failures = append(e.results.Failures, result)
	}
}

// Context is the state of one test or group of tests. Like *testing.T, it implements the
// interface that testify's assert and require packages expect, so those can be used to
// make assertions within a test; require failures stop the test by panicking, and the
// panic is recovered by whatever called Run.
//
// A Context must only be used from the goroutine that runs its test.
type Context struct {
	env         *environment
	testLogger  TestLogger
	id          TestID
	debugLogger CapturingLogger
	group       bool
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Subtest is a named test action for RunAll.
type Subtest struct {
	Name   string
	Action func(*Context)
}

// Run starts a test run. The action is executed with a root Context, which normally calls
// Run or RunGroup to create the actual tests. Only tests that match the filter are run,
// unless the filter is nil.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{filter: filter}
	c := &Context{env: env, testLogger: testLogger, group: true}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil && !c.skipped {
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.testLogger.TestError(c.id, addError)
			}
		}
		c.finish(started)
	}()

	action(c)
}

func (c *Context) finish(started time.Time) {
	// A group appears in the results only if something went wrong in the group itself.
	if c.group && !c.failed {
		return
	}
	result := TestResult{
		TestID:     c.id,
		Errors:     c.errors,
		Skipped:    c.skipped,
		SkipReason: c.skipReason,
		Duration:   time.Since(started),
	}
	c.env.addResult(result, c.failed)
}

// ID returns the identifier of the test.
func (c *Context) ID() TestID {
	return c.id
}

// Run runs a test with the specified name, as a child of this one. It is skipped if the
// filter for the test run excludes it.
func (c *Context) Run(name string, action func(*Context)) {
	c.runChild(name, action, false, c.testLogger)
}

// RunGroup runs a group of tests with the specified name. The group itself is not subject
// to the filter; the tests within it are.
func (c *Context) RunGroup(name string, action func(*Context)) {
	c.runChild(name, action, true, c.testLogger)
}

// RunAll runs each of the subtests as if by Run. If parallelism is greater than 1, up to
// that many run at once; output for each one is sent to the TestLogger only when that
// subtest has finished, so that output from different tests is not interleaved.
func (c *Context) RunAll(parallelism int, subtests []Subtest) {
	if parallelism <= 1 {
		for _, s := range subtests {
			c.Run(s.Name, s.Action)
		}
		return
	}
	var wg sync.WaitGroup
	var outputLock sync.Mutex
	sem := make(chan struct{}, parallelism)
	for _, s := range subtests {
		s := s
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			buffer := &bufferedTestLogger{}
			c.runChild(s.Name, s.Action, false, buffer)
			outputLock.Lock()
			buffer.replay(c.testLogger)
			outputLock.Unlock()
		}()
	}
	wg.Wait()
}

func (c *Context) runChild(name string, action func(*Context), group bool, testLogger TestLogger) {
	path := make([]string, 0, len(c.id.Path)+1)
	id := TestID{Path: append(append(path, c.id.Path...), name)}

	testLogger.TestStarted(id)
	if !group && c.env.filter != nil && !c.env.filter(id) {
		c.env.addResult(TestResult{TestID: id, Skipped: true, SkipReason: FilteredReason}, false)
		testLogger.TestSkipped(id, FilteredReason)
		return
	}
	c1 := &Context{
		id:         id,
		env:        c.env,
		testLogger: testLogger,
		group:      group,
	}
	c1.run(action)
	if c1.skipped {
		testLogger.TestSkipped(id, c1.skipReason)
	} else if !group || c1.failed {
		testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a test failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := reformatError(fmt.Errorf(format, args...))
	c.errors = append(c.errors, err)
	c.testLogger.TestError(c.id, err)
}

// FailNow stops the test, which is then marked as failed.
func (c *Context) FailNow() {
	panic(c)
}

// Failed returns true if the test has failed so far.
func (c *Context) Failed() bool {
	return c.failed
}

// Skip stops the test, which is then marked as skipped rather than failed.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug adds a line to the test's debug output.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger that writes to the test's debug output.
func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

var (
	testifyLabelRegex        = regexp.MustCompile(`^\t([^\t:]+):\s*\t(.*)$`)
	testifyContinuationRegex = regexp.MustCompile(`^\t\s+\t(.*)$`)
)

// reformatError turns the multi-line failure text that testify generates into something
// shorter, dropping the stack trace and test name that are meaningless in this context.
func reformatError(err error) error {
	s := strings.TrimPrefix(err.Error(), "\n")
	if !strings.HasPrefix(s, "\tError Trace:") {
		return err
	}
	var lines []string
	keep := false
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if m := testifyLabelRegex.FindStringSubmatch(line); m != nil {
			label := strings.TrimSpace(m[1])
			keep = label != "Error Trace" && label != "Test"
			if keep {
				if label == "Error" {
					lines = append(lines, m[2])
				} else {
					lines = append(lines, label+": "+m[2])
				}
			}
			continue
		}
		if m := testifyContinuationRegex.FindStringSubmatch(line); m != nil {
			if keep {
				lines = append(lines, m[1])
			}
			continue
		}
		if keep {
			lines = append(lines, line)
		}
	}
	return errors.New(strings.Join(lines, "\n"))
}
