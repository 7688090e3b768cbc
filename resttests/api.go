package resttests

import (
	"context"
	"strings"

	"github.com/launchdarkly/rest-contract-tests/contract"
	"github.com/launchdarkly/rest-contract-tests/framework"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/require"
)

// DryRunReason is the skip reason for every test that would have sent a request, when the
// suite is run in dry-run mode.
const DryRunReason = "dry run"

// CancelledReason is the skip reason for tests that had not yet sent a request when the
// test run was cancelled.
const CancelledReason = "test run was cancelled"

type environment struct {
	ctx      context.Context
	executor *contract.Executor
	parallel int
	dryRun   bool
}

// T represents a test or subtest in our REST API test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is outside
// of the Go test runner, and with some extra features such as debug logging that are convenient for
// our use case. Those features are provided by our lower-level framework package.
//
// It also provides functionality that is specific to REST API testing: sending requests to the
// API under test, and checking the responses against declarative expectations.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it were
// a *testing.T.
type T struct {
	context *framework.Context
	env     *environment
}

func newTestScope(context *framework.Context, env *environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Group runs a named group of subtests. Unlike Run, the group is never excluded by filters;
// only the tests within it can be.
func (t *T) Group(name string, action func(*T)) {
	t.context.RunGroup(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// ID returns the full name of the test.
func (t *T) ID() framework.TestID {
	return t.context.ID()
}

// Executor returns the Executor that the test uses to send requests.
func (t *T) Executor() *contract.Executor {
	return t.env.executor
}

// Send sends a request and returns the response. Any options are applied to the Executor for
// this request only. If the request cannot be completed, the test fails and exits
// immediately; an HTTP error status is not a failure at this point.
//
// In a dry run, Send skips the test instead of sending anything.
func (t *T) Send(spec contract.RequestSpec, options ...contract.ExecutorOption) contract.CapturedResponse {
	if t.env.dryRun {
		t.context.SkipWithReason(DryRunReason)
	}
	if t.env.ctx.Err() != nil {
		t.context.SkipWithReason(CancelledReason)
	}
	options = append(append([]contract.ExecutorOption(nil), options...), contract.WithLogger(t.context.DebugLogger()))
	executor := t.env.executor.With(options...)
	resp, err := executor.Execute(t.env.ctx, spec)
	require.NoError(t, err, "request failed: %s", spec)
	return resp
}

// Call builds a request and sends it as Send does. If the parameters are not valid, the test
// fails and exits immediately.
func (t *T) Call(
	method contract.Method,
	path string,
	headers map[string]string,
	body ldvalue.OptionalString,
) contract.CapturedResponse {
	spec, err := contract.NewRequestSpec(method, path, headers, body)
	require.NoError(t, err)
	return t.Send(spec)
}

// Expect checks the response against each of the expectations. Every failed expectation is
// reported as a test failure, but the test continues.
func (t *T) Expect(resp contract.CapturedResponse, expectations ...contract.Expectation) []contract.Verdict {
	verdicts := contract.Evaluate(resp, expectations)
	for _, v := range verdicts {
		if v.Passed {
			t.Debug("ok [%s] %s", v.Expectation, v.Message)
			continue
		}
		t.Errorf("%s", describeFailure(v))
	}
	return verdicts
}

// Check sends a request and checks the response. It is a shortcut for Send followed by Expect.
func (t *T) Check(spec contract.RequestSpec, expectations ...contract.Expectation) []contract.Verdict {
	return t.Expect(t.Send(spec), expectations...)
}

// RunCases runs each Case as a subtest. If the test run allows parallel execution, the cases
// may run concurrently.
func (t *T) RunCases(cases []Case) {
	subtests := make([]framework.Subtest, 0, len(cases))
	for _, c := range cases {
		c := c
		subtests = append(subtests, framework.Subtest{
			Name: c.Name,
			Action: func(fc *framework.Context) {
				c.Run(newTestScope(fc, t.env))
			},
		})
	}
	t.context.RunAll(t.env.parallel, subtests)
}

func describeFailure(v contract.Verdict) string {
	kind := string(v.FailureKind())
	if v.Expectation != nil {
		kind += " [" + v.Expectation.String() + "]"
	}
	if strings.Contains(v.Message, "\n") {
		return kind + ":\n" + v.Message
	}
	return kind + ": " + v.Message
}
