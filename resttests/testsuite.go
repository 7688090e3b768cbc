package resttests

import (
	"context"

	"github.com/launchdarkly/rest-contract-tests/contract"
	"github.com/launchdarkly/rest-contract-tests/framework"
)

// SuiteOptions are optional parameters for RunTestSuite.
type SuiteOptions struct {
	// Parallel is the maximum number of cases within one suite that run at the same time.
	// Values below 2 mean the cases run one at a time.
	Parallel int

	// DryRun causes every test to be skipped at the point where it would send a request, so
	// that the IDs of the selected tests can be listed.
	DryRun bool
}

// RunTestSuite runs each of the suites as a group of tests, in order. Cancelling ctx aborts
// any request in progress and skips all the tests that have not started.
func RunTestSuite(
	ctx context.Context,
	executor *contract.Executor,
	suites []Suite,
	options SuiteOptions,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	env := &environment{
		ctx:      ctx,
		executor: executor,
		parallel: options.Parallel,
		dryRun:   options.DryRun,
	}
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, env)
		for _, s := range suites {
			cases := s.Cases
			t.Group(s.Name, func(t *T) {
				t.RunCases(cases)
			})
		}
	})
}

// SelectedTests returns the IDs of the tests that a dry run would have run.
func SelectedTests(results framework.Results) []framework.TestID {
	var ret []framework.TestID
	for _, r := range results.Tests {
		if r.Skipped && r.SkipReason == DryRunReason {
			ret = append(ret, r.TestID)
		}
	}
	return ret
}

// BuiltinSuites returns the contract tests for the reqres.in API.
func BuiltinSuites() []Suite {
	return []Suite{
		{Name: "users", Cases: userCases()},
		{Name: "resources", Cases: resourceCases()},
		{Name: "authentication", Cases: authenticationCases()},
		{Name: "delayed response", Cases: delayedResponseCases()},
	}
}
