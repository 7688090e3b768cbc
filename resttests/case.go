package resttests

import (
	"time"

	"github.com/launchdarkly/rest-contract-tests/contract"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/require"
)

// Case is a test expressed as data: one request, and the expectations for its response.
type Case struct {
	Name    string
	Method  contract.Method
	Path    string
	Headers map[string]string
	Body    ldvalue.OptionalString

	// Timeout overrides the Executor's timeout for this request if it is greater than zero.
	Timeout time.Duration

	Expect []contract.Expectation
}

// Suite is a named group of cases.
type Suite struct {
	Name  string
	Cases []Case
}

// Spec builds the RequestSpec for the case.
func (c Case) Spec() (contract.RequestSpec, error) {
	return contract.NewRequestSpec(c.Method, c.Path, c.Headers, c.Body)
}

// Run runs the case within an existing test. A RequestSpec error, such as an invalid JSON
// body, stops the test before anything is sent.
func (c Case) Run(t *T) {
	spec, err := c.Spec()
	require.NoError(t, err)
	var options []contract.ExecutorOption
	if c.Timeout > 0 {
		options = append(options, contract.WithTimeout(c.Timeout))
	}
	t.Expect(t.Send(spec, options...), c.Expect...)
}

func jsonCase(name string, method contract.Method, path, body string, expect ...contract.Expectation) Case {
	return Case{
		Name:    name,
		Method:  method,
		Path:    path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    ldvalue.NewOptionalString(body),
		Expect:  expect,
	}
}

func getCase(name, path string, expect ...contract.Expectation) Case {
	return Case{Name: name, Method: contract.GET, Path: path, Expect: expect}
}
