// Package framework contains the low-level implementation of test run infrastructure
// that is independent of what is being tested.
//
// The general model is that there is a notion of a test context which is similar to Go's
// *testing.T, allowing pieces of test logic to be associated with a test identifier and to
// accumulate success/failure results. Tests can be organized into groups, can be selected
// with regex filters, and can run concurrently. Each test has its own debug log, which the
// TestLogger receives when the test finishes so that it can be shown only when wanted.
//
// The domain-specific code that knows what is being tested provides a test API on top of
// the test context.
package framework
