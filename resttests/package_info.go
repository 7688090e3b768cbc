// Package resttests contains the REST API contract tests themselves and their supporting API.
//
// Each test sends one request with an Executor from the contract package and checks the
// response against a list of expectations. Tests can be written as Go code using T, or as
// data using Case; the built-in tests for the reqres.in API are data. Test run
// infrastructure that does not know about HTTP, such as filtering and result reporting, is
// in the lower-level framework package.
package resttests
