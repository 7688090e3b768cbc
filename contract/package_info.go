// Package contract contains the core of the contract test harness: building immutable
// descriptions of HTTP requests, sending them to a configured base endpoint, and evaluating
// declarative expectations against the captured responses.
//
// The general model is:
//
// 1. A RequestSpec describes one HTTP call (method, relative path, headers, optional body).
// Malformed JSON bodies are rejected when the RequestSpec is built, before any I/O.
//
// 2. An Executor sends a RequestSpec to its base endpoint and returns a CapturedResponse,
// which holds the status, headers, raw body, and the parsed JSON body if there was one.
// Transport failures are returned as *NetworkError and are never retried.
//
// 3. Evaluate checks a list of Expectations against a CapturedResponse and returns one
// Verdict per Expectation. Evaluation never stops at the first failure, and a failed
// expectation is a Verdict rather than an error.
//
// Nothing in this package knows about the test runner; the resttests package connects it
// to the framework's test contexts.
package contract
