package contract

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ExpectationKind identifies the variant of an Expectation.
type ExpectationKind string

const (
	StatusKind       ExpectationKind = "status"
	JSONFieldKind    ExpectationKind = "json-field"
	BodyKind         ExpectationKind = "body"
	BodyNonEmptyKind ExpectationKind = "body-non-empty"
	BodyContainsKind ExpectationKind = "body-contains"
	HeaderKind       ExpectationKind = "header"
)

// maxBodyInMessage is how much of a response body is quoted in a failure message.
const maxBodyInMessage = 300

// Expectation is a single declarative check against a CapturedResponse. The only
// implementations are the ones returned by the constructors in this package.
type Expectation interface {
	Kind() ExpectationKind
	String() string
	evaluate(r CapturedResponse) (passed bool, message string)
}

type statusEquals struct {
	status int
}

// StatusEquals expects the response to have the specified status code.
func StatusEquals(status int) Expectation { return statusEquals{status} }

func (e statusEquals) Kind() ExpectationKind { return StatusKind }

func (e statusEquals) String() string { return fmt.Sprintf("status == %d", e.status) }

func (e statusEquals) evaluate(r CapturedResponse) (bool, string) {
	if r.StatusCode != e.status {
		return false, fmt.Sprintf("expected status %d but was %d", e.status, r.StatusCode)
	}
	return true, fmt.Sprintf("status was %d", r.StatusCode)
}

type jsonFieldEquals struct {
	expr     string
	path     Path
	pathErr  error
	expected ldvalue.Value
}

// JSONFieldEquals expects the response body to be JSON containing the expected value at the
// specified path (see Path). The expected value can be an ldvalue.Value or any Go value that
// ldvalue.CopyArbitraryValue accepts. Numbers are equal if their numeric values are equal,
// regardless of whether they are written as integers.
func JSONFieldEquals(path string, expected interface{}) Expectation {
	e := jsonFieldEquals{expr: path}
	e.path, e.pathErr = ParsePath(path)
	if v, ok := expected.(ldvalue.Value); ok {
		e.expected = v
	} else {
		e.expected = ldvalue.CopyArbitraryValue(expected)
	}
	return e
}

func (e jsonFieldEquals) Kind() ExpectationKind { return JSONFieldKind }

func (e jsonFieldEquals) String() string {
	return fmt.Sprintf("%s == %s", e.expr, e.expected.JSONString())
}

func (e jsonFieldEquals) evaluate(r CapturedResponse) (bool, string) {
	if e.pathErr != nil {
		return false, e.pathErr.Error()
	}
	doc, ok := r.JSON()
	if !ok {
		return false, fmt.Sprintf("expected %s to be %s but the response body was not JSON: %s",
			e.expr, e.expected.JSONString(), quoteBody(r.RawBody))
	}
	actual, err := e.path.Resolve(doc)
	if err != nil {
		return false, fmt.Sprintf("expected %s to be %s but %s", e.expr, e.expected.JSONString(), err)
	}
	if !actual.Equal(e.expected) {
		message := fmt.Sprintf("expected %s to be %s but was %s", e.expr, e.expected.JSONString(), actual.JSONString())
		if isContainer(actual) && isContainer(e.expected) {
			diff := cmp.Diff(e.expected.AsArbitraryValue(), actual.AsArbitraryValue())
			message += "\ndiff (-expected +actual):\n" + diff
		}
		return false, message
	}
	return true, fmt.Sprintf("%s was %s", e.expr, actual.JSONString())
}

type bodyEquals struct {
	body string
}

// BodyEquals expects the raw response body to be exactly the specified string.
func BodyEquals(body string) Expectation { return bodyEquals{body} }

func (e bodyEquals) Kind() ExpectationKind { return BodyKind }

func (e bodyEquals) String() string { return fmt.Sprintf("body == %q", e.body) }

func (e bodyEquals) evaluate(r CapturedResponse) (bool, string) {
	if r.RawBody != e.body {
		return false, fmt.Sprintf("expected body %q but was %s", e.body, quoteBody(r.RawBody))
	}
	return true, fmt.Sprintf("body was %q", e.body)
}

type bodyNonEmpty struct{}

// BodyNonEmpty expects the response to have a body of at least one byte.
func BodyNonEmpty() Expectation { return bodyNonEmpty{} }

func (e bodyNonEmpty) Kind() ExpectationKind { return BodyNonEmptyKind }

func (e bodyNonEmpty) String() string { return "body is not empty" }

func (e bodyNonEmpty) evaluate(r CapturedResponse) (bool, string) {
	if r.RawBody == "" {
		return false, "expected a non-empty body but the body was empty"
	}
	return true, fmt.Sprintf("body had %d bytes", len(r.RawBody))
}

type bodyContains struct {
	substring string
}

// BodyContains expects the raw response body to contain the specified string.
func BodyContains(substring string) Expectation { return bodyContains{substring} }

func (e bodyContains) Kind() ExpectationKind { return BodyContainsKind }

func (e bodyContains) String() string { return fmt.Sprintf("body contains %q", e.substring) }

func (e bodyContains) evaluate(r CapturedResponse) (bool, string) {
	if !strings.Contains(r.RawBody, e.substring) {
		return false, fmt.Sprintf("expected body to contain %q but was %s", e.substring, quoteBody(r.RawBody))
	}
	return true, fmt.Sprintf("body contained %q", e.substring)
}

type headerEquals struct {
	name  string
	value string
}

// HeaderEquals expects a response header to have exactly the specified value. The header
// name is not case-sensitive.
func HeaderEquals(name, value string) Expectation { return headerEquals{name, value} }

func (e headerEquals) Kind() ExpectationKind { return HeaderKind }

func (e headerEquals) String() string { return fmt.Sprintf("header %s == %q", e.name, e.value) }

func (e headerEquals) evaluate(r CapturedResponse) (bool, string) {
	actual, ok := r.Headers[http.CanonicalHeaderKey(e.name)]
	if !ok {
		return false, fmt.Sprintf("expected header %s to be %q but it was not present", e.name, e.value)
	}
	if actual != e.value {
		return false, fmt.Sprintf("expected header %s to be %q but was %q", e.name, e.value, actual)
	}
	return true, fmt.Sprintf("header %s was %q", e.name, actual)
}

func isContainer(v ldvalue.Value) bool {
	return v.Type() == ldvalue.ObjectType || v.Type() == ldvalue.ArrayType
}

func quoteBody(body string) string {
	if body == "" {
		return "empty"
	}
	if len(body) <= maxBodyInMessage {
		return fmt.Sprintf("%q", body)
	}
	cut := maxBodyInMessage
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return fmt.Sprintf("%q (%d more bytes)", body[:cut], len(body)-cut)
}
