package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Method is one of the HTTP methods that a RequestSpec can use.
type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	PATCH  Method = "PATCH"
	DELETE Method = "DELETE"
)

const contentTypeHeader = "Content-Type"

var (
	// ErrUnsupportedMethod is returned when building a RequestSpec with a method other than
	// GET, POST, PUT, PATCH, or DELETE.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")

	// ErrAbsolutePath is returned when building a RequestSpec with a full URL instead of a
	// path relative to the base endpoint.
	ErrAbsolutePath = errors.New("request path must be relative to the base endpoint")

	// ErrInvalidRequestBody matches any *InvalidRequestBodyError.
	ErrInvalidRequestBody = errors.New("invalid request body")
)

// InvalidRequestBodyError means that a request declared a JSON content type but its body
// was not valid JSON.
type InvalidRequestBodyError struct {
	Body string
	Err  error
}

func (e *InvalidRequestBodyError) Error() string {
	return fmt.Sprintf("invalid request body: not valid JSON (%s): %s", e.Err, e.Body)
}

func (e *InvalidRequestBodyError) Unwrap() error { return e.Err }

func (e *InvalidRequestBodyError) Is(target error) bool { return target == ErrInvalidRequestBody }

// ParseMethod converts a method name, in any letter case, to a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case GET, POST, PUT, PATCH, DELETE:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

// RequestSpec is an immutable description of one HTTP request. Use NewRequestSpec or one
// of the shortcut constructors to create it.
type RequestSpec struct {
	method  Method
	path    string
	headers map[string]string
	body    ldvalue.OptionalString
}

// NewRequestSpec validates its parameters and returns a RequestSpec.
//
// The path is relative to the base endpoint of whatever Executor sends the request, and may
// include a query string; a leading slash is optional. Header names are canonicalized. If
// the headers specify a JSON content type and a body is defined, the body must be valid JSON,
// otherwise the error matches ErrInvalidRequestBody.
func NewRequestSpec(
	method Method,
	path string,
	headers map[string]string,
	body ldvalue.OptionalString,
) (RequestSpec, error) {
	m, err := ParseMethod(string(method))
	if err != nil {
		return RequestSpec{}, err
	}
	if u, err := url.Parse(path); err != nil || u.Scheme != "" || u.Host != "" {
		return RequestSpec{}, fmt.Errorf("%w: %q", ErrAbsolutePath, path)
	}

	spec := RequestSpec{
		method:  m,
		path:    path,
		headers: canonicalHeaders(headers),
		body:    body,
	}

	if b, ok := body.Get(); ok && isJSONMediaType(spec.Header(contentTypeHeader)) {
		var parsed interface{}
		if err := json.Unmarshal([]byte(b), &parsed); err != nil {
			return RequestSpec{}, &InvalidRequestBodyError{Body: b, Err: err}
		}
	}
	return spec, nil
}

// Get is a shortcut for a GET request with no headers or body.
func Get(path string) (RequestSpec, error) {
	return NewRequestSpec(GET, path, nil, ldvalue.OptionalString{})
}

// Delete is a shortcut for a DELETE request with no headers or body.
func Delete(path string) (RequestSpec, error) {
	return NewRequestSpec(DELETE, path, nil, ldvalue.OptionalString{})
}

// PostJSON is a shortcut for a POST request with a JSON body.
func PostJSON(path, body string) (RequestSpec, error) {
	return withJSONBody(POST, path, body)
}

// PutJSON is a shortcut for a PUT request with a JSON body.
func PutJSON(path, body string) (RequestSpec, error) {
	return withJSONBody(PUT, path, body)
}

// PatchJSON is a shortcut for a PATCH request with a JSON body.
func PatchJSON(path, body string) (RequestSpec, error) {
	return withJSONBody(PATCH, path, body)
}

func withJSONBody(method Method, path, body string) (RequestSpec, error) {
	return NewRequestSpec(
		method,
		path,
		map[string]string{contentTypeHeader: "application/json"},
		ldvalue.NewOptionalString(body),
	)
}

func (r RequestSpec) Method() Method { return r.method }

func (r RequestSpec) Path() string { return r.path }

// Headers returns a copy of the request headers.
func (r RequestSpec) Headers() map[string]string {
	ret := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		ret[k] = v
	}
	return ret
}

// Header returns the value of a request header, or "" if it is not set. The name is not
// case-sensitive.
func (r RequestSpec) Header(name string) string {
	return r.headers[http.CanonicalHeaderKey(name)]
}

// Body returns the request body, which is undefined for requests without one.
func (r RequestSpec) Body() ldvalue.OptionalString { return r.body }

// WithHeaders returns a copy of the RequestSpec in which any of the specified headers that
// the request did not already have are added. Headers already on the request are unchanged.
// Content-Type is never added, since the body was validated against the request's own
// content type when it was built.
func (r RequestSpec) WithHeaders(defaults map[string]string) RequestSpec {
	if len(defaults) == 0 {
		return r
	}
	merged := canonicalHeaders(defaults)
	delete(merged, contentTypeHeader)
	for k, v := range r.headers {
		merged[k] = v
	}
	r.headers = merged
	return r
}

func (r RequestSpec) String() string {
	return fmt.Sprintf("%s %s", r.method, r.path)
}

func canonicalHeaders(headers map[string]string) map[string]string {
	ret := make(map[string]string, len(headers))
	// sorted so that names differing only by case resolve the same way every time
	for _, k := range sortedKeys(headers) {
		ret[http.CanonicalHeaderKey(k)] = headers[k]
	}
	return ret
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isJSONMediaType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
