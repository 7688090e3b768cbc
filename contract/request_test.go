package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"GET", "get", " Post ", "PUT", "patch", "DELETE"} {
		m, err := ParseMethod(s)
		require.NoError(t, err, s)
		assert.NotEmpty(t, m)
	}
	_, err := ParseMethod("HEAD")
	assert.True(t, errors.Is(err, ErrUnsupportedMethod))
}

func TestNewRequestSpecCanonicalizesHeaders(t *testing.T) {
	spec, err := NewRequestSpec(GET, "/users/2", map[string]string{"x-api-key": "abc", "accept": "application/json"},
		ldvalue.OptionalString{})
	require.NoError(t, err)

	assert.Equal(t, GET, spec.Method())
	assert.Equal(t, "/users/2", spec.Path())
	assert.Equal(t, map[string]string{"X-Api-Key": "abc", "Accept": "application/json"}, spec.Headers())
	assert.Equal(t, "abc", spec.Header("X-API-KEY"))
	assert.False(t, spec.Body().IsDefined())
}

func TestNewRequestSpecHeadersAreCopied(t *testing.T) {
	headers := map[string]string{"A": "1"}
	spec, err := NewRequestSpec(GET, "x", headers, ldvalue.OptionalString{})
	require.NoError(t, err)

	headers["A"] = "2"
	spec.Headers()["A"] = "3"
	assert.Equal(t, "1", spec.Header("a"))
}

func TestNewRequestSpecRejectsAbsoluteURL(t *testing.T) {
	for _, path := range []string{"https://reqres.in/api/users", "//reqres.in/api/users"} {
		_, err := NewRequestSpec(GET, path, nil, ldvalue.OptionalString{})
		assert.True(t, errors.Is(err, ErrAbsolutePath), path)
	}
}

func TestNewRequestSpecAllowsURLsInQueryString(t *testing.T) {
	for _, path := range []string{
		"/redirect?next=https://example.com/x",
		"redirect?next=//example.com/x",
		"/users?page=2&ref=http%3A%2F%2Fexample.com",
	} {
		spec, err := Get(path)
		if assert.NoError(t, err, path) {
			assert.Equal(t, path, spec.Path())
		}
	}
}

func TestNewRequestSpecRejectsUnsupportedMethod(t *testing.T) {
	_, err := NewRequestSpec(Method("OPTIONS"), "/users", nil, ldvalue.OptionalString{})
	assert.True(t, errors.Is(err, ErrUnsupportedMethod))
}

func TestMalformedJSONBodyFailsAtBuildTime(t *testing.T) {
	_, err := PostJSON("/users", `{"name": "morpheus",`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequestBody))

	var bodyErr *InvalidRequestBodyError
	require.True(t, errors.As(err, &bodyErr))
	assert.Equal(t, `{"name": "morpheus",`, bodyErr.Body)
}

func TestJSONBodyIsCheckedForAnyJSONMediaType(t *testing.T) {
	for _, contentType := range []string{
		"application/json",
		"application/json; charset=utf-8",
		"application/merge-patch+json",
	} {
		_, err := NewRequestSpec(PATCH, "/users/2", map[string]string{"content-type": contentType},
			ldvalue.NewOptionalString("not json"))
		assert.True(t, errors.Is(err, ErrInvalidRequestBody), contentType)
	}
}

func TestNonJSONBodyIsNotChecked(t *testing.T) {
	spec, err := NewRequestSpec(POST, "/echo", map[string]string{"Content-Type": "text/plain"},
		ldvalue.NewOptionalString("not json"))
	require.NoError(t, err)
	assert.Equal(t, ldvalue.NewOptionalString("not json"), spec.Body())

	spec, err = NewRequestSpec(POST, "/echo", nil, ldvalue.NewOptionalString("{"))
	require.NoError(t, err)
	assert.Equal(t, ldvalue.NewOptionalString("{"), spec.Body())
}

func TestJSONShortcuts(t *testing.T) {
	for _, method := range []Method{POST, PUT, PATCH} {
		var spec RequestSpec
		var err error
		body := `{"name": "morpheus", "job": "leader"}`
		switch method {
		case POST:
			spec, err = PostJSON("/users", body)
		case PUT:
			spec, err = PutJSON("/users/2", body)
		case PATCH:
			spec, err = PatchJSON("/users/2", body)
		}
		require.NoError(t, err)
		assert.Equal(t, method, spec.Method())
		assert.Equal(t, "application/json", spec.Header("Content-Type"))
		assert.Equal(t, ldvalue.NewOptionalString(body), spec.Body())
	}
}

func TestWithHeadersKeepsRequestHeaders(t *testing.T) {
	spec, err := NewRequestSpec(GET, "/users", map[string]string{"X-Api-Key": "mine"}, ldvalue.OptionalString{})
	require.NoError(t, err)

	merged := spec.WithHeaders(map[string]string{"x-api-key": "default", "User-Agent": "contract-tests"})
	assert.Equal(t, map[string]string{"X-Api-Key": "mine", "User-Agent": "contract-tests"}, merged.Headers())
	assert.Equal(t, map[string]string{"X-Api-Key": "mine"}, spec.Headers())
}

func TestWithHeadersNeverAddsContentType(t *testing.T) {
	spec, err := NewRequestSpec(POST, "/users", nil, ldvalue.NewOptionalString("{not json"))
	require.NoError(t, err)

	merged := spec.WithHeaders(map[string]string{"content-type": "application/json", "X-Api-Key": "k"})
	assert.Equal(t, "", merged.Header("Content-Type"))
	assert.Equal(t, "k", merged.Header("X-Api-Key"))

	jsonSpec, err := PostJSON("/users", `{"name": "morpheus"}`)
	require.NoError(t, err)
	merged = jsonSpec.WithHeaders(map[string]string{"Content-Type": "text/plain"})
	assert.Equal(t, "application/json", merged.Header("Content-Type"))
}
