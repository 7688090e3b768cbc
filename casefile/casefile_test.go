package casefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/launchdarkly/rest-contract-tests/contract"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersYAML = `
name: more users
cases:
  - name: single user
    method: get
    path: /users/2
    headers:
      accept: application/json
    timeout_ms: 5000
    expect:
      status: 200
      json:
        data.id: 2
        data.email: janet.weaver@reqres.in
      body_non_empty: true
      headers:
        Content-Type: application/json; charset=utf-8
  - name: create user
    method: POST
    path: /users
    body:
      name: morpheus
      job: leader
    expect:
      status: 201
      json:
        name: morpheus
      body_contains: morpheus
  - name: delete user
    method: DELETE
    path: /users/2
    expect:
      status: 204
      body: ""
`

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func expectationStrings(exps []contract.Expectation) []string {
	var ret []string
	for _, e := range exps {
		ret = append(ret, e.String())
	}
	return ret
}

func TestParseYAML(t *testing.T) {
	suite, err := Parse([]byte(usersYAML))
	require.NoError(t, err)
	assert.Equal(t, "more users", suite.Name)
	require.Len(t, suite.Cases, 3)

	single := suite.Cases[0]
	assert.Equal(t, "single user", single.Name)
	assert.Equal(t, contract.GET, single.Method)
	assert.Equal(t, "/users/2", single.Path)
	assert.Equal(t, map[string]string{"accept": "application/json"}, single.Headers)
	assert.False(t, single.Body.IsDefined())
	assert.Equal(t, 5*time.Second, single.Timeout)
	assert.Equal(t, []string{
		"status == 200",
		`header Content-Type == "application/json; charset=utf-8"`,
		`data.email == "janet.weaver@reqres.in"`,
		"data.id == 2",
		"body is not empty",
	}, expectationStrings(single.Expect))

	create := suite.Cases[1]
	assert.Equal(t, contract.POST, create.Method)
	assert.Equal(t, "application/json", create.Headers["Content-Type"])
	body, ok := create.Body.Get()
	require.True(t, ok)
	assert.JSONEq(t, `{"name": "morpheus", "job": "leader"}`, body)
	assert.Equal(t, time.Duration(0), create.Timeout)
	assert.Equal(t, []string{"status == 201", `name == "morpheus"`, `body contains "morpheus"`},
		expectationStrings(create.Expect))

	del := suite.Cases[2]
	assert.Equal(t, []string{"status == 204", `body == ""`}, expectationStrings(del.Expect))
}

func TestParsedExpectationsEvaluate(t *testing.T) {
	suite, err := Parse([]byte(usersYAML))
	require.NoError(t, err)

	resp := contract.NewCapturedResponse(200, map[string]string{"Content-Type": "application/json; charset=utf-8"},
		`{"data":{"id":2,"email":"janet.weaver@reqres.in"}}`)
	assert.True(t, contract.AllPassed(contract.Evaluate(resp, suite.Cases[0].Expect)))
}

func TestParseJSON(t *testing.T) {
	suite, err := Parse([]byte(`{
  "name": "auth",
  "cases": [{
    "name": "login without password",
    "method": "POST",
    "path": "/login",
    "headers": {"Content-Type": "application/json"},
    "body": "{\"email\": \"peter@klaven\"}",
    "expect": {"status": 400, "json": {"error": "Missing password"}, "body_contains": ["Missing", "password"]}
  }]
}`))
	require.NoError(t, err)
	require.Len(t, suite.Cases, 1)
	c := suite.Cases[0]
	assert.Equal(t, ldvalue.NewOptionalString(`{"email": "peter@klaven"}`), c.Body)
	assert.Equal(t, []string{"status == 400", `error == "Missing password"`, `body contains "Missing"`,
		`body contains "password"`}, expectationStrings(c.Expect))
}

func TestStructuredJSONExpectation(t *testing.T) {
	suite, err := Parse([]byte(`
cases:
  - name: support
    method: GET
    path: /users/2
    expect:
      json:
        support: {url: "https://reqres.in/#support-heading"}
        data.tags: [a, b]
`))
	require.NoError(t, err)
	resp := contract.NewCapturedResponse(200, nil,
		`{"support":{"url":"https://reqres.in/#support-heading"},"data":{"tags":["a","b"]}}`)
	assert.True(t, contract.AllPassed(contract.Evaluate(resp, suite.Cases[0].Expect)))
}

func TestParseErrors(t *testing.T) {
	for name, content := range map[string]string{
		"empty file":          "",
		"no cases":            "name: x\n",
		"unknown key":         "cases:\n  - name: a\n    method: GET\n    path: /a\n    expect: {status: 200}\n    retries: 3\n",
		"missing name":        "cases:\n  - method: GET\n    path: /a\n    expect: {status: 200}\n",
		"slash in name":       "cases:\n  - name: a/b\n    method: GET\n    path: /a\n    expect: {status: 200}\n",
		"missing path":        "cases:\n  - name: a\n    method: GET\n    expect: {status: 200}\n",
		"bad method":          "cases:\n  - name: a\n    method: TRACE\n    path: /a\n    expect: {status: 200}\n",
		"no expectations":     "cases:\n  - name: a\n    method: GET\n    path: /a\n",
		"negative timeout":    "cases:\n  - name: a\n    method: GET\n    path: /a\n    timeout_ms: -1\n    expect: {status: 200}\n",
		"absolute URL":        "cases:\n  - name: a\n    method: GET\n    path: https://x/a\n    expect: {status: 200}\n",
		"duplicate case name": "cases:\n  - {name: a, method: GET, path: /a, expect: {status: 200}}\n  - {name: a, method: GET, path: /b, expect: {status: 200}}\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsMalformedJSONBody(t *testing.T) {
	_, err := Parse([]byte(`
cases:
  - name: bad
    method: POST
    path: /users
    headers: {Content-Type: application/json}
    body: '{"name": '
    expect: {status: 201}
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, contract.ErrInvalidRequestBody))
	assert.Contains(t, err.Error(), `case 1 ("bad")`)
}

func TestLoadFileUsesFileNameAsDefaultSuiteName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "extra-users.yml", "cases:\n  - {name: a, method: GET, path: /a, expect: {status: 200}}\n")
	suite, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "extra-users", suite.Name)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile(writeFile(t, dir, "cases.txt", usersYAML))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "cases: [")
	_, err = LoadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestLoadDirAndLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", usersYAML)
	writeFile(t, dir, "a/one.json", `{"cases": [{"name": "a", "method": "GET", "path": "/a", "expect": {"status": 200}}]}`)
	writeFile(t, dir, "notes.md", "not a case file")

	suites, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, suites, 2)
	assert.Equal(t, "one", suites[0].Name)
	assert.Equal(t, "more users", suites[1].Name)

	extra := writeFile(t, t.TempDir(), "extra.yaml", "name: extra\ncases:\n  - {name: a, method: GET, path: /a, expect: {status: 200}}\n")
	suites, err = Load([]string{dir, extra})
	require.NoError(t, err)
	assert.Len(t, suites, 3)
	assert.Equal(t, "extra", suites[2].Name)

	_, err = LoadDir(t.TempDir())
	assert.Error(t, err)
	_, err = Load([]string{filepath.Join(dir, "nope")})
	assert.Error(t, err)
}
