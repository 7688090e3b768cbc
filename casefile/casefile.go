// Package casefile loads contract test cases from YAML or JSON files, so that tests for
// more endpoints can be added without writing Go code.
package casefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/launchdarkly/rest-contract-tests/contract"
	"github.com/launchdarkly/rest-contract-tests/resttests"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"gopkg.in/yaml.v3"
)

type fileData struct {
	Name  string     `yaml:"name"`
	Cases []caseData `yaml:"cases"`
}

type caseData struct {
	Name      string            `yaml:"name"`
	Method    string            `yaml:"method"`
	Path      string            `yaml:"path"`
	Headers   map[string]string `yaml:"headers"`
	Body      bodyData          `yaml:"body"`
	TimeoutMS *int              `yaml:"timeout_ms"`
	Expect    expectData        `yaml:"expect"`
}

type expectData struct {
	Status       *int                   `yaml:"status"`
	JSON         map[string]interface{} `yaml:"json"`
	Body         *string                `yaml:"body"`
	BodyContains stringList             `yaml:"body_contains"`
	BodyNonEmpty bool                   `yaml:"body_non_empty"`
	Headers      map[string]string      `yaml:"headers"`
}

// bodyData is a request body written either as a string, which is sent as is, or as a
// mapping or sequence, which is sent as JSON.
type bodyData struct {
	value      ldvalue.OptionalString
	structured bool
}

func (b *bodyData) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind == yaml.ScalarNode {
		b.value = ldvalue.NewOptionalString(node.Value)
		return nil
	}
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("body cannot be sent as JSON: %w", err)
	}
	b.value = ldvalue.NewOptionalString(string(data))
	b.structured = true
	return nil
}

// stringList is either a single string or a sequence of strings.
type stringList []string

func (s *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = stringList{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// LoadFile loads one suite from a .yaml, .yml, or .json file. If the file does not specify
// a suite name, the file name without its extension is used.
func LoadFile(path string) (resttests.Suite, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !isCaseFileExt(ext) {
		return resttests.Suite{}, fmt.Errorf("unsupported case file format %q (expected .json, .yaml, or .yml)", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return resttests.Suite{}, fmt.Errorf("reading case file %s: %w", path, err)
	}
	suite, err := Parse(data)
	if err != nil {
		return resttests.Suite{}, fmt.Errorf("case file %s: %w", path, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return suite, nil
}

// LoadDir loads every case file in a directory and its subdirectories, in lexical order of
// their paths.
func LoadDir(dir string) ([]resttests.Suite, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isCaseFileExt(strings.ToLower(filepath.Ext(path))) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading case directory %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no case files found in %s", dir)
	}
	sort.Strings(paths)

	suites := make([]resttests.Suite, 0, len(paths))
	for _, p := range paths {
		s, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// Load loads suites from each path, which can be either a case file or a directory.
func Load(paths []string) ([]resttests.Suite, error) {
	var suites []resttests.Suite
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			ss, err := LoadDir(p)
			if err != nil {
				return nil, err
			}
			suites = append(suites, ss...)
			continue
		}
		s, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// Parse parses the contents of a case file. JSON is accepted as well as YAML. Unknown keys
// are an error.
func Parse(data []byte) (resttests.Suite, error) {
	var f fileData
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return resttests.Suite{}, errors.New("file is empty")
		}
		return resttests.Suite{}, err
	}
	if len(f.Cases) == 0 {
		return resttests.Suite{}, errors.New("at least one case is required")
	}

	suite := resttests.Suite{Name: f.Name}
	seen := make(map[string]bool)
	for i, cd := range f.Cases {
		c, err := cd.toCase()
		if err != nil {
			if cd.Name != "" {
				return resttests.Suite{}, fmt.Errorf("case %d (%q): %w", i+1, cd.Name, err)
			}
			return resttests.Suite{}, fmt.Errorf("case %d: %w", i+1, err)
		}
		if seen[c.Name] {
			return resttests.Suite{}, fmt.Errorf("case %d: duplicate name %q", i+1, c.Name)
		}
		seen[c.Name] = true
		suite.Cases = append(suite.Cases, c)
	}
	return suite, nil
}

func (cd caseData) toCase() (resttests.Case, error) {
	if cd.Name == "" {
		return resttests.Case{}, errors.New("name is required")
	}
	if strings.Contains(cd.Name, "/") {
		return resttests.Case{}, errors.New("name must not contain '/'")
	}
	if cd.Path == "" {
		return resttests.Case{}, errors.New("path is required")
	}
	method, err := contract.ParseMethod(cd.Method)
	if err != nil {
		return resttests.Case{}, err
	}

	headers := make(map[string]string, len(cd.Headers)+1)
	for k, v := range cd.Headers {
		headers[k] = v
	}
	if cd.Body.structured && !hasHeader(headers, "Content-Type") {
		headers["Content-Type"] = "application/json"
	}

	timeout := ldvalue.NewOptionalIntFromPointer(cd.TimeoutMS)
	if timeout.OrElse(0) < 0 {
		return resttests.Case{}, errors.New("timeout_ms must not be negative")
	}

	c := resttests.Case{
		Name:    cd.Name,
		Method:  method,
		Path:    cd.Path,
		Headers: headers,
		Body:    cd.Body.value,
		Timeout: time.Duration(timeout.OrElse(0)) * time.Millisecond,
		Expect:  cd.Expect.toExpectations(),
	}
	if len(c.Expect) == 0 {
		return resttests.Case{}, errors.New("at least one expectation is required")
	}
	if _, err := c.Spec(); err != nil {
		return resttests.Case{}, err
	}
	return c, nil
}

// toExpectations returns the expectations in a fixed order: status, headers, JSON fields,
// and then body checks. Headers and JSON fields are sorted by name.
func (e expectData) toExpectations() []contract.Expectation {
	var ret []contract.Expectation
	if e.Status != nil {
		ret = append(ret, contract.StatusEquals(*e.Status))
	}
	for _, name := range sortedKeys(e.Headers) {
		ret = append(ret, contract.HeaderEquals(name, e.Headers[name]))
	}
	jsonPaths := make([]string, 0, len(e.JSON))
	for p := range e.JSON {
		jsonPaths = append(jsonPaths, p)
	}
	sort.Strings(jsonPaths)
	for _, p := range jsonPaths {
		ret = append(ret, contract.JSONFieldEquals(p, ldvalue.CopyArbitraryValue(e.JSON[p])))
	}
	if e.Body != nil {
		ret = append(ret, contract.BodyEquals(*e.Body))
	}
	if e.BodyNonEmpty {
		ret = append(ret, contract.BodyNonEmpty())
	}
	for _, s := range e.BodyContains {
		ret = append(ret, contract.BodyContains(s))
	}
	return ret
}

func isCaseFileExt(ext string) bool {
	return ext == ".yaml" || ext == ".yml" || ext == ".json"
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
