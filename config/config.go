// Package config loads the optional configuration file for a test run.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/launchdarkly/rest-contract-tests/contract"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the API that the built-in tests are written for.
const DefaultBaseURL = "https://reqres.in/api"

// Config is the configuration of a test run. Any setting can come from the configuration
// file, and any setting given on the command line replaces the file's value.
type Config struct {
	BaseURL    string            `yaml:"base_url"`
	Timeout    time.Duration     `yaml:"timeout"`
	Headers    map[string]string `yaml:"headers"`
	CaseFiles  []string          `yaml:"cases"`
	XLSXReport string            `yaml:"xlsx_report"`
	Parallel   int               `yaml:"parallel"`

	// SkipBuiltin disables the built-in reqres.in tests, so that only the case files run.
	SkipBuiltin bool `yaml:"skip_builtin"`
}

// Default returns the configuration used when there is no configuration file.
func Default() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  contract.DefaultTimeout,
		Parallel: 1,
	}
}

// LoadFile reads a YAML or JSON configuration file. Settings that the file does not mention
// keep their default values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used for a test run.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL %q must be an absolute http or https URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be greater than zero")
	}
	if c.Parallel < 1 {
		return errors.New("parallel must be at least 1")
	}
	for name := range c.Headers {
		if strings.TrimSpace(name) == "" {
			return errors.New("header names must not be empty")
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Type") {
			return errors.New("Content-Type cannot be a default header; set it on each request that has a body")
		}
	}
	if c.SkipBuiltin && len(c.CaseFiles) == 0 {
		return errors.New("there are no tests to run: built-in tests are disabled and no case files were given")
	}
	return nil
}

// ParseHeader parses a header in the form "Name: value".
func ParseHeader(s string) (name, value string, err error) {
	i := strings.Index(s, ":")
	if i < 0 {
		return "", "", fmt.Errorf("header %q must be in the form \"Name: value\"", s)
	}
	name = strings.TrimSpace(s[:i])
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("header %q has an invalid name", s)
	}
	return name, strings.TrimSpace(s[i+1:]), nil
}
