package main

import (
	"time"

	"github.com/launchdarkly/rest-contract-tests/config"
	"github.com/launchdarkly/rest-contract-tests/contract"
	"github.com/launchdarkly/rest-contract-tests/framework"

	"github.com/spf13/pflag"
)

type commandParams struct {
	configFile  string
	baseURL     string
	timeout     time.Duration
	headers     []string
	caseFiles   []string
	xlsxReport  string
	parallel    int
	skipBuiltin bool
	filters     framework.RegexFilters
	debug       bool
	debugAll    bool
	noColor     bool
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.configFile, "config", "", "YAML or JSON configuration file")
	fs.StringVar(&c.baseURL, "url", config.DefaultBaseURL, "base URL of the API under test")
	fs.DurationVar(&c.timeout, "timeout", contract.DefaultTimeout, "timeout for each request")
	fs.StringArrayVar(&c.headers, "header", nil, `header to send with every request, as "Name: value"`)
	fs.StringArrayVar(&c.caseFiles, "cases", nil, "YAML or JSON case file, or a directory of them")
	fs.StringVar(&c.xlsxReport, "xlsx", "", "write an XLSX report of the results to this path")
	fs.IntVar(&c.parallel, "parallel", 1, "maximum number of cases in a suite to run at once")
	fs.BoolVar(&c.skipBuiltin, "skip-builtin", false, "run only the tests from case files")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
}

// toConfig starts from the configuration file, if any, and applies every flag that was set
// on the command line.
func (c *commandParams) toConfig(fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if c.configFile != "" {
		loaded, err := config.LoadFile(c.configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if fs.Changed("url") {
		cfg.BaseURL = c.baseURL
	}
	if fs.Changed("timeout") {
		cfg.Timeout = c.timeout
	}
	if fs.Changed("cases") {
		cfg.CaseFiles = c.caseFiles
	}
	if fs.Changed("xlsx") {
		cfg.XLSXReport = c.xlsxReport
	}
	if fs.Changed("parallel") {
		cfg.Parallel = c.parallel
	}
	if fs.Changed("skip-builtin") {
		cfg.SkipBuiltin = c.skipBuiltin
	}

	if len(c.headers) != 0 {
		headers := make(map[string]string, len(cfg.Headers)+len(c.headers))
		for k, v := range cfg.Headers {
			headers[k] = v
		}
		for _, h := range c.headers {
			name, value, err := config.ParseHeader(h)
			if err != nil {
				return config.Config{}, err
			}
			headers[name] = value
		}
		cfg.Headers = headers
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
