package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/launchdarkly/rest-contract-tests/casefile"
	"github.com/launchdarkly/rest-contract-tests/config"
	"github.com/launchdarkly/rest-contract-tests/contract"
	"github.com/launchdarkly/rest-contract-tests/framework"
	"github.com/launchdarkly/rest-contract-tests/report"
	"github.com/launchdarkly/rest-contract-tests/resttests"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errTestsFailed = errors.New("some tests failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var params commandParams

	root := &cobra.Command{}
	root.Use = "rest-contract-tests"
	root.Short = "Verify that a REST API honors its HTTP contract"
	root.Args = cobra.NoArgs
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	params.addFlags(root.PersistentFlags())
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runTests(cmd, &params)
	}

	list := &cobra.Command{}
	list.Use = "list"
	list.Short = "List the tests that would run, without sending any requests"
	list.Args = cobra.NoArgs
	list.RunE = func(cmd *cobra.Command, args []string) error {
		return listTests(cmd, &params)
	}
	root.AddCommand(list)

	return root
}

func setup(cmd *cobra.Command, params *commandParams) (config.Config, []resttests.Suite, *contract.Executor, error) {
	if params.noColor {
		color.NoColor = true
	}
	cfg, err := params.toConfig(cmd.Flags())
	if err != nil {
		return cfg, nil, nil, err
	}

	var suites []resttests.Suite
	if !cfg.SkipBuiltin {
		suites = resttests.BuiltinSuites()
	}
	fromFiles, err := casefile.Load(cfg.CaseFiles)
	if err != nil {
		return cfg, nil, nil, err
	}
	suites = append(suites, fromFiles...)

	executor, err := contract.NewExecutor(
		cfg.BaseURL,
		contract.WithTimeout(cfg.Timeout),
		contract.WithDefaultHeaders(cfg.Headers),
	)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, suites, executor, nil
}

func runTests(cmd *cobra.Command, params *commandParams) error {
	cfg, suites, executor, err := setup(cmd, params)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)
	fmt.Fprintf(out, "Running test suite against %s\n", executor.BaseURL())

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	started := time.Now()
	results := resttests.RunTestSuite(
		cmd.Context(),
		executor,
		suites,
		resttests.SuiteOptions{Parallel: cfg.Parallel},
		params.filters.AsFilter,
		testLogger,
	)
	elapsed := time.Since(started)

	fmt.Fprintln(out)
	framework.PrintResults(out, results)

	if cfg.XLSXReport != "" {
		info := report.RunInfo{
			ID:       uuid.NewString(),
			BaseURL:  executor.BaseURL(),
			Started:  started,
			Duration: elapsed,
		}
		if err := report.WriteXLSX(cfg.XLSXReport, info, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report for run %s written to %s\n", info.ID, cfg.XLSXReport)
	}

	if !results.OK() {
		return errTestsFailed
	}
	return nil
}

func listTests(cmd *cobra.Command, params *commandParams) error {
	_, suites, executor, err := setup(cmd, params)
	if err != nil {
		return err
	}
	results := resttests.RunTestSuite(
		cmd.Context(),
		executor,
		suites,
		resttests.SuiteOptions{DryRun: true},
		params.filters.AsFilter,
		nil,
	)
	out := cmd.OutOrStdout()
	for _, id := range resttests.SelectedTests(results) {
		fmt.Fprintln(out, id)
	}
	return nil
}
