package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/launchdarkly/rest-contract-tests/framework"

	"github.com/stretchr/testify/assert"
)

func TestConsoleTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := &ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	id := framework.TestID{Path: []string{"users", "single user"}}
	debug := framework.CapturedOutput{{Time: time.Now(), Message: ">> GET /users/2"}}

	logger.TestStarted(id)
	logger.TestError(id, errors.New("UnexpectedStatus [status == 200]: expected status 200 but was 404\nsecond line"))
	logger.TestFinished(id, true, debug)
	logger.TestSkipped(framework.TestID{Path: []string{"users", "delete user"}}, "dry run")

	out := buf.String()
	assert.Contains(t, out, "[users/single user]\n")
	assert.Contains(t, out, "  UnexpectedStatus [status == 200]: expected status 200 but was 404\n  second line\n")
	assert.Contains(t, out, "FAILED: users/single user\n")
	assert.Contains(t, out, ">> GET /users/2\n")
	assert.Contains(t, out, "SKIPPED: users/delete user (dry run)\n")
}

func TestConsoleTestLoggerHidesDebugOutputOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	logger := &ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	id := framework.TestID{Path: []string{"users", "single user"}}

	logger.TestFinished(id, false, framework.CapturedOutput{{Time: time.Now(), Message: ">> GET /users/2"}})
	assert.Equal(t, "  PASSED\n", buf.String())
}
