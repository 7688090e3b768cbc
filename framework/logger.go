package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "15:04:05.000"

// Logger is the minimal logging interface used for debug output. It is satisfied by *log.Logger.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput is the debug output of one test, in the order it was logged.
type CapturedOutput []CapturedMessage

// CapturingLogger keeps everything that is logged to it, so it can be shown only if the
// test it belongs to needs to be explained.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	m := CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)}
	l.lock.Lock()
	l.output = append(l.output, m)
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append(CapturedOutput(nil), l.output...)
}

// Dump writes each message with its time and the milliseconds elapsed since the first message.
// Continuation lines of a multi-line message, such as a response body, are indented to line up
// with the first line.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	if len(output) == 0 {
		return
	}
	start := output[0].Time
	for _, m := range output {
		header := fmt.Sprintf("[%s +%dms] ", m.Time.Format(timestampFormat), m.Time.Sub(start).Milliseconds())
		indent := strings.Repeat(" ", len(header))
		for i, line := range strings.Split(m.Message, "\n") {
			if i == 0 {
				fmt.Fprintf(dest, "%s%s%s\n", prefix, header, line)
			} else {
				fmt.Fprintf(dest, "%s%s%s\n", prefix, indent, line)
			}
		}
	}
}
