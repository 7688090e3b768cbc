package framework

type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

// bufferedTestLogger holds events for one concurrently running test until it is done.
type bufferedTestLogger struct {
	events []func(TestLogger)
}

func (b *bufferedTestLogger) TestStarted(id TestID) {
	b.events = append(b.events, func(l TestLogger) { l.TestStarted(id) })
}

func (b *bufferedTestLogger) TestError(id TestID, err error) {
	b.events = append(b.events, func(l TestLogger) { l.TestError(id, err) })
}

func (b *bufferedTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	b.events = append(b.events, func(l TestLogger) { l.TestFinished(id, failed, debugOutput) })
}

func (b *bufferedTestLogger) TestSkipped(id TestID, reason string) {
	b.events = append(b.events, func(l TestLogger) { l.TestSkipped(id, reason) })
}

func (b *bufferedTestLogger) replay(dest TestLogger) {
	for _, e := range b.events {
		e(dest)
	}
	b.events = nil
}
