package contract

import (
	"strings"

	"github.com/alessio/shellescape"
)

// CurlCommand returns a shell command that reproduces the request, for debug output.
func CurlCommand(url string, spec RequestSpec) string {
	var b commandBuilder
	b.add("curl", "-i", "-X", string(spec.Method()))
	headers := spec.Headers()
	for _, k := range sortedKeys(headers) {
		b.add("-H", k+": "+headers[k])
	}
	if body, ok := spec.Body().Get(); ok {
		b.add("--data-raw", body)
	}
	b.add(url)
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
