package framework

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests by matching their full IDs, such as "users/single user",
// against the --run and --skip patterns.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter reports whether the test should run: its ID matches at least one MustMatch
// pattern, if there are any, and no MustNotMatch pattern.
func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	if r.MustNotMatch.AnyMatch(name) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name)
}

func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// RegexList is a list of patterns that can be set from repeated command-line flags. It
// implements pflag.Value.
type RegexList []*regexp.Regexp

func (r RegexList) String() string {
	quoted := make([]string, 0, len(r))
	for _, p := range r {
		quoted = append(quoted, strconv.Quote(p.String()))
	}
	return strings.Join(quoted, " or ")
}

func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex %q: %w", value, err)
	}
	*r = append(*r, rx)
	return nil
}

func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
