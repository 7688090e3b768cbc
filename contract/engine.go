package contract

import (
	"fmt"
	"strings"
)

// FailureKind classifies a failed Verdict.
type FailureKind string

const (
	// NoFailure is the FailureKind of a passed Verdict.
	NoFailure FailureKind = ""

	UnexpectedStatus FailureKind = "UnexpectedStatus"
	FieldMismatch    FailureKind = "FieldMismatch"
	BodyMismatch     FailureKind = "BodyMismatch"
	HeaderMismatch   FailureKind = "HeaderMismatch"
)

// Verdict is the outcome of evaluating one Expectation.
type Verdict struct {
	Expectation Expectation
	Passed      bool

	// Message describes the actual value. For a failure, it also states the expected value.
	Message string
}

// FailureKind returns the kind of failure, or NoFailure if the Verdict passed.
func (v Verdict) FailureKind() FailureKind {
	if v.Passed {
		return NoFailure
	}
	if v.Expectation == nil {
		return FieldMismatch
	}
	switch v.Expectation.Kind() {
	case StatusKind:
		return UnexpectedStatus
	case JSONFieldKind:
		return FieldMismatch
	case HeaderKind:
		return HeaderMismatch
	default:
		return BodyMismatch
	}
}

func (v Verdict) String() string {
	status := "PASS"
	if !v.Passed {
		status = "FAIL"
	}
	name := "<nil>"
	if v.Expectation != nil {
		name = v.Expectation.String()
	}
	return fmt.Sprintf("%s [%s]: %s", status, name, v.Message)
}

// Evaluate checks each expectation against the response and returns one Verdict for each,
// in the same order. Every expectation is evaluated even if earlier ones failed. Evaluate
// does not modify its inputs and returns the same result each time it is called with them.
func Evaluate(r CapturedResponse, expectations []Expectation) []Verdict {
	verdicts := make([]Verdict, 0, len(expectations))
	for _, e := range expectations {
		if e == nil {
			verdicts = append(verdicts, Verdict{Message: "nil expectation"})
			continue
		}
		passed, message := e.evaluate(r)
		verdicts = append(verdicts, Verdict{Expectation: e, Passed: passed, Message: message})
	}
	return verdicts
}

// AllPassed returns true if every Verdict passed. It is true for an empty list.
func AllPassed(verdicts []Verdict) bool {
	for _, v := range verdicts {
		if !v.Passed {
			return false
		}
	}
	return true
}

// Failures returns the Verdicts that did not pass, in their original order.
func Failures(verdicts []Verdict) []Verdict {
	var ret []Verdict
	for _, v := range verdicts {
		if !v.Passed {
			ret = append(ret, v)
		}
	}
	return ret
}

// Summarize describes the failed Verdicts, one per line.
func Summarize(verdicts []Verdict) string {
	var lines []string
	for _, v := range Failures(verdicts) {
		lines = append(lines, fmt.Sprintf("%s: %s", v.FailureKind(), v.Message))
	}
	return strings.Join(lines, "\n")
}
