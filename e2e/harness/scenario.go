package harness

import (
	"fmt"
	"strings"
)

// Scenario represents a complete conformance test against the target
type Scenario struct {
	Name        string
	Description string
	Steps       []Step
	Expect      []string
	Want        Verdict
	Verify      []Assertion
}

// Step is one batch of input, sent to its own fresh session.
// Exactly one of Commands, Write or Create is normally set; when several
// are, they are sent in that order within the same session.
type Step struct {
	Commands []string
	Write    *WriteRequest
	Create   string
}

// Script renders the step as session input.
func (s Step) Script() string {
	var parts []string
	if len(s.Commands) > 0 {
		parts = append(parts, Join(s.Commands...))
	}
	if s.Write != nil {
		parts = append(parts, s.Write.Script())
	}
	if s.Create != "" {
		parts = append(parts, Create(s.Create))
	}
	return Join(parts...)
}

func (s Step) String() string {
	return strings.ReplaceAll(s.Script(), "\n", "; ")
}

// Result captures the classified output of a scenario
type Result struct {
	Tokens  TokenStream
	Outcome Outcome
}

// Verdict is the integer verdict of the result.
func (r *Result) Verdict() Verdict {
	return r.Outcome.Verdict()
}

// Assertion is a function that validates test results
type Assertion func(*Result) error

// AssertVerdict verifies the verdict matches expected value
func AssertVerdict(expected Verdict) Assertion {
	return func(r *Result) error {
		if got := r.Verdict(); got != expected {
			return fmt.Errorf("verdict: expected %d (%s), got %d (%s): %s\nTokens: %s",
				int(expected), expected, int(got), got, r.Outcome, r.Tokens)
		}
		return nil
	}
}

// AssertContains verifies the output holds the token
func AssertContains(token string) Assertion {
	return func(r *Result) error {
		if !r.Tokens.Contains(token) {
			return fmt.Errorf("output does not contain %q\nTokens: %s", token, r.Tokens)
		}
		return nil
	}
}

// AssertNotContains verifies the output lacks the token
func AssertNotContains(token string) Assertion {
	return func(r *Result) error {
		if r.Tokens.Contains(token) {
			return fmt.Errorf("output unexpectedly contains %q\nTokens: %s", token, r.Tokens)
		}
		return nil
	}
}
