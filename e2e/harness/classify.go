package harness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// errorSignature matches a token shaped like a negative integer. Any such
// token is taken as an authoritative error code, including ones the target
// might print for unrelated reasons.
var errorSignature = regexp.MustCompile(`^-[0-9]+$`)

// OutcomeKind tags the result of classification.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeErrorCode
	OutcomeMissing
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeErrorCode:
		return "error-code"
	case OutcomeMissing:
		return "missing-token"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the tagged result of classifying a token stream.
type Outcome struct {
	Kind OutcomeKind

	// Code, Token and Index describe the error signature when Kind is
	// OutcomeErrorCode.
	Code  Verdict
	Token string
	Index int

	// Missing lists the expected tokens that were absent when Kind is
	// OutcomeMissing.
	Missing []string
}

// Verdict collapses the outcome into the integer taxonomy.
func (o Outcome) Verdict() Verdict {
	switch o.Kind {
	case OutcomeErrorCode:
		return o.Code
	case OutcomeMissing:
		return VerdictUnspecified
	default:
		return VerdictOK
	}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeErrorCode:
		return fmt.Sprintf("error %d (%s) at token %d", int(o.Code), o.Code, o.Index)
	case OutcomeMissing:
		return fmt.Sprintf("missing tokens: %s", strings.Join(o.Missing, ", "))
	default:
		return "ok"
	}
}

// ScanError looks for the first error signature in stream order.
func ScanError(tokens TokenStream) (Outcome, bool) {
	for i, token := range tokens {
		if !errorSignature.MatchString(token) {
			continue
		}
		code, err := strconv.Atoi(token)
		if err != nil {
			// Too many digits for an int; still an error signature.
			code = int(VerdictUnspecified)
		}
		return Outcome{Kind: OutcomeErrorCode, Code: Verdict(code), Token: token, Index: i}, true
	}
	return Outcome{}, false
}

// CheckTokens verifies that every expected token occurs somewhere in the
// stream. Order is irrelevant.
func CheckTokens(tokens TokenStream, expected []string) Outcome {
	present := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		present[token] = struct{}{}
	}

	var missing []string
	for _, query := range expected {
		if _, ok := present[query]; !ok {
			missing = append(missing, query)
		}
	}
	if len(missing) > 0 {
		return Outcome{Kind: OutcomeMissing, Missing: missing}
	}
	return Outcome{Kind: OutcomeOK}
}

// Classify runs the error scan first and only falls back to the
// membership check when no error signature is present.
func Classify(tokens TokenStream, expected []string) Outcome {
	if outcome, found := ScanError(tokens); found {
		return outcome
	}
	return CheckTokens(tokens, expected)
}

// Validate is Classify reduced to its verdict.
func Validate(tokens TokenStream, expected ...string) Verdict {
	return Classify(tokens, expected).Verdict()
}
