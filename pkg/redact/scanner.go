// Package redact detects client-identifying substrings (hostnames, IP
// literals) in generated text and applies reviewed substitutions before the
// text is accepted into a report.
package redact

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Detection is purely syntactic: no DNS resolution, no routability checks.
var (
	hostPattern = regexp.MustCompile(`\b([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}\b`)
	ipPattern   = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\.){3}(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\b`)
)

// Kind classifies a candidate token.
type Kind string

const (
	KindDomain Kind = "domain"
	KindIP     Kind = "ip"
)

// Resolution is the review decision for a candidate.
type Resolution int

const (
	Undecided Resolution = iota
	Replace
	Keep
)

func (r Resolution) String() string {
	switch r {
	case Replace:
		return "replace"
	case Keep:
		return "keep"
	default:
		return "undecided"
	}
}

// Candidate is one detected substring pending a Replace/Keep decision.
// Offsets are byte positions into the scanned text.
type Candidate struct {
	Value      string
	Kind       Kind
	Start      int
	End        int
	Resolution Resolution
}

// IPPlaceholder substitutes every replaced IP literal. 192.0.2.0/24 is
// reserved for documentation.
const IPPlaceholder = "192.0.2.1"

// Scan returns candidates in left-to-right order of appearance. Matches
// whose normalized value is on the knownSafe list come back pre-resolved to
// Keep and need no interactive decision. An IP literal embedded in a longer
// hostname token is reported once, as the hostname.
func Scan(text string, knownSafe []string) []Candidate {
	if text == "" {
		return nil
	}

	safe := make(map[string]bool, len(knownSafe))
	for _, s := range knownSafe {
		safe[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var out []Candidate
	hostSpans := hostPattern.FindAllStringIndex(text, -1)
	for _, span := range hostSpans {
		out = append(out, Candidate{
			Value: text[span[0]:span[1]],
			Kind:  KindDomain,
			Start: span[0],
			End:   span[1],
		})
	}
	for _, span := range ipPattern.FindAllStringIndex(text, -1) {
		if withinAny(span, hostSpans) {
			continue
		}
		out = append(out, Candidate{
			Value: text[span[0]:span[1]],
			Kind:  KindIP,
			Start: span[0],
			End:   span[1],
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	for i := range out {
		if safe[strings.ToLower(out[i].Value)] {
			out[i].Resolution = Keep
		}
	}
	return out
}

func withinAny(span []int, spans [][]int) bool {
	for _, s := range spans {
		if span[0] >= s[0] && span[1] <= s[1] {
			return true
		}
	}
	return false
}

// UndecidedOf returns the candidates still awaiting a decision.
func UndecidedOf(candidates []Candidate) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.Resolution == Undecided {
			out = append(out, c)
		}
	}
	return out
}

// Apply substitutes every Replace candidate and leaves Keep candidates
// verbatim. Distinct replaced domains get example.com, example2.com, ... in
// order of first appearance; replaced IPs all become IPPlaceholder.
// Substitution runs right to left so earlier offsets stay valid while later
// ones are rewritten. Candidates must have been produced by Scan over this
// exact text and must all be decided.
func Apply(text string, candidates []Candidate) (string, error) {
	placeholders := make(map[string]string)
	nextDomain := 1
	for _, c := range candidates {
		if c.Resolution == Undecided {
			return "", fmt.Errorf("redact: candidate %q is undecided", c.Value)
		}
		if c.Resolution != Replace || c.Kind != KindDomain {
			continue
		}
		key := strings.ToLower(c.Value)
		if _, ok := placeholders[key]; ok {
			continue
		}
		if nextDomain == 1 {
			placeholders[key] = "example.com"
		} else {
			placeholders[key] = fmt.Sprintf("example%d.com", nextDomain)
		}
		nextDomain++
	}

	out := text
	for i := len(candidates) - 1; i >= 0; i-- {
		c := candidates[i]
		if c.Start < 0 || c.End > len(out) || c.Start > c.End {
			return "", fmt.Errorf("redact: candidate %q offsets [%d,%d) out of range", c.Value, c.Start, c.End)
		}
		if out[c.Start:c.End] != c.Value {
			return "", fmt.Errorf("redact: text at [%d,%d) does not match candidate %q", c.Start, c.End, c.Value)
		}
		if c.Resolution != Replace {
			continue
		}
		repl := IPPlaceholder
		if c.Kind == KindDomain {
			repl = placeholders[strings.ToLower(c.Value)]
		}
		out = out[:c.Start] + repl + out[c.End:]
	}
	return out, nil
}

// StripScope masks occurrences of the caller-declared scope string so it is
// never shipped to the generation service.
func StripScope(text, scope string) string {
	if text == "" || scope == "" {
		return text
	}
	return strings.ReplaceAll(text, scope, "[SCOPE_REDACTED]")
}
