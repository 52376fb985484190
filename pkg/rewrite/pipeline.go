// Package rewrite orchestrates AI-assisted span rewrites: generate a
// replacement for the selected text, scan it for client-identifying
// content, collect Replace/Keep decisions, then splice the reviewed result
// back into the owning section body.
package rewrite

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/user/missions-helper/pkg/redact"
)

// Generator is the external text-completion service boundary. Anything
// beyond this request/response shape is out of scope.
type Generator interface {
	Rewrite(ctx context.Context, instruction, selected, sectionContext string) (string, error)
}

// State is the pipeline position of one rewrite invocation.
type State int

const (
	StateRequested State = iota
	StateGenerated
	StateScanned
	StateAwaitingDecisions
	StateApplied
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateGenerated:
		return "generated"
	case StateScanned:
		return "scanned"
	case StateAwaitingDecisions:
		return "awaiting-decisions"
	case StateApplied:
		return "applied"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrStaleDecisionSet reports decisions submitted against a candidate set
// that is no longer the one last produced by a scan. The caller must
// re-scan rather than risk misapplied substitutions.
var ErrStaleDecisionSet = errors.New("rewrite: decision set does not match the last scan")

// GenerationError wraps a failure from the generation service. The rewrite
// is retryable by starting a new session.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("rewrite: generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Request describes one rewrite invocation: the section body owning the
// selection, the selected span as byte offsets into it, the instruction for
// the generator, and optional scope text that must never leave the machine.
type Request struct {
	Instruction    string
	SectionBody    string
	SpanStart      int
	SpanEnd        int
	SectionContext string
	Scope          string
}

// Session holds the state of one rewrite invocation across the caller
// round-trip. It belongs to a single request identity; two concurrent
// rewrites never share a session.
type Session struct {
	ID        uuid.UUID
	State     State
	Generated string
	// Candidates from the last scan of Generated. ScanID identifies that
	// scan; a rescan supersedes it.
	Candidates []redact.Candidate
	ScanID     uuid.UUID
	// Result is the full revised section body, set once Applied.
	Result string
	Err    error

	req Request
}

// Pipeline runs rewrite sessions against a generator. KnownSafe domains are
// emitted pre-resolved to Keep and skip interactive review.
type Pipeline struct {
	Generator Generator
	KnownSafe []string
}

// NewPipeline returns a pipeline over the given generator.
func NewPipeline(g Generator) *Pipeline {
	return &Pipeline{Generator: g}
}

// Start generates a replacement for the requested span and scans it. The
// returned session is in StateAwaitingDecisions when candidates need
// review, or already StateApplied when nothing was flagged. On generation
// failure the session is terminal in StateFailed and the error is a
// *GenerationError.
func (p *Pipeline) Start(ctx context.Context, req Request) (*Session, error) {
	sess := &Session{ID: uuid.New(), State: StateRequested, req: req}

	if req.SpanStart < 0 || req.SpanEnd > len(req.SectionBody) || req.SpanStart > req.SpanEnd {
		sess.State = StateFailed
		sess.Err = fmt.Errorf("rewrite: span [%d,%d) out of range for section of %d bytes",
			req.SpanStart, req.SpanEnd, len(req.SectionBody))
		return sess, sess.Err
	}

	selected := req.SectionBody[req.SpanStart:req.SpanEnd]
	outbound := redact.StripScope(selected, req.Scope)

	generated, err := p.Generator.Rewrite(ctx, req.Instruction, outbound, req.SectionContext)
	if err != nil {
		sess.State = StateFailed
		sess.Err = &GenerationError{Err: err}
		return sess, sess.Err
	}
	sess.Generated = generated
	sess.State = StateGenerated

	p.scan(sess)
	if len(redact.UndecidedOf(sess.Candidates)) == 0 {
		return sess, p.apply(sess)
	}
	sess.State = StateAwaitingDecisions
	return sess, nil
}

// Rescan re-runs the scanner over the generated text, superseding the
// previous candidate set. Decisions submitted against the old ScanID fail
// with ErrStaleDecisionSet.
func (p *Pipeline) Rescan(sess *Session) {
	if sess.State != StateAwaitingDecisions && sess.State != StateScanned {
		return
	}
	p.scan(sess)
	sess.State = StateAwaitingDecisions
}

// Submit resolves the undecided candidates of the scan identified by
// scanID, in candidate order, and applies the substitutions. Every decision
// must be Replace or Keep. A scanID or decision count that does not match
// the session's last scan fails with ErrStaleDecisionSet and changes
// nothing.
func (p *Pipeline) Submit(sess *Session, scanID uuid.UUID, decisions []redact.Resolution) error {
	if sess.State != StateAwaitingDecisions {
		return fmt.Errorf("rewrite: session %s is %s, not awaiting decisions", sess.ID, sess.State)
	}
	if scanID != sess.ScanID {
		return ErrStaleDecisionSet
	}

	undecided := 0
	for _, c := range sess.Candidates {
		if c.Resolution == redact.Undecided {
			undecided++
		}
	}
	if len(decisions) != undecided {
		return ErrStaleDecisionSet
	}
	for _, d := range decisions {
		if d != redact.Replace && d != redact.Keep {
			return fmt.Errorf("rewrite: decision %v is not replace or keep", d)
		}
	}

	next := 0
	for i := range sess.Candidates {
		if sess.Candidates[i].Resolution == redact.Undecided {
			sess.Candidates[i].Resolution = decisions[next]
			next++
		}
	}
	return p.apply(sess)
}

func (p *Pipeline) scan(sess *Session) {
	sess.Candidates = redact.Scan(sess.Generated, p.KnownSafe)
	sess.ScanID = uuid.New()
	sess.State = StateScanned
}

// apply substitutes decided candidates and splices the result into the
// original span, leaving everything outside it byte-for-byte unchanged.
func (p *Pipeline) apply(sess *Session) error {
	final, err := redact.Apply(sess.Generated, sess.Candidates)
	if err != nil {
		sess.State = StateFailed
		sess.Err = err
		return err
	}
	body := sess.req.SectionBody
	sess.Result = body[:sess.req.SpanStart] + final + body[sess.req.SpanEnd:]
	sess.State = StateApplied
	return nil
}
