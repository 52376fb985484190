package rewrite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/missions-helper/pkg/redact"
)

type fakeGenerator struct {
	output   string
	err      error
	lastSent string
}

func (f *fakeGenerator) Rewrite(_ context.Context, _, selected, _ string) (string, error) {
	f.lastSent = selected
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func TestStartCleanGenerationAppliesImmediately(t *testing.T) {
	gen := &fakeGenerator{output: "a tidier sentence"}
	p := NewPipeline(gen)

	sess, err := p.Start(context.Background(), Request{
		Instruction: "tighten this up",
		SectionBody: "before MIDDLE after",
		SpanStart:   7,
		SpanEnd:     13,
	})
	require.NoError(t, err)
	assert.Equal(t, StateApplied, sess.State)
	assert.Equal(t, "before a tidier sentence after", sess.Result)
}

func TestStartFlagsCandidatesForReview(t *testing.T) {
	gen := &fakeGenerator{output: "Visit evil.example at 10.0.0.5 now"}
	p := NewPipeline(gen)

	sess, err := p.Start(context.Background(), Request{
		Instruction: "expand",
		SectionBody: "xxSPANxx",
		SpanStart:   2,
		SpanEnd:     6,
	})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingDecisions, sess.State)
	require.Len(t, sess.Candidates, 2)

	err = p.Submit(sess, sess.ScanID, []redact.Resolution{redact.Replace, redact.Replace})
	require.NoError(t, err)
	assert.Equal(t, StateApplied, sess.State)
	assert.Equal(t, "xxVisit example.com at 192.0.2.1 nowxx", sess.Result)
}

func TestKnownSafeSkipsReview(t *testing.T) {
	gen := &fakeGenerator{output: "documented at owasp.org"}
	p := NewPipeline(gen)
	p.KnownSafe = []string{"owasp.org"}

	sess, err := p.Start(context.Background(), Request{
		SectionBody: "span",
		SpanStart:   0,
		SpanEnd:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, StateApplied, sess.State)
	assert.Equal(t, "documented at owasp.org", sess.Result)
}

func TestSubmitStaleScanID(t *testing.T) {
	gen := &fakeGenerator{output: "call home.example"}
	p := NewPipeline(gen)

	sess, err := p.Start(context.Background(), Request{
		SectionBody: "span", SpanStart: 0, SpanEnd: 4,
	})
	require.NoError(t, err)
	require.Equal(t, StateAwaitingDecisions, sess.State)

	oldScan := sess.ScanID
	p.Rescan(sess)
	require.NotEqual(t, oldScan, sess.ScanID)

	err = p.Submit(sess, oldScan, []redact.Resolution{redact.Replace})
	assert.ErrorIs(t, err, ErrStaleDecisionSet)
	assert.Equal(t, StateAwaitingDecisions, sess.State)

	// The superseding scan still accepts decisions.
	err = p.Submit(sess, sess.ScanID, []redact.Resolution{redact.Keep})
	require.NoError(t, err)
	assert.Equal(t, "call home.example", sess.Result)
}

func TestSubmitWrongDecisionCount(t *testing.T) {
	gen := &fakeGenerator{output: "one.example and two.example"}
	p := NewPipeline(gen)

	sess, err := p.Start(context.Background(), Request{
		SectionBody: "span", SpanStart: 0, SpanEnd: 4,
	})
	require.NoError(t, err)

	err = p.Submit(sess, sess.ScanID, []redact.Resolution{redact.Replace})
	assert.ErrorIs(t, err, ErrStaleDecisionSet)
}

func TestGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream 500")}
	p := NewPipeline(gen)

	sess, err := p.Start(context.Background(), Request{
		SectionBody: "span", SpanStart: 0, SpanEnd: 4,
	})
	require.Error(t, err)
	assert.Equal(t, StateFailed, sess.State)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestScopeNeverSentToGenerator(t *testing.T) {
	gen := &fakeGenerator{output: "ok"}
	p := NewPipeline(gen)

	body := "testing against acme-internal.example went fine"
	_, err := p.Start(context.Background(), Request{
		SectionBody: body,
		SpanStart:   0,
		SpanEnd:     len(body),
		Scope:       "acme-internal.example",
	})
	require.NoError(t, err)
	assert.NotContains(t, gen.lastSent, "acme-internal.example")
	assert.Contains(t, gen.lastSent, "[SCOPE_REDACTED]")
}

func TestSpanOutOfRange(t *testing.T) {
	p := NewPipeline(&fakeGenerator{output: "x"})

	sess, err := p.Start(context.Background(), Request{
		SectionBody: "short", SpanStart: 2, SpanEnd: 99,
	})
	require.Error(t, err)
	assert.Equal(t, StateFailed, sess.State)
}

func TestSpliceLeavesSurroundingBytesUntouched(t *testing.T) {
	gen := &fakeGenerator{output: "NEW"}
	p := NewPipeline(gen)

	body := "prefix|OLD|suffix"
	sess, err := p.Start(context.Background(), Request{
		SectionBody: body, SpanStart: 7, SpanEnd: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "prefix|NEW|suffix", sess.Result)
}

func TestStore(t *testing.T) {
	store := NewStore()
	sess := &Session{ID: uuid.New()}

	store.Put(sess)
	assert.Equal(t, sess, store.Get(sess.ID))

	store.Drop(sess.ID)
	assert.Nil(t, store.Get(sess.ID))
}
