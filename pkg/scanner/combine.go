package scanner

import (
	"sort"

	"github.com/kuderr/sakurs-go/pkg/rules"
)

// Combine is the Δ-stack monoid's associative operation: it merges the
// ChunkState produced by scanning chunk A with the state produced by
// scanning the chunk immediately following it, yielding the state that
// scanning A+B as one chunk would have produced. pkg/executor folds a
// sequence of per-chunk states with Combine, in any associative
// grouping (left-to-right for streaming, a balanced tree for
// parallel), and always gets the same result.
//
// The two chunks must have been scanned with the same Rules, and
// Combine needs that same value to resolve the handful of decisions
// Scan could not make alone: whether a suppressed abbreviation at the
// tail of A is retroactively confirmed as a boundary by the word at
// the head of B, and whether an ellipsis at the tail of A is a
// boundary given the rune that follows it in B.
func Combine(r *rules.Rules, a, b ChunkState) ChunkState {
	out := ChunkState{
		Length:     a.Length + b.Length,
		Enclosures: make([]EnclosureDelta, len(a.Enclosures)),
	}
	for id := range a.Enclosures {
		out.Enclosures[id] = a.Enclosures[id].combine(b.Enclosures[id])
	}

	boundaries := make([]int, 0, len(a.Boundaries)+len(b.Boundaries)+1)
	boundaries = append(boundaries, a.Boundaries...)

	if extra, ok := reconcileDanglingEnd(r, a, b); ok {
		boundaries = append(boundaries, extra)
	}

	for _, off := range b.Boundaries {
		boundaries = append(boundaries, a.Length+off)
	}
	sort.Ints(boundaries)
	out.Boundaries = boundaries

	out.DanglingStart = combineDanglingStart(a, b)
	out.DanglingEnd = combineDanglingEnd(a, b)
	out.LeadingWord = a.LeadingWord
	if a.Length == 0 {
		out.LeadingWord = b.LeadingWord
	}

	return out
}

// reconcileDanglingEnd resolves a's trailing open question using b's
// leading content, returning the combined-coordinate boundary offset
// to insert if the deferred decision resolves to "yes, a boundary".
func reconcileDanglingEnd(r *rules.Rules, a, b ChunkState) (int, bool) {
	// An empty b (the identity) resolves nothing; end of input is
	// resolved once, by Finalize.
	if a.DanglingEnd == nil || b.Length == 0 {
		return 0, false
	}

	switch a.DanglingEnd.Kind {
	case DanglingAbbrevConfirm:
		if b.LeadingWord == nil {
			return 0, false
		}
		spaceOK := a.DanglingEnd.SpaceSeen || b.LeadingWord.PrecededBySpace || !r.RequireFollowingSpace()
		if !spaceOK {
			return 0, false
		}
		if r.IsSentenceStarter(b.LeadingWord.Text) {
			return a.DanglingEnd.TerminatorOffset, true
		}
		return 0, false

	case DanglingEllipsisPending:
		var after rune
		if b.LeadingWord != nil {
			runes := []rune(b.LeadingWord.Text)
			if len(runes) > 0 {
				after = runes[0]
			}
		}
		if r.EllipsisBoundaryFor(a.DanglingEnd.Text, after, false) {
			return a.Length, true
		}
		return 0, false

	default:
		return 0, false
	}
}

// combineDanglingStart computes the combined span's leading edge
// condition. It is always a's own leading edge, unless a's entire
// content is one unresolved word run that b's head continues — in
// which case the run is extended so a later Combine against a's left
// neighbor sees the full word.
func combineDanglingStart(a, b ChunkState) *DanglingToken {
	if a.Length == 0 {
		if b.DanglingStart == nil {
			return nil
		}
		cp := *b.DanglingStart
		return &cp
	}
	if a.DanglingStart == nil {
		return nil
	}
	if a.DanglingStart.Kind == DanglingTokenRun &&
		len(a.DanglingStart.Text) == a.Length &&
		b.DanglingStart != nil && b.DanglingStart.Kind == DanglingTokenRun {
		return &DanglingToken{
			Kind: DanglingTokenRun,
			Text: a.DanglingStart.Text + b.DanglingStart.Text,
		}
	}
	cp := *a.DanglingStart
	return &cp
}

// Finalize resolves any DanglingEnd left in s as if no further input
// will ever arrive, producing the same result Scan(..., isLast=true)
// would have produced had the entire input been scanned as one chunk.
// Streaming callers combine chunks with isLast=false throughout (since
// they cannot know in advance which read will be the last one to
// return data) and call Finalize once after the final Combine, instead
// of trying to fabricate one more "last" chunk to combine against —
// Scan on a genuinely empty chunk returns a zero ChunkState before it
// would ever re-derive this resolution, so Combine alone can't do it.
func Finalize(r *rules.Rules, s ChunkState) ChunkState {
	if s.DanglingEnd == nil {
		return s
	}
	out := s
	if s.DanglingEnd.Kind == DanglingEllipsisPending && r.EllipsisBoundaryFor(s.DanglingEnd.Text, 0, true) {
		boundaries := make([]int, len(s.Boundaries), len(s.Boundaries)+1)
		copy(boundaries, s.Boundaries)
		boundaries = append(boundaries, s.Length)
		sort.Ints(boundaries)
		out.Boundaries = boundaries
	}
	out.DanglingEnd = nil
	return out
}

// combineDanglingEnd computes the combined span's trailing edge
// condition, symmetric to combineDanglingStart.
func combineDanglingEnd(a, b ChunkState) *DanglingToken {
	if b.Length == 0 {
		if a.DanglingEnd == nil {
			return nil
		}
		cp := *a.DanglingEnd
		return &cp
	}
	if b.DanglingEnd == nil {
		return nil
	}
	if b.DanglingEnd.Kind == DanglingTokenRun &&
		b.DanglingEnd.Offset == 0 &&
		len(b.DanglingEnd.Text) == b.Length &&
		a.DanglingEnd != nil && a.DanglingEnd.Kind == DanglingTokenRun {
		return &DanglingToken{
			Kind:   DanglingTokenRun,
			Text:   a.DanglingEnd.Text + b.DanglingEnd.Text,
			Offset: a.DanglingEnd.Offset,
		}
	}
	cp := *b.DanglingEnd
	cp.Offset += a.Length
	cp.TerminatorOffset += a.Length
	return &cp
}
