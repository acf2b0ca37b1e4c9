package scanner

import (
	"reflect"
	"testing"

	"github.com/kuderr/sakurs-go/pkg/rules"
)

func scanWhole(t *testing.T, text string) ChunkState {
	t.Helper()
	r := mustEN(t)
	state, err := Scan([]byte(text), r, true, true)
	if err != nil {
		t.Fatalf("Scan(whole) failed: %v", err)
	}
	return state
}

func scanSplit(t *testing.T, text string, splitAt int) ChunkState {
	t.Helper()
	r := mustEN(t)
	left, err := Scan([]byte(text[:splitAt]), r, true, false)
	if err != nil {
		t.Fatalf("Scan(left) failed: %v", err)
	}
	right, err := Scan([]byte(text[splitAt:]), r, false, true)
	if err != nil {
		t.Fatalf("Scan(right) failed: %v", err)
	}
	return Combine(mustEN(t), left, right)
}

func TestCombine_AssociativityAtCleanSplit(t *testing.T) {
	text := "The cat sat. The dog ran! Is this a question? Yes."

	whole := scanWhole(t, text)

	// Split at every whitespace position and confirm the combined
	// boundaries match the single-chunk scan exactly.
	for i, c := range text {
		if c != ' ' {
			continue
		}
		split := scanSplit(t, text, i+1)
		if !reflect.DeepEqual(split.Boundaries, whole.Boundaries) {
			t.Errorf("split at %d: got boundaries %v, want %v", i+1, split.Boundaries, whole.Boundaries)
		}
	}
}

func TestCombine_AbbreviationAcrossChunkBoundary(t *testing.T) {
	// The chunk boundary falls right after the suppressed "Dr."
	// terminator; Combine must look at the next chunk's leading word
	// to decide whether the abbreviation is confirmed as a boundary.
	text := "Visit Dr. Smith today."
	splitAt := len("Visit Dr.")

	whole := scanWhole(t, text)
	split := scanSplit(t, text, splitAt)

	if !reflect.DeepEqual(split.Boundaries, whole.Boundaries) {
		t.Errorf("got boundaries %v, want %v (whole-scan result)", split.Boundaries, whole.Boundaries)
	}
}

func TestCombine_QuoteAcrossChunkBoundary(t *testing.T) {
	text := "She said \"Stop.\" Then she left."
	splitAt := len("She said \"Stop.")

	whole := scanWhole(t, text)
	split := scanSplit(t, text, splitAt)

	if !reflect.DeepEqual(split.Boundaries, whole.Boundaries) {
		t.Errorf("got boundaries %v, want %v (whole-scan result)", split.Boundaries, whole.Boundaries)
	}
}

func TestCombine_WordSplitAcrossChunkBoundary(t *testing.T) {
	// The chunk boundary falls in the middle of "unexpected", with no
	// terminator nearby; Combine must not introduce a spurious
	// boundary and the dangling word halves must not corrupt later
	// abbreviation checks.
	text := "That was totally unexpected. Or was it?"
	splitAt := len("That was totally unex")

	whole := scanWhole(t, text)
	split := scanSplit(t, text, splitAt)

	if !reflect.DeepEqual(split.Boundaries, whole.Boundaries) {
		t.Errorf("got boundaries %v, want %v (whole-scan result)", split.Boundaries, whole.Boundaries)
	}
}

func TestCombine_EllipsisAcrossChunkBoundary(t *testing.T) {
	// The chunk boundary falls right after the ellipsis; Combine must
	// look at the next chunk's leading word to decide whether a
	// capital letter follows and the ellipsis becomes a boundary.
	text := "Wait... Something is wrong."
	splitAt := len("Wait...")

	whole := scanWhole(t, text)
	split := scanSplit(t, text, splitAt)

	if !reflect.DeepEqual(split.Boundaries, whole.Boundaries) {
		t.Errorf("got boundaries %v, want %v (whole-scan result)", split.Boundaries, whole.Boundaries)
	}
}

func TestCombine_AbbreviationConfirmedAcrossChunkBoundary(t *testing.T) {
	// Unlike TestCombine_AbbreviationAcrossChunkBoundary, the word
	// following the abbreviation here is a configured sentence
	// starter, so the boundary must be confirmed even though the next
	// chunk begins with whitespace rather than the word itself.
	text := "Visit Dr. He is busy."
	splitAt := len("Visit Dr.")

	whole := scanWhole(t, text)
	split := scanSplit(t, text, splitAt)

	if !reflect.DeepEqual(split.Boundaries, whole.Boundaries) {
		t.Errorf("got boundaries %v, want %v (whole-scan result)", split.Boundaries, whole.Boundaries)
	}
	if len(whole.Boundaries) < 2 {
		t.Fatalf("expected whole-scan to confirm the abbreviation boundary, got %v", whole.Boundaries)
	}
}

func TestFinalize_ResolvesTrailingEllipsis(t *testing.T) {
	r := mustEN(t)

	// Scanned as an interior (non-last) chunk, so the trailing ellipsis
	// is left dangling rather than resolved on the spot.
	s, err := Scan([]byte("Hold on..."), r, true, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if s.DanglingEnd == nil || s.DanglingEnd.Kind != DanglingEllipsisPending {
		t.Fatalf("expected a dangling ellipsis, got %+v", s.DanglingEnd)
	}

	finalized := Finalize(r, s)
	if finalized.DanglingEnd != nil {
		t.Errorf("Finalize left a DanglingEnd: %+v", finalized.DanglingEnd)
	}

	// Scanning the same text as the true last chunk must resolve the
	// ellipsis the same way directly, with no dangling state at all.
	whole, err := Scan([]byte("Hold on..."), r, true, true)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !reflect.DeepEqual(finalized.Boundaries, whole.Boundaries) {
		t.Errorf("Finalize boundaries = %v, want %v", finalized.Boundaries, whole.Boundaries)
	}
}

func TestFinalize_AbbreviationStaysSuppressedAtTrueEOF(t *testing.T) {
	r := mustEN(t)

	s, err := Scan([]byte("See Mr."), r, true, false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if s.DanglingEnd == nil || s.DanglingEnd.Kind != DanglingAbbrevConfirm {
		t.Fatalf("expected a dangling abbreviation confirm, got %+v", s.DanglingEnd)
	}

	finalized := Finalize(r, s)
	if finalized.DanglingEnd != nil {
		t.Errorf("Finalize left a DanglingEnd: %+v", finalized.DanglingEnd)
	}
	if len(finalized.Boundaries) != 0 {
		t.Errorf("expected no boundary with nothing following the abbreviation, got %v", finalized.Boundaries)
	}
}

func TestCombine_EllipsisFollowedByDigitAcrossChunkBoundary(t *testing.T) {
	// A ruleset where an ellipsis followed by a digit is a boundary, to
	// exercise the followed_by_digit context rule. The chunk boundary
	// falls right after the ellipsis, so Combine must inspect the next
	// chunk's leading digit run, not just its leading word.
	r, err := rules.NewBuilder("en", "test").
		TerminatorChars(".", "!", "?").
		EllipsisPatterns("...").
		EllipsisDefault(false).
		EllipsisContextRule("followed_by_digit", true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	text := "Counting... 12 left."
	splitAt := len("Counting...")

	whole, err := Scan([]byte(text), r, true, true)
	if err != nil {
		t.Fatalf("Scan(whole) failed: %v", err)
	}

	left, err := Scan([]byte(text[:splitAt]), r, true, false)
	if err != nil {
		t.Fatalf("Scan(left) failed: %v", err)
	}
	right, err := Scan([]byte(text[splitAt:]), r, false, true)
	if err != nil {
		t.Fatalf("Scan(right) failed: %v", err)
	}
	split := Combine(r, left, right)

	if !reflect.DeepEqual(split.Boundaries, whole.Boundaries) {
		t.Errorf("got boundaries %v, want %v (whole-scan result)", split.Boundaries, whole.Boundaries)
	}
	if len(whole.Boundaries) == 0 {
		t.Fatalf("expected the ellipsis followed by a digit to resolve as a boundary")
	}
}

func TestIdentity_IsNeutralElement(t *testing.T) {
	r := mustEN(t)
	s, err := Scan([]byte("Hello world. Goodbye."), r, true, true)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	id := Identity(r.NumEnclosures())

	left := Combine(r, id, s)
	if !reflect.DeepEqual(left.Boundaries, s.Boundaries) {
		t.Errorf("Combine(Identity, s) boundaries = %v, want %v", left.Boundaries, s.Boundaries)
	}
	if !reflect.DeepEqual(left.Enclosures, s.Enclosures) {
		t.Errorf("Combine(Identity, s) enclosures = %v, want %v", left.Enclosures, s.Enclosures)
	}

	right := Combine(r, s, id)
	if !reflect.DeepEqual(right.Boundaries, s.Boundaries) {
		t.Errorf("Combine(s, Identity) boundaries = %v, want %v", right.Boundaries, s.Boundaries)
	}
	if !reflect.DeepEqual(right.Enclosures, s.Enclosures) {
		t.Errorf("Combine(s, Identity) enclosures = %v, want %v", right.Enclosures, s.Enclosures)
	}
}
