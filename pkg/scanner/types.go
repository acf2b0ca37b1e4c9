// Package scanner implements the per-chunk scan and the associative
// combine that together form sakurs-go's delta-stack segmentation
// monoid: Scan turns one chunk of text into a ChunkState summarizing
// everything that can be decided from that chunk alone, and Combine
// merges two adjacent ChunkStates into the state their concatenation
// would have produced. Sequential, parallel, and streaming execution
// (pkg/executor) all reduce to the same sequence of Combine calls, so
// a segmentation result never depends on how the input was chunked.
package scanner

// DanglingKind classifies an unresolved decision at a chunk edge that
// depends on content in the neighboring chunk.
type DanglingKind int

const (
	// DanglingNone means the edge carries no open question.
	DanglingNone DanglingKind = iota
	// DanglingTokenRun means the chunk starts or ends mid-word: the
	// edge rune run is letters and/or dots with no bounding
	// whitespace, so it may be a continuation of an abbreviation
	// token that began in the other chunk.
	DanglingTokenRun
	// DanglingAbbrevConfirm means a terminator was tentatively
	// suppressed as an abbreviation, but confirming or reversing that
	// requires seeing whether the next chunk's first word is a
	// configured sentence starter.
	DanglingAbbrevConfirm
	// DanglingEllipsisPending means an ellipsis pattern was matched at
	// the very end of the chunk and its boundary/non-boundary context
	// rule depends on the rune that follows it in the next chunk.
	DanglingEllipsisPending
)

// DanglingToken records an edge condition Scan could not resolve from
// a single chunk.
type DanglingToken struct {
	Kind DanglingKind
	// Text is the raw rune run involved: the dangling word fragment,
	// the matched ellipsis pattern, or the would-be abbreviation token.
	Text string
	// Offset is the local byte offset (within the chunk that produced
	// this dangling token) where Text begins.
	Offset int
	// TerminatorOffset is, for DanglingAbbrevConfirm, the local byte
	// offset immediately after the suppressed terminator rune — where
	// Combine inserts a boundary if confirmation succeeds.
	TerminatorOffset int
	// SpaceSeen is, for DanglingAbbrevConfirm, whether whitespace was
	// already observed between the terminator and the end of the
	// chunk (so Combine knows whether the neighboring chunk's leading
	// word, if any, is itself preceded by a space).
	SpaceSeen bool
}

// EnclosureDelta is the associative summary of how one enclosure pair
// (parentheses, a quote rune, ...) behaves across a chunk: how deep
// the running depth dipped relative to the chunk's start (Min, which
// may be negative if a closer precedes its opener within the chunk),
// and the net change in depth by the chunk's end (Net).
type EnclosureDelta struct {
	Min int
	Net int
}

// combine composes two EnclosureDeltas the way a segment tree combines
// range-min/range-sum: the right side's minimum is offset by the
// left's net depth before taking the overall minimum.
func (a EnclosureDelta) combine(b EnclosureDelta) EnclosureDelta {
	min := a.Min
	if shifted := a.Net + b.Min; shifted < min {
		min = shifted
	}
	return EnclosureDelta{Min: min, Net: a.Net + b.Net}
}

// ChunkState is the Δ-stack monoid element: everything Scan could
// determine about one chunk, plus the unresolved edge conditions
// Combine needs to reconcile against a neighboring chunk.
type ChunkState struct {
	// Length is the byte length of the chunk this state summarizes.
	Length int
	// Boundaries are confirmed sentence-split points, as byte offsets
	// local to this chunk, strictly ascending. A boundary offset is
	// the position immediately following the terminator (and any
	// trailing boundary-extending closing enclosure); it marks where
	// the next sentence begins.
	Boundaries []int
	// Enclosures holds one EnclosureDelta per enclosure id registered
	// in the LanguageRules the chunk was scanned with.
	Enclosures []EnclosureDelta
	// DanglingStart describes an unresolved condition touching byte
	// offset 0 (the chunk may begin mid-word).
	DanglingStart *DanglingToken
	// DanglingEnd describes an unresolved condition touching the
	// chunk's right edge (offset Length).
	DanglingEnd *DanglingToken
	// LeadingWord is the chunk's first complete word-or-dot token,
	// whatever (if anything) precedes it, used by Combine to
	// retroactively confirm a DanglingAbbrevConfirm or
	// DanglingEllipsisPending left by the previous chunk. Nil if the
	// chunk is empty or its first word runs off the chunk's end
	// before a non-word rune is seen.
	LeadingWord *LeadingWord
}

// LeadingWord is a chunk's first complete word, captured so the
// previous chunk's dangling decision can be resolved without needing
// this chunk's raw text.
type LeadingWord struct {
	Text            string
	PrecededBySpace bool
}

// Identity returns the ChunkState for a zero-length chunk: the
// monoid's identity element, satisfying Combine(Identity(n), s) == s
// and Combine(s, Identity(n)) == s for any compatible s.
func Identity(numEnclosures int) ChunkState {
	return ChunkState{
		Enclosures: make([]EnclosureDelta, numEnclosures),
	}
}

// Depth returns the running depth of enclosure id at the end of the
// chunk (the net column), and the minimum depth reached (the min
// column), for callers inspecting final state (e.g. detecting
// unterminated enclosures at end of input).
func (s ChunkState) Depth(id int) (net, min int) {
	if id < 0 || id >= len(s.Enclosures) {
		return 0, 0
	}
	return s.Enclosures[id].Net, s.Enclosures[id].Min
}
