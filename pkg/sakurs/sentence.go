package sakurs

import (
	"strings"
	"unicode"
)

// Sentence is one segment of the input, bounded by Start and End: byte
// offsets into the original input such that input[Start:End] always
// reconstructs the raw slice, whitespace and all, regardless of
// Options.PreserveWhitespace.
type Sentence struct {
	// Text is the sentence content. With PreserveWhitespace it equals
	// input[Start:End] exactly; otherwise it has leading whitespace
	// trimmed while Start/End keep spanning it.
	Text string
	Start int
	End   int
	// Confidence is always 1.0: the underlying scan is a deterministic
	// rule cascade, not a probabilistic model. The field exists so a
	// caller's code written against a probabilistic segmenter still
	// compiles against this one.
	Confidence float64
	// Metadata is populated only when Options.ReturnDetails is set.
	Metadata map[string]string
}

// sentenceAccumulator turns a stream of (bytes, local boundary offsets)
// pairs into Sentence values, carrying over any trailing unterminated
// text between calls so a sentence split across two Flushes (streaming
// mode) or formed from the unterminated tail of the whole input is
// never truncated.
type sentenceAccumulator struct {
	pending      []byte
	pendingStart int64
	preserveWS   bool
	withMetadata bool
}

func newSentenceAccumulator(preserveWS, withMetadata bool) *sentenceAccumulator {
	return &sentenceAccumulator{preserveWS: preserveWS, withMetadata: withMetadata}
}

// feed appends newBytes (the input span starting immediately after
// whatever was fed previously) and newBytes-local boundary offsets,
// returning every Sentence those boundaries now complete. When final is
// true, any unterminated remainder is also emitted as a last Sentence.
func (a *sentenceAccumulator) feed(newBytes []byte, localBoundaries []int, final bool) []Sentence {
	shift := len(a.pending)
	combined := append(a.pending, newBytes...)

	var sentences []Sentence
	prev := 0
	for _, b := range localBoundaries {
		bb := b + shift
		if bb <= prev || bb > len(combined) {
			continue
		}
		sentences = append(sentences, a.build(combined[prev:bb], a.pendingStart+int64(prev), a.pendingStart+int64(bb)))
		prev = bb
	}
	if final && prev < len(combined) {
		sentences = append(sentences, a.build(combined[prev:], a.pendingStart+int64(prev), a.pendingStart+int64(len(combined))))
		prev = len(combined)
	}

	leftover := combined[prev:]
	a.pending = append([]byte(nil), leftover...)
	a.pendingStart += int64(prev)

	return sentences
}

func (a *sentenceAccumulator) build(segment []byte, start, end int64) Sentence {
	text := string(segment)
	if !a.preserveWS {
		text = strings.TrimLeftFunc(text, unicode.IsSpace)
	}
	s := Sentence{
		Text:       text,
		Start:      int(start),
		End:        int(end),
		Confidence: 1.0,
	}
	if a.withMetadata {
		s.Metadata = map[string]string{}
	}
	return s
}
