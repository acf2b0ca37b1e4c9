package scanner

import (
	"unicode"
	"unicode/utf8"

	"github.com/kuderr/sakurs-go/pkg/rules"
)

func isWordRune(r rune) bool { return unicode.IsLetter(r) }
func isSpaceRune(r rune) bool { return unicode.IsSpace(r) }

func decodeChunk(chunk []byte, bufPtr *[]runeInfo) []runeInfo {
	buf := *bufPtr
	i := 0
	for i < len(chunk) {
		r, size := utf8.DecodeRune(chunk[i:])
		buf = append(buf, runeInfo{r: r, off: i})
		i += size
	}
	*bufPtr = buf
	return buf
}

// firstNonSpaceAfter skips whitespace starting at index i and returns
// the next rune, or ranOut=true if the chunk ends first.
func firstNonSpaceAfter(runes []runeInfo, i int) (r rune, ranOut bool) {
	n := len(runes)
	for i < n && isSpaceRune(runes[i].r) {
		i++
	}
	if i >= n {
		return 0, true
	}
	return runes[i].r, false
}

// regexSuppressWindowRunes bounds how much surrounding text a general
// regex suppression rule gets to inspect around a candidate terminator,
// on each side. Wide enough to match real-world vetoes (URLs, version
// strings, citation markers) without scanning the whole chunk per
// candidate.
const regexSuppressWindowRunes = 16

// windowAround builds the text surrounding runes[i] (inclusive) out to
// radius runes on each side, clipped to the chunk's bounds, for regex
// suppression matching.
func windowAround(runes []runeInfo, i, radius int) string {
	lo := i - radius
	if lo < 0 {
		lo = 0
	}
	hi := i + radius + 1
	if hi > len(runes) {
		hi = len(runes)
	}
	var b []byte
	for k := lo; k < hi; k++ {
		b = utf8.AppendRune(b, runes[k].r)
	}
	return string(b)
}

func runeAt(runes []runeInfo, i int) rune {
	if i < 0 || i >= len(runes) {
		return 0
	}
	return runes[i].r
}

func isFirstRuneOfAny(patterns []string, ru rune) bool {
	for _, p := range patterns {
		pr := []rune(p)
		if len(pr) > 0 && pr[0] == ru {
			return true
		}
	}
	return false
}

func isTriggerRune(r *rules.Rules, ru rune) bool {
	return r.IsTerminatorChar(ru) ||
		isFirstRuneOfAny(r.EllipsisPatterns(), ru) ||
		isFirstRuneOfAny(r.TerminatorPatterns(), ru)
}

// matchEllipsis checks every configured ellipsis pattern (longest
// first) against runes starting at i.
func matchEllipsis(r *rules.Rules, runes []runeInfo, i int) (pattern string, runeLen int, ok bool) {
	for _, p := range r.EllipsisPatterns() {
		pr := []rune(p)
		if runesEqual(runes, i, pr) {
			return p, len(pr), true
		}
	}
	return "", 0, false
}

// matchTerminatorPattern checks every configured multi-rune terminator
// pattern (longest first) against runes starting at i.
func matchTerminatorPattern(r *rules.Rules, runes []runeInfo, i int) (pattern string, runeLen int, ok bool) {
	for _, p := range r.TerminatorPatterns() {
		pr := []rune(p)
		if runesEqual(runes, i, pr) {
			return p, len(pr), true
		}
	}
	return "", 0, false
}

func runesEqual(runes []runeInfo, i int, want []rune) bool {
	if i+len(want) > len(runes) {
		return false
	}
	for k, w := range want {
		if runes[i+k].r != w {
			return false
		}
	}
	return true
}

// precedingToken collects the maximal run of letters and dots ending
// immediately before index i, returning it and the byte offset where
// it starts. Used to test whether a terminator's preceding word is a
// configured abbreviation.
func precedingToken(runes []runeInfo, i int) (token string, startOffset int) {
	j := i - 1
	for j >= 0 && (runes[j].r == '.' || isWordRune(runes[j].r)) {
		j--
	}
	start := j + 1
	if start == i {
		return "", i
	}
	var b []byte
	for k := start; k < i; k++ {
		b = utf8.AppendRune(b, runes[k].r)
	}
	return string(b), runes[start].off
}

// nextIsSentenceStarter looks ahead from index i (the rune after a
// suppressed terminator) for a configured sentence-starter word.
// insufficient reports that the chunk ran out of runes before the
// lookahead could be completed, so the caller must defer to Combine.
func nextIsSentenceStarter(r *rules.Rules, runes []runeInfo, i int, isLast bool) (confirmed, insufficient, spaceSeen bool) {
	n := len(runes)
	if !r.RequireFollowingSpace() {
		spaceSeen = true
	}

	if i >= n {
		return false, !isLast, spaceSeen
	}

	if r.RequireFollowingSpace() {
		if !isSpaceRune(runes[i].r) {
			return false, false, false
		}
		for i < n && isSpaceRune(runes[i].r) {
			i++
		}
		spaceSeen = true
		if i >= n {
			return false, !isLast, spaceSeen
		}
	}

	start := i
	for i < n && (runes[i].r == '.' || isWordRune(runes[i].r)) {
		i++
	}
	if i == start {
		return false, false, spaceSeen
	}
	if i >= n {
		// A word began but was cut off by the chunk boundary. Rather
		// than defer, resolve conservatively: stay suppressed. Only a
		// following word with no chunk boundary in the middle of it is
		// ever deferred to Combine.
		return false, false, spaceSeen
	}

	var b []byte
	for k := start; k < i; k++ {
		b = utf8.AppendRune(b, runes[k].r)
	}
	return r.IsSentenceStarter(string(b)), false, spaceSeen
}

// computeLeadingWord finds the chunk's first complete word-or-dot
// token, or a leading run of digits, skipping any leading whitespace,
// so Combine can resolve a dangling decision left by the previous
// chunk without needing this chunk's raw text. A digit run is
// captured separately from word runes so a chunk boundary that falls
// right before a number (e.g. the followed_by_digit ellipsis context
// rule) still resolves correctly across the split. It returns nil if
// the chunk has no leading token (e.g. starts with punctuation) or if
// the token is not terminated before the chunk ends, since a truncated
// token can't be checked against the sentence-starter/ellipsis rules
// with confidence.
func computeLeadingWord(runes []runeInfo) *LeadingWord {
	n := len(runes)
	i := 0
	sawSpace := false
	for i < n && isSpaceRune(runes[i].r) {
		i++
		sawSpace = true
	}
	if i >= n {
		return nil
	}
	start := i
	if unicode.IsDigit(runes[i].r) {
		for i < n && unicode.IsDigit(runes[i].r) {
			i++
		}
	} else {
		for i < n && (runes[i].r == '.' || isWordRune(runes[i].r)) {
			i++
		}
	}
	if i == start || i >= n {
		return nil
	}
	var b []byte
	for k := start; k < i; k++ {
		b = utf8.AppendRune(b, runes[k].r)
	}
	return &LeadingWord{Text: string(b), PrecededBySpace: sawSpace}
}

func anyNonExtendingOpen(r *rules.Rules, depth []int) bool {
	for id, d := range depth {
		if d > 0 && !r.Extending(id) {
			return true
		}
	}
	return false
}

func openExtendingSum(r *rules.Rules, depth []int) int {
	sum := 0
	for id, d := range depth {
		if d > 0 && r.Extending(id) {
			sum += d
		}
	}
	return sum
}

// leadingDangling reports whether the chunk begins mid-word (no
// preceding whitespace captured within the chunk itself), which may
// mean it continues an abbreviation token started in the previous
// chunk.
func leadingDangling(r *rules.Rules, runes []runeInfo, isFirst bool) *DanglingToken {
	if isFirst || len(runes) == 0 {
		return nil
	}
	if !(runes[0].r == '.' || isWordRune(runes[0].r)) {
		return nil
	}
	i := 0
	for i < len(runes) && (runes[i].r == '.' || isWordRune(runes[i].r)) {
		i++
	}
	var b []byte
	for k := 0; k < i; k++ {
		b = utf8.AppendRune(b, runes[k].r)
	}
	return &DanglingToken{Kind: DanglingTokenRun, Text: string(b), Offset: 0}
}

// trailingDangling reports whether the chunk ends mid-word, which may
// mean the token continues into the next chunk.
func trailingDangling(r *rules.Rules, runes []runeInfo, isLast bool) *DanglingToken {
	if isLast || len(runes) == 0 {
		return nil
	}
	last := len(runes) - 1
	if !(runes[last].r == '.' || isWordRune(runes[last].r)) {
		return nil
	}
	i := last
	for i >= 0 && (runes[i].r == '.' || isWordRune(runes[i].r)) {
		i--
	}
	start := i + 1
	var b []byte
	for k := start; k <= last; k++ {
		b = utf8.AppendRune(b, runes[k].r)
	}
	return &DanglingToken{Kind: DanglingTokenRun, Text: string(b), Offset: runes[start].off}
}
