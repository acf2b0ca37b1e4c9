package scanner

import (
	"unicode/utf8"

	"github.com/kuderr/sakurs-go/pkg/rules"
	"github.com/kuderr/sakurs-go/pkg/sakerr"
)

// Scan performs the single forward pass over one chunk, producing the
// ChunkState the combiner later folds together with its neighbors.
// isFirst and isLast tell Scan whether this chunk touches the true
// start/end of the overall input: an ellipsis or suppressed
// abbreviation at the tail of an interior chunk must wait for the next
// chunk's leading rune before its boundary status is known, but the
// same pattern at the tail of the last chunk can be resolved on the
// spot.
//
// The decision cascade at each candidate position is, in priority
// order: enclosure tracking, fast/regex suppression, ellipsis, then
// plain-or-abbreviated terminator.
func Scan(chunk []byte, r *rules.Rules, isFirst, isLast bool) (ChunkState, error) {
	if r == nil {
		return ChunkState{}, sakerr.NewConfigError("Scan requires non-nil rules", nil)
	}

	state := ChunkState{
		Length:     len(chunk),
		Enclosures: make([]EnclosureDelta, r.NumEnclosures()),
	}
	if len(chunk) == 0 {
		return state, nil
	}

	bufPtr := getRuneBuf()
	defer putRuneBuf(bufPtr)
	runes := decodeChunk(chunk, bufPtr)

	depth := make([]int, r.NumEnclosures())
	minDepth := make([]int, r.NumEnclosures())

	var pendingClose *int

	n := len(runes)
	for i := 0; i < n; i++ {
		ri := runes[i]

		if id, opens, symmetric, extending, ok := r.EnclosureAt(ri.r); ok {
			switch {
			case symmetric:
				if depth[id] > 0 {
					depth[id]--
				} else {
					depth[id]++
				}
			case opens:
				depth[id]++
			default:
				depth[id]--
			}
			if depth[id] < minDepth[id] {
				minDepth[id] = depth[id]
			}

			if pendingClose != nil && extending && openExtendingSum(r, depth) == 0 {
				end := ri.off + utf8.RuneLen(ri.r)
				state.Boundaries = append(state.Boundaries, end)
				pendingClose = nil
			}
			continue
		}

		if !isTriggerRune(r, ri.r) {
			continue
		}

		blocked := anyNonExtendingOpen(r, depth)

		if pat, matchLen, ok := matchEllipsis(r, runes, i); ok {
			if !blocked {
				nextRune, ranOut := firstNonSpaceAfter(runes, i+matchLen)
				switch {
				case !ranOut:
					if r.EllipsisBoundaryFor(pat, nextRune, false) {
						end := runes[i+matchLen-1].off + utf8.RuneLen(runes[i+matchLen-1].r)
						state.Boundaries = append(state.Boundaries, end)
					}
				case isLast:
					if r.EllipsisBoundaryFor(pat, 0, true) {
						end := runes[i+matchLen-1].off + utf8.RuneLen(runes[i+matchLen-1].r)
						state.Boundaries = append(state.Boundaries, end)
					}
				default:
					state.DanglingEnd = &DanglingToken{
						Kind:   DanglingEllipsisPending,
						Text:   pat,
						Offset: ri.off,
					}
				}
			}
			i += matchLen - 1
			continue
		}

		if _, matchLen, ok := matchTerminatorPattern(r, runes, i); ok {
			if !blocked {
				end := runes[i+matchLen-1].off + utf8.RuneLen(runes[i+matchLen-1].r)
				state.Boundaries = append(state.Boundaries, end)
			}
			i += matchLen - 1
			continue
		}

		if !r.IsTerminatorChar(ri.r) {
			continue
		}

		before := runeAt(runes, i-1)
		after := runeAt(runes, i+1)
		if r.SuppressesFast(ri.r, before, after) {
			continue
		}

		if r.SuppressesRegex(windowAround(runes, i, regexSuppressWindowRunes)) {
			continue
		}

		if blocked {
			continue
		}

		if token, tokenStart := precedingToken(runes, i); token != "" {
			if matched, multiDot := r.IsAbbreviation(token); matched {
				if multiDot {
					continue
				}
				confirmed, insufficient, spaceSeen := nextIsSentenceStarter(r, runes, i+1, isLast)
				end := ri.off + utf8.RuneLen(ri.r)
				if confirmed {
					state.Boundaries = append(state.Boundaries, end)
				} else if insufficient {
					state.DanglingEnd = &DanglingToken{
						Kind:             DanglingAbbrevConfirm,
						Text:             token,
						Offset:           tokenStart,
						TerminatorOffset: end,
						SpaceSeen:        spaceSeen,
					}
				}
				continue
			}
		}

		end := ri.off + utf8.RuneLen(ri.r)
		if openExtendingSum(r, depth) > 0 {
			o := end
			pendingClose = &o
		} else {
			state.Boundaries = append(state.Boundaries, end)
		}
	}

	for id := 0; id < r.NumEnclosures(); id++ {
		state.Enclosures[id] = EnclosureDelta{Min: minDepth[id], Net: depth[id]}
	}

	state.DanglingStart = leadingDangling(r, runes, isFirst)
	if state.DanglingEnd == nil {
		state.DanglingEnd = trailingDangling(r, runes, isLast)
	}
	state.LeadingWord = computeLeadingWord(runes)

	return state, nil
}
