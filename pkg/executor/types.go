// Package executor orchestrates pkg/scanner's Scan and Combine under one
// of three execution modes, so the same LanguageRules bundle produces an
// identical sentence boundary sequence whether the input was scanned in
// one pass, fanned out across a worker pool, or pulled incrementally from
// a stream.
package executor

import "fmt"

// Mode selects how an input is scanned and reduced.
type Mode int

const (
	// ModeAdaptive picks Sequential, Parallel, or Streaming based on the
	// input's size and whether it is fully materialised in memory.
	ModeAdaptive Mode = iota
	// ModeSequential scans the whole input in a single Scan call.
	ModeSequential
	// ModeParallel splits the input into chunks scanned concurrently by
	// a worker pool, then reduced with a balanced-tree Combine pass.
	ModeParallel
	// ModeStreaming pulls bytes from a reader into a rolling buffer,
	// scanning and combining incrementally with bounded memory.
	ModeStreaming
)

func (m Mode) String() string {
	switch m {
	case ModeAdaptive:
		return "adaptive"
	case ModeSequential:
		return "sequential"
	case ModeParallel:
		return "parallel"
	case ModeStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts one of the external mode names ("sequential",
// "parallel", "streaming", "adaptive") into a Mode.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "adaptive", "":
		return ModeAdaptive, true
	case "sequential":
		return ModeSequential, true
	case "parallel":
		return ModeParallel, true
	case "streaming":
		return ModeStreaming, true
	default:
		return ModeAdaptive, false
	}
}

// Default size policy for adaptive mode selection. Below
// sequentialThreshold, the overhead of chunking and reducing is not worth
// it. Between that and parallelCeiling, the whole input is materialised
// and split across the worker pool. Above parallelCeiling, the input is
// assumed too large (or its source too slow) to hold entirely in memory
// at once, and streaming is used instead.
const (
	sequentialThresholdBytes = 64 * 1024
	parallelCeilingBytes     = 64 * 1024 * 1024
)

// SelectAdaptive resolves ModeAdaptive to a concrete mode given the input
// size (in bytes, -1 if unknown because the source is an unbounded
// reader) and whether the caller already has the full input in memory.
func SelectAdaptive(sizeHint int64, materialised bool) Mode {
	if sizeHint >= 0 && sizeHint <= sequentialThresholdBytes {
		return ModeSequential
	}
	if materialised && (sizeHint < 0 || sizeHint <= parallelCeilingBytes) {
		return ModeParallel
	}
	return ModeStreaming
}
