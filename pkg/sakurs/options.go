package sakurs

import (
	"context"
	"fmt"
	"strings"

	"github.com/kuderr/sakurs-go/pkg/executor"
	"github.com/kuderr/sakurs-go/pkg/rules"
	"github.com/kuderr/sakurs-go/pkg/sakerr"
)

// Options carries every knob governing how Split and IterSplit execute.
// The zero value is not directly usable (Language is empty); callers
// start from DefaultOptions and override what they need.
type Options struct {
	// Language selects a bundled LanguageRules set ("en", "ja").
	// Ignored when LanguageRules is set.
	Language string
	// LanguageRules, if set, is used directly instead of resolving
	// Language against the bundled set.
	LanguageRules *rules.Rules

	// ExecutionMode is "adaptive", "sequential", "parallel", or
	// "streaming". Empty means "adaptive".
	ExecutionMode string
	// Threads bounds the parallel-mode worker pool. 0 means
	// runtime.NumCPU().
	Threads int
	// ChunkKB is the parallel-mode chunk target size in KiB. 0 means
	// the executor default.
	ChunkKB int
	// StreamChunkMB is the streaming-mode read buffer size in MiB. 0
	// means the executor default.
	StreamChunkMB int
	// StreamReadRateKBPerSec throttles streaming-mode reads. 0 means
	// unlimited.
	StreamReadRateKBPerSec int

	// PreserveWhitespace keeps each Sentence.Text exactly equal to
	// input[Start:End], including any leading whitespace carried over
	// from the previous boundary. When false, Text is trimmed of
	// leading whitespace but Start/End still span it, so
	// input[Start:End] always reconstructs the raw slice.
	PreserveWhitespace bool
	// ReturnDetails requests per-sentence Metadata. When false,
	// Metadata is left nil to avoid the allocation.
	ReturnDetails bool
	// Encoding declares the byte encoding of Bytes/Path/Reader input:
	// "utf-8" (default), "ascii", or "latin-1".
	Encoding string

	// Cancel, if set, lets a caller stop a Split/IterSplit call
	// in progress. Sentences already produced remain valid.
	Cancel context.Context
}

// DefaultOptions returns the Options Split and IterSplit use when given
// a nil Options pointer: English, adaptive mode, UTF-8.
func DefaultOptions() *Options {
	return &Options{
		Language:      "en",
		ExecutionMode: "adaptive",
		ChunkKB:       256,
		StreamChunkMB: 4,
		Encoding:      "utf-8",
	}
}

// fillDefaults returns a copy of o with empty fields replaced by their
// defaults, or DefaultOptions() if o is nil.
func fillDefaults(o *Options) *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.ExecutionMode == "" {
		out.ExecutionMode = "adaptive"
	}
	if out.ChunkKB == 0 {
		out.ChunkKB = 256
	}
	if out.StreamChunkMB == 0 {
		out.StreamChunkMB = 4
	}
	if out.Encoding == "" {
		out.Encoding = "utf-8"
	}
	if out.Language == "" && out.LanguageRules == nil {
		out.Language = "en"
	}
	return &out
}

// Validate rejects an invalid combination of options before any
// scanning begins, mirroring the teacher's cascade of named config
// checks.
func (o *Options) Validate() error {
	if _, ok := executor.ParseMode(o.ExecutionMode); !ok {
		return sakerr.NewConfigError(fmt.Sprintf("unknown execution mode %q", o.ExecutionMode), nil)
	}
	if o.Threads < 0 {
		return sakerr.NewConfigError("threads cannot be negative", nil)
	}
	if o.ChunkKB <= 0 {
		return sakerr.NewConfigError("chunk_kb must be positive", nil)
	}
	if o.StreamChunkMB <= 0 {
		return sakerr.NewConfigError("stream_chunk_mb must be positive", nil)
	}
	if o.StreamReadRateKBPerSec < 0 {
		return sakerr.NewConfigError("stream_read_rate_kb_per_sec cannot be negative", nil)
	}
	switch strings.ToLower(o.Encoding) {
	case "utf-8", "utf8", "ascii", "latin-1", "latin1", "iso-8859-1":
	default:
		return sakerr.NewConfigError(fmt.Sprintf("unknown encoding %q", o.Encoding), nil)
	}
	if o.LanguageRules == nil && o.Language == "" {
		return sakerr.NewConfigError("either Language or LanguageRules must be set", nil)
	}
	return nil
}

func resolveRules(o *Options) (*rules.Rules, error) {
	if o.LanguageRules != nil {
		return o.LanguageRules, nil
	}
	return rules.Bundled(o.Language)
}

func execConfig(o *Options) executor.Config {
	mode, _ := executor.ParseMode(o.ExecutionMode)
	return executor.Config{
		Mode:                   mode,
		Threads:                o.Threads,
		ChunkBytes:             o.ChunkKB * 1024,
		StreamBufferBytes:      o.StreamChunkMB * 1024 * 1024,
		StreamReadRateKBPerSec: o.StreamReadRateKBPerSec,
	}
}
