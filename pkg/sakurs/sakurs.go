// Package sakurs is the public façade over sakurs-go's sentence
// boundary engine: pkg/rules compiles a language's LanguageRules,
// pkg/scanner and pkg/executor do the actual Δ-stack monoid scanning
// and reduction, and this package turns the result into Sentence values
// a caller can use without ever touching those lower layers directly.
package sakurs

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/kuderr/sakurs-go/pkg/executor"
	"github.com/kuderr/sakurs-go/pkg/sakerr"
)

// Split segments in into sentences under opts (DefaultOptions() if
// nil), reading and scanning it to completion before returning.
func Split(in Input, opts *Options) (sentences []Sentence, err error) {
	defer func() {
		if r := recover(); r != nil {
			sentences = nil
			err = &sakerr.InternalError{Reason: "panic during Split", Err: fmt.Errorf("%v", r)}
		}
	}()

	o := fillDefaults(opts)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	rs, err := resolveRules(o)
	if err != nil {
		return nil, err
	}

	ctx := o.Cancel
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := materialize(in, o.Encoding)
	if err != nil {
		return nil, err
	}

	state, err := executor.Execute(ctx, data, rs, execConfig(o))
	if err != nil {
		return nil, err
	}

	acc := newSentenceAccumulator(o.PreserveWhitespace, o.ReturnDetails)
	return acc.feed(data, state.Boundaries, true), nil
}

// IterSplit segments in lazily, yielding each Sentence as soon as it is
// confirmed. For Text/Bytes/Path input under sequential or parallel
// mode, the whole input is still scanned up front (those modes have no
// partial-result shape) and sentences are yielded from the result one
// at a time; streaming mode and any explicit streaming request over a
// Reader yield sentences as they are confirmed from the source.
//
// The sequence yields (Sentence{}, err) and stops on the first error,
// including validation errors and a recovered panic. A caller that
// stops consuming early (breaking out of a range loop) leaves any
// opened file handle closed via a deferred Close.
func IterSplit(in Input, opts *Options) iter.Seq2[Sentence, error] {
	return func(yield func(Sentence, error) bool) {
		defer func() {
			if r := recover(); r != nil {
				yield(Sentence{}, &sakerr.InternalError{Reason: "panic during IterSplit", Err: fmt.Errorf("%v", r)})
			}
		}()

		o := fillDefaults(opts)
		if err := o.Validate(); err != nil {
			yield(Sentence{}, err)
			return
		}
		rs, err := resolveRules(o)
		if err != nil {
			yield(Sentence{}, err)
			return
		}

		ctx := o.Cancel
		if ctx == nil {
			ctx = context.Background()
		}

		mode, _ := executor.ParseMode(o.ExecutionMode)
		useStreaming := mode == executor.ModeStreaming
		if mode == executor.ModeAdaptive {
			switch v := in.(type) {
			case readerInput:
				// An arbitrary reader cannot be sized without consuming
				// it, so adaptive mode always streams it.
				useStreaming = true
			case pathInput:
				if fi, statErr := os.Stat(v.path); statErr == nil {
					useStreaming = executor.SelectAdaptive(fi.Size(), true) == executor.ModeStreaming
				}
			}
		}

		if !useStreaming {
			data, err := materialize(in, o.Encoding)
			if err != nil {
				yield(Sentence{}, err)
				return
			}
			state, err := executor.Execute(ctx, data, rs, execConfig(o))
			if err != nil {
				yield(Sentence{}, err)
				return
			}
			acc := newSentenceAccumulator(o.PreserveWhitespace, o.ReturnDetails)
			for _, s := range acc.feed(data, state.Boundaries, true) {
				if !yield(s, nil) {
					return
				}
			}
			return
		}

		src, closer, err := resolveStreamReader(in, o.Encoding)
		if err != nil {
			yield(Sentence{}, err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}

		streamer := executor.NewStreamer(rs, src, execConfig(o))
		acc := newSentenceAccumulator(o.PreserveWhitespace, o.ReturnDetails)
		for {
			flush, err := streamer.Next(ctx)
			if err != nil {
				if err == io.EOF {
					return
				}
				yield(Sentence{}, err)
				return
			}
			for _, s := range acc.feed(flush.Bytes, flush.Boundaries, flush.Done) {
				if !yield(s, nil) {
					return
				}
			}
			if flush.Done {
				return
			}
		}
	}
}
