package executor

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/kuderr/sakurs-go/internal/logging"
	"github.com/kuderr/sakurs-go/pkg/rules"
	"github.com/kuderr/sakurs-go/pkg/sakerr"
	"github.com/kuderr/sakurs-go/pkg/scanner"
	"golang.org/x/time/rate"
)

// Flush is one batch of newly confirmed sentence boundaries a Streamer
// has pulled from its source, together with the raw bytes they fall
// within.
type Flush struct {
	// GlobalOffset is where Bytes begins within the overall input.
	GlobalOffset int64
	// Bytes is the input span this Flush covers, from GlobalOffset to
	// GlobalOffset+len(Bytes).
	Bytes []byte
	// Boundaries are confirmed split points local to Bytes; add
	// GlobalOffset for the absolute input offset.
	Boundaries []int
	// Done reports that the source is exhausted and every boundary has
	// been resolved; no further Flush will follow.
	Done bool
}

// Streamer pulls chunks from src on demand, scanning and combining them
// into a single running ChunkState. The buffered input bytes stay
// bounded by the configured read size plus whatever tail is still
// awaiting reconciliation, never by the size of the whole input; the
// running state's boundary offsets for the whole input are kept. It is
// the pull-based engine behind pkg/sakurs.IterSplit's streaming mode.
//
// Grounded on the teacher's sequential, bufio.Scanner-driven directory
// walk (pull, process, advance one step at a time); here the "pull" is
// an io.Reader read and the "process" is Scan+Combine instead of a file
// stat.
type Streamer struct {
	r         *rules.Rules
	src       io.Reader
	chunkSize int
	limiter   *rate.Limiter
	log       *logging.Logger

	acc         scanner.ChunkState
	pending     []byte // acc[flushedUpTo:acc.Length], not yet flushed
	flushedUpTo int
	chunkIndex  int
	finished    bool
}

// NewStreamer builds a Streamer over src using cfg's buffer size and
// optional read-rate limiter.
func NewStreamer(r *rules.Rules, src io.Reader, cfg Config) *Streamer {
	chunkSize := cfg.resolvedStreamBufferBytes()
	var limiter *rate.Limiter
	if cfg.StreamReadRateKBPerSec > 0 {
		rateBytes := cfg.StreamReadRateKBPerSec * 1024
		// A single Read can hand back up to chunkSize bytes at once, and
		// readChunk calls WaitN with that whole count; a burst smaller
		// than chunkSize would make WaitN fail outright instead of
		// throttling, so the burst always covers one full read.
		burst := rateBytes
		if chunkSize > burst {
			burst = chunkSize
		}
		limiter = rate.NewLimiter(rate.Limit(rateBytes), burst)
	}
	return &Streamer{
		r:         r,
		src:       src,
		chunkSize: chunkSize,
		limiter:   limiter,
		log:       cfg.logger().WithComponent("executor"),
		acc:       scanner.Identity(r.NumEnclosures()),
	}
}

// executeStreamingBytes drives a Streamer to completion over already
// materialized data, for callers of Execute that asked for streaming
// mode explicitly despite having the whole input in hand (e.g. to pin
// down the determinism property against the sequential/parallel paths).
func executeStreamingBytes(ctx context.Context, data []byte, r *rules.Rules, cfg Config) (scanner.ChunkState, error) {
	st := NewStreamer(r, bytes.NewReader(data), cfg)
	for {
		flush, err := st.Next(ctx)
		if err != nil {
			return scanner.ChunkState{}, err
		}
		if flush.Done {
			break
		}
	}
	return st.acc, nil
}

// Next pulls the next chunk (or finalizes at end of stream), returning
// every boundary that is now safe to flush: one whose resolution cannot
// be changed by any later input, under the Δ-stack monoid's
// dangling-edge semantics. Once Done is true on a returned Flush,
// further calls return io.EOF.
func (s *Streamer) Next(ctx context.Context) (Flush, error) {
	if s.finished {
		return Flush{Done: true}, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return Flush{}, &sakerr.CancelledError{}
	}

	chunk, eofHit, err := s.readChunk(ctx)
	if err != nil {
		return Flush{}, err
	}

	isFirst := s.chunkIndex == 0
	s.chunkIndex++

	start := time.Now()
	cs, err := scanner.Scan(chunk, s.r, isFirst, false)
	if err != nil {
		return Flush{}, err
	}
	s.log.LogChunkScan(ctx, s.chunkIndex, len(chunk), len(cs.Boundaries), time.Since(start))

	s.pending = append(s.pending, chunk...)
	s.acc = scanner.Combine(s.r, s.acc, cs)

	if eofHit {
		s.acc = scanner.Finalize(s.r, s.acc)
		s.finished = true
		s.log.LogReduction(ctx, ModeStreaming.String(), s.chunkIndex, len(s.acc.Boundaries), 0)
	}

	return s.drain(s.finished), nil
}

// readChunk fills up to s.chunkSize bytes from src, respecting the
// optional rate limiter, and reports whether the read reached EOF.
func (s *Streamer) readChunk(ctx context.Context) (chunk []byte, eofHit bool, err error) {
	buf := make([]byte, s.chunkSize)
	total := 0
	for total < len(buf) {
		n, rerr := s.src.Read(buf[total:])
		total += n
		if n > 0 && s.limiter != nil {
			if werr := s.limiter.WaitN(ctx, n); werr != nil {
				return nil, false, &sakerr.CancelledError{}
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				eofHit = true
				break
			}
			return nil, false, &sakerr.InputError{Reason: "stream read failed", Err: rerr}
		}
	}
	return buf[:total], eofHit, nil
}

// drain computes the prefix of the accumulated state that is safe to
// flush and slices it out of s.pending/s.acc. Only a DanglingEnd of kind
// DanglingAbbrevConfirm or DanglingEllipsisPending can still retroactively
// insert a boundary earlier than the chunk's end, and only at its own
// anchor offset — so everything before that anchor (or everything, if
// final or if the only dangling condition is a mid-word DanglingTokenRun,
// which never adds a boundary) is already final.
func (s *Streamer) drain(final bool) Flush {
	cut := s.acc.Length
	if !final && s.acc.DanglingEnd != nil {
		switch s.acc.DanglingEnd.Kind {
		case scanner.DanglingAbbrevConfirm, scanner.DanglingEllipsisPending:
			cut = s.acc.DanglingEnd.Offset
		}
	}
	if cut < s.flushedUpTo {
		cut = s.flushedUpTo
	}

	var boundaries []int
	for _, b := range s.acc.Boundaries {
		if b > s.flushedUpTo && b <= cut {
			boundaries = append(boundaries, b-s.flushedUpTo)
		}
	}

	bytesOut := s.pending[:cut-s.flushedUpTo]
	flush := Flush{
		GlobalOffset: int64(s.flushedUpTo),
		Bytes:        bytesOut,
		Boundaries:   boundaries,
		Done:         final,
	}

	s.pending = append([]byte(nil), s.pending[cut-s.flushedUpTo:]...)
	s.flushedUpTo = cut

	return flush
}
