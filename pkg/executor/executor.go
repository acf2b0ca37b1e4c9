package executor

import (
	"context"
	"runtime"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kuderr/sakurs-go/internal/logging"
	"github.com/kuderr/sakurs-go/pkg/rules"
	"github.com/kuderr/sakurs-go/pkg/sakerr"
	"github.com/kuderr/sakurs-go/pkg/scanner"
)

// Config tunes how Execute and NewStreamer fan work across the three
// execution modes. The zero value is usable: every field falls back to
// a sensible default.
type Config struct {
	Mode Mode
	// Threads is the parallel-mode worker pool size. 0 means
	// runtime.NumCPU(), matching the teacher's NewConcurrentProcessor
	// default.
	Threads int
	// ChunkBytes is the advisory parallel-mode chunk target size.
	// 0 means defaultChunkBytes.
	ChunkBytes int
	// StreamBufferBytes is the streaming-mode per-read buffer size.
	// 0 means defaultStreamBufferBytes.
	StreamBufferBytes int
	// StreamReadRateKBPerSec throttles streaming-mode reads via a
	// token-bucket limiter. 0 means unlimited.
	StreamReadRateKBPerSec int
	Logger                 *logging.Logger
}

const (
	defaultChunkBytes        = 256 * 1024
	defaultStreamBufferBytes = 4 * 1024 * 1024
)

func (c Config) resolvedThreads() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.NumCPU()
}

func (c Config) resolvedChunkBytes() int {
	if c.ChunkBytes > 0 {
		return c.ChunkBytes
	}
	return defaultChunkBytes
}

func (c Config) resolvedStreamBufferBytes() int {
	if c.StreamBufferBytes > 0 {
		return c.StreamBufferBytes
	}
	return defaultStreamBufferBytes
}

func (c Config) logger() *logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.GetGlobalLogger()
}

// Execute scans data, already fully materialized in memory, under
// cfg.Mode (resolving ModeAdaptive against data's length), and returns
// the fully reduced ChunkState: every boundary resolved, no DanglingEnd
// left pending.
func Execute(ctx context.Context, data []byte, r *rules.Rules, cfg Config) (scanner.ChunkState, error) {
	if r == nil {
		return scanner.ChunkState{}, sakerr.NewConfigError("Execute requires non-nil rules", nil)
	}

	mode := cfg.Mode
	if mode == ModeAdaptive {
		mode = SelectAdaptive(int64(len(data)), true)
	}

	switch mode {
	case ModeSequential:
		return scanner.Scan(data, r, true, true)
	case ModeParallel:
		return executeParallel(ctx, data, r, cfg)
	case ModeStreaming:
		return executeStreamingBytes(ctx, data, r, cfg)
	default:
		return scanner.ChunkState{}, sakerr.NewConfigError("unknown execution mode", nil)
	}
}

type chunkJob struct {
	index           int
	data            []byte
	isFirst, isLast bool
}

type chunkResult struct {
	index int
	state scanner.ChunkState
	err   error
}

// executeParallel splits data at UTF-8-safe boundaries, dispatches each
// chunk to a fixed-size worker pool (jobs channel, results channel,
// sync.WaitGroup), and reduces the per-chunk states with a balanced
// tree of scanner.Combine calls that preserves input order. Grounded on
// the teacher's pkg/output.ConcurrentProcessor.ProcessPagesParallel
// worker-pool shape, generalized from one worker per wiki page to one
// worker per chunk scan.
func executeParallel(ctx context.Context, data []byte, r *rules.Rules, cfg Config) (scanner.ChunkState, error) {
	log := cfg.logger().WithComponent("executor")

	raw := splitUTF8Chunks(data, cfg.resolvedChunkBytes())
	jobs := make([]chunkJob, len(raw))
	for i, c := range raw {
		jobs[i] = chunkJob{index: i, data: c, isFirst: i == 0, isLast: i == len(raw)-1}
	}

	workers := cfg.resolvedThreads()
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	jobCh := make(chan chunkJob, len(jobs))
	resultCh := make(chan chunkResult, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobCh {
				select {
				case <-ctx.Done():
					resultCh <- chunkResult{index: job.index, err: ctx.Err()}
					continue
				default:
				}

				start := time.Now()
				state, err := scanner.Scan(job.data, r, job.isFirst, job.isLast)
				log.LogChunkScan(ctx, job.index, len(job.data), len(state.Boundaries), time.Since(start))
				resultCh <- chunkResult{index: job.index, state: state, err: err}
			}
		}(w)
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	states := make([]scanner.ChunkState, len(jobs))
	var firstErr error
	for res := range resultCh {
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		states[res.index] = res.state
	}

	if ctx.Err() != nil {
		return scanner.ChunkState{}, &sakerr.CancelledError{}
	}
	if firstErr != nil {
		return scanner.ChunkState{}, firstErr
	}

	start := time.Now()
	merged, err := treeReduce(ctx, r, states)
	if err != nil {
		return scanner.ChunkState{}, err
	}
	log.LogReduction(ctx, ModeParallel.String(), len(jobs), len(merged.Boundaries), time.Since(start))

	return merged, nil
}

// treeReduce folds states left-to-right in a balanced tree: pair up
// neighbours, combine, repeat. Reduction is associative but never
// commutative, so pairing only ever happens between elements that are
// adjacent in the original, order-preserving slice.
func treeReduce(ctx context.Context, r *rules.Rules, states []scanner.ChunkState) (scanner.ChunkState, error) {
	if len(states) == 0 {
		return scanner.Identity(r.NumEnclosures()), nil
	}
	for len(states) > 1 {
		if err := ctx.Err(); err != nil {
			return scanner.ChunkState{}, &sakerr.CancelledError{}
		}
		next := make([]scanner.ChunkState, 0, (len(states)+1)/2)
		for i := 0; i < len(states); i += 2 {
			if i+1 < len(states) {
				next = append(next, scanner.Combine(r, states[i], states[i+1]))
			} else {
				next = append(next, states[i])
			}
		}
		states = next
	}
	return states[0], nil
}

// splitUTF8Chunks divides data into chunks of roughly target bytes,
// never cutting a multi-byte rune in half. Chunk size is advisory; the
// cut lands on the nearest preceding scalar boundary, or on the next
// one after it when target is smaller than a single rune's encoding.
func splitUTF8Chunks(data []byte, target int) [][]byte {
	if target <= 0 {
		target = defaultChunkBytes
	}
	if len(data) == 0 {
		return [][]byte{data}
	}

	var chunks [][]byte
	start := 0
	n := len(data)
	for start < n {
		end := start + target
		if end >= n {
			end = n
		} else {
			for end > start && !utf8.RuneStart(data[end]) {
				end--
			}
			if end == start {
				// target is smaller than a single rune's encoding;
				// extend forward instead of producing an empty chunk.
				end = start + target
				for end < n && !utf8.RuneStart(data[end]) {
					end++
				}
			}
		}
		chunks = append(chunks, data[start:end])
		start = end
	}
	return chunks
}
