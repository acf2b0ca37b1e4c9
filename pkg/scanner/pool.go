package scanner

import "sync"

// runeInfo pairs a decoded rune with its byte offset in the chunk, so
// the scan pass can do backward and forward lookups by index instead
// of re-decoding UTF-8 at every step.
type runeInfo struct {
	r   rune
	off int
}

// runeBufPool recycles the per-call scratch buffer Scan decodes each
// chunk into. Chunks are scanned one after another on a single
// goroutine in sequential mode, and one per worker in parallel mode
// (pkg/executor), so a sync.Pool keeps allocation off the hot path
// without needing a buffer sized for the worst case up front.
var runeBufPool = sync.Pool{
	New: func() any {
		buf := make([]runeInfo, 0, 4096)
		return &buf
	},
}

func getRuneBuf() *[]runeInfo {
	buf := runeBufPool.Get().(*[]runeInfo)
	*buf = (*buf)[:0]
	return buf
}

func putRuneBuf(buf *[]runeInfo) {
	const maxRetained = 1 << 20 // 1Mi runeInfo entries (~16MiB); drop oversized buffers
	if cap(*buf) > maxRetained {
		return
	}
	runeBufPool.Put(buf)
}
