package sakurs

import "io"

// Input is the sum type Split and IterSplit accept: exactly one of a
// text string, an encoded byte buffer, a filesystem path, or a pull
// reader. It is an unexported interface with four constructor
// functions rather than an exported concrete struct, so a caller can
// never construct an invalid or ambiguous Input by hand.
type Input interface {
	sealedInput()
}

type textInput struct{ s string }

func (textInput) sealedInput() {}

// Text wraps a string as text content. A string is always treated as
// text, never as a path — callers that mean a path use Path instead.
func Text(s string) Input { return textInput{s: s} }

type bytesInput struct {
	data     []byte
	encoding string
}

func (bytesInput) sealedInput() {}

// Bytes wraps a byte buffer declared to be in encoding ("utf-8",
// "ascii", or "latin-1"; empty means "utf-8").
func Bytes(data []byte, encoding string) Input {
	return bytesInput{data: data, encoding: encoding}
}

type pathInput struct{ path string }

func (pathInput) sealedInput() {}

// Path wraps a filesystem path, read fully for sequential/parallel
// modes and lazily (file handle kept open, read incrementally) for
// streaming mode.
func Path(path string) Input { return pathInput{path: path} }

type readerInput struct{ r io.Reader }

func (readerInput) sealedInput() {}

// Reader wraps a pull reader. Non-streaming modes read it to
// completion before scanning; streaming mode drives it incrementally.
func Reader(r io.Reader) Input { return readerInput{r: r} }
