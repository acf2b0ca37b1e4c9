package sakurs

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kuderr/sakurs-go/pkg/sakerr"
)

// decodeBytes transcodes data from encoding into UTF-8. "utf-8" (the
// default) only validates; "ascii" validates that every byte is in the
// 7-bit range; "latin-1" maps each byte to the Unicode code point of
// the same value, which is exact for the entire ISO-8859-1 range and so
// never fails.
func decodeBytes(data []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		if utf8.Valid(data) {
			return data, nil
		}
		return nil, &sakerr.DecodeError{ByteOffset: firstInvalidUTF8(data), Encoding: "utf-8"}
	case "ascii":
		for i, b := range data {
			if b > 0x7F {
				return nil, &sakerr.DecodeError{ByteOffset: i, Encoding: "ascii"}
			}
		}
		return data, nil
	case "latin-1", "latin1", "iso-8859-1":
		out := make([]byte, 0, len(data)*2)
		for _, b := range data {
			out = utf8.AppendRune(out, rune(b))
		}
		return out, nil
	default:
		return nil, sakerr.NewConfigError(fmt.Sprintf("unknown encoding %q", encoding), nil)
	}
}

func firstInvalidUTF8(data []byte) int {
	i := 0
	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return i
}

// wrapEncoded returns r unchanged for UTF-8 (the common case) or a
// transcoding reader for ascii/latin-1. Both of those encodings map one
// input byte to output independently of its neighbours, so no read
// chunk boundary can ever split an encoded unit.
func wrapEncoded(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r
	default:
		return &transcodingReader{src: r, encoding: encoding}
	}
}

type transcodingReader struct {
	src      io.Reader
	encoding string
}

func (t *transcodingReader) Read(p []byte) (int, error) {
	raw := make([]byte, len(p)/2+1)
	n, err := t.src.Read(raw)
	if n == 0 {
		return 0, err
	}
	decoded, derr := decodeBytes(raw[:n], t.encoding)
	if derr != nil {
		return 0, derr
	}
	copy(p, decoded)
	return len(decoded), err
}
