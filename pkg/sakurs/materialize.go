package sakurs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kuderr/sakurs-go/pkg/sakerr"
)

// materialize reads in fully into memory, decoding it under encoding.
// Used by Split and by IterSplit's non-streaming modes, where the whole
// input is scanned in one call anyway.
func materialize(in Input, encoding string) ([]byte, error) {
	switch v := in.(type) {
	case textInput:
		return []byte(v.s), nil
	case bytesInput:
		enc := v.encoding
		if enc == "" {
			enc = encoding
		}
		return decodeBytes(v.data, enc)
	case pathInput:
		data, err := os.ReadFile(v.path)
		if err != nil {
			return nil, &sakerr.InputError{Reason: fmt.Sprintf("cannot read %s", v.path), Err: err}
		}
		return decodeBytes(data, encoding)
	case readerInput:
		data, err := io.ReadAll(v.r)
		if err != nil {
			return nil, &sakerr.InputError{Reason: "cannot read input reader", Err: err}
		}
		return decodeBytes(data, encoding)
	default:
		return nil, sakerr.NewConfigError("unrecognized Input implementation", nil)
	}
}

// resolveStreamReader opens in as an io.Reader for streaming mode,
// wrapping it with encoding transcoding as needed, and returns a closer
// to release any file handle it opened.
func resolveStreamReader(in Input, encoding string) (io.Reader, io.Closer, error) {
	switch v := in.(type) {
	case textInput:
		return strings.NewReader(v.s), nil, nil
	case bytesInput:
		enc := v.encoding
		if enc == "" {
			enc = encoding
		}
		return wrapEncoded(bytes.NewReader(v.data), enc), nil, nil
	case pathInput:
		f, err := os.Open(v.path)
		if err != nil {
			return nil, nil, &sakerr.InputError{Reason: fmt.Sprintf("cannot open %s", v.path), Err: err}
		}
		return wrapEncoded(f, encoding), f, nil
	case readerInput:
		return wrapEncoded(v.r, encoding), nil, nil
	default:
		return nil, nil, sakerr.NewConfigError("unrecognized Input implementation", nil)
	}
}
