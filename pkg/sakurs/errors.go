package sakurs

import "github.com/kuderr/sakurs-go/pkg/sakerr"

// The error taxonomy is defined once, in the leaf package pkg/sakerr,
// and aliased here so callers never need to import it directly. Use
// errors.As against these types to distinguish failure kinds.
type (
	ConfigError              = sakerr.ConfigError
	UnsupportedLanguageError = sakerr.UnsupportedLanguageError
	DecodeError              = sakerr.DecodeError
	InputError               = sakerr.InputError
	CancelledError           = sakerr.CancelledError
	InternalError            = sakerr.InternalError
)
