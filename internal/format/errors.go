package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnsupported indicates a record variant the reader does not decode.
	ErrUnsupported = errors.New("format: unsupported record")
	// ErrSanityLimit indicates a count or length beyond any plausible hive.
	ErrSanityLimit = errors.New("format: sanity limit exceeded")
)
