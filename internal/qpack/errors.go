package qpack

import "errors"

// Failure kinds a harness needs to branch on with errors.Is. Configuration
// mistakes, protocol-logic violations and the unsupported Huffman path stay
// distinct kinds.
var (
	ErrInvalidArgument      = errors.New("qpack: invalid argument")
	ErrNotSupported         = errors.New("qpack: not supported")
	ErrCapacityExceedsLimit = errors.New("qpack: capacity exceeds server limit")
	ErrEntryTooLarge        = errors.New("qpack: entry too large for table")
	ErrIndexOutOfRange      = errors.New("qpack: index out of range")
	ErrMalformedInteger     = errors.New("qpack: malformed integer encoding")
)
