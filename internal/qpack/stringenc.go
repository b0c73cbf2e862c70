package qpack

import "fmt"

// EncodeString encodes a length-prefixed string literal (RFC 9204 §4.1.2)
// with a 7-bit length prefix. The high bit of the first byte is the Huffman
// flag; Huffman compression is not implemented, so requesting it fails with
// ErrNotSupported rather than producing bytes a decoder would misread.
func EncodeString(value string, huffman bool) ([]byte, error) {
	if huffman {
		return nil, fmt.Errorf("huffman string encoding: %w", ErrNotSupported)
	}

	buf, err := EncodeInteger(len(value), 7)
	if err != nil {
		return nil, err
	}

	// High bit already clear = literal bytes follow.
	return append(buf, value...), nil
}
