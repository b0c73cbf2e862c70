// Package qpack generates QPACK encoder stream instructions (RFC 9204) and
// tracks the dynamic table state a conformant receiver would compute from
// them. All generated instructions are strictly RFC-compliant; only their
// ordering is left to the caller.
package qpack

import "fmt"

// EncodeInteger encodes value as a QPACK prefixed integer (RFC 9204 §4.1.1).
// prefixBits is the number of low bits of the first byte available for the
// integer, 1 through 8. The caller ORs any instruction pattern bits into the
// first byte afterwards.
func EncodeInteger(value, prefixBits int) ([]byte, error) {
	if value < 0 {
		return nil, fmt.Errorf("integer value must be non-negative, got %d: %w", value, ErrInvalidArgument)
	}
	if prefixBits < 1 || prefixBits > 8 {
		return nil, fmt.Errorf("prefix width must be between 1 and 8, got %d: %w", prefixBits, ErrInvalidArgument)
	}

	maxPrefix := (1 << prefixBits) - 1
	if value < maxPrefix {
		return []byte{byte(value)}, nil
	}

	buf := []byte{byte(maxPrefix)}
	value -= maxPrefix
	for value >= 0x80 {
		buf = append(buf, byte(value&0x7F)|0x80)
		value >>= 7
	}
	buf = append(buf, byte(value))

	return buf, nil
}

// DecodeInteger is the inverse of EncodeInteger, starting at data[offset].
// It returns the decoded value and the number of bytes consumed.
func DecodeInteger(data []byte, offset, prefixBits int) (int, int, error) {
	if prefixBits < 1 || prefixBits > 8 {
		return 0, 0, fmt.Errorf("prefix width must be between 1 and 8, got %d: %w", prefixBits, ErrInvalidArgument)
	}
	if offset < 0 || offset >= len(data) {
		return 0, 0, fmt.Errorf("offset %d beyond data length %d: %w", offset, len(data), ErrMalformedInteger)
	}

	maxPrefix := (1 << prefixBits) - 1
	value := int(data[offset]) & maxPrefix
	consumed := 1

	if value < maxPrefix {
		return value, consumed, nil
	}

	shift := 0
	for {
		if offset+consumed >= len(data) {
			return 0, 0, fmt.Errorf("truncated continuation bytes: %w", ErrMalformedInteger)
		}
		b := data[offset+consumed]
		consumed++
		value += int(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}

	return value, consumed, nil
}
