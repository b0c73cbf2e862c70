package qpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeIntegerSingleByte(t *testing.T) {
	encoded, err := EncodeInteger(10, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a}, encoded)
}

func TestEncodeIntegerPrefixBoundary(t *testing.T) {
	// 31 does not fit a 5-bit prefix (max is 30), so a zero continuation
	// byte follows the full prefix marker.
	encoded, err := EncodeInteger(31, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x00}, encoded)

	encoded, err = EncodeInteger(30, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1e}, encoded)
}

func TestEncodeIntegerMultiByte(t *testing.T) {
	// The worked example from the HPACK spec, which QPACK integers share:
	// 1337 with a 5-bit prefix.
	encoded, err := EncodeInteger(1337, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x9a, 0x0a}, encoded)
}

func TestEncodeIntegerRejectsBadArguments(t *testing.T) {
	_, err := EncodeInteger(-1, 5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = EncodeInteger(10, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = EncodeInteger(10, 9)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIntegerRoundTrip(t *testing.T) {
	values := []int{0, 1, 7, 30, 31, 32, 127, 128, 255, 1337, 16383, 16384, 1 << 21, 1<<30 - 1}

	for prefixBits := 1; prefixBits <= 8; prefixBits++ {
		for _, value := range values {
			encoded, err := EncodeInteger(value, prefixBits)
			require.NoError(t, err)

			decoded, consumed, err := DecodeInteger(encoded, 0, prefixBits)
			require.NoError(t, err, "value %d prefix %d", value, prefixBits)
			assert.Equal(t, value, decoded, "value %d prefix %d", value, prefixBits)
			assert.Equal(t, len(encoded), consumed, "value %d prefix %d", value, prefixBits)
		}
	}
}

func TestDecodeIntegerAtOffset(t *testing.T) {
	data := []byte{0xff, 0x1f, 0x9a, 0x0a}

	value, consumed, err := DecodeInteger(data, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 1337, value)
	assert.Equal(t, 3, consumed)
}

func TestDecodeIntegerMalformed(t *testing.T) {
	// Continuation bit set on the last byte: the encoding is truncated.
	_, _, err := DecodeInteger([]byte{0x1f, 0x9a}, 0, 5)
	assert.ErrorIs(t, err, ErrMalformedInteger)

	_, _, err = DecodeInteger([]byte{0x1f}, 0, 5)
	assert.ErrorIs(t, err, ErrMalformedInteger)

	_, _, err = DecodeInteger([]byte{0x0a}, 1, 5)
	assert.ErrorIs(t, err, ErrMalformedInteger)

	_, _, err = DecodeInteger([]byte{0x0a}, -1, 5)
	assert.ErrorIs(t, err, ErrMalformedInteger)

	_, _, err = DecodeInteger(nil, 0, 5)
	assert.ErrorIs(t, err, ErrMalformedInteger)
}
