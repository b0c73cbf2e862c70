package qpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderSetCapacity(t *testing.T) {
	enc := NewEncoder(100)

	instruction, err := enc.SetCapacity(100)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x3f, 0x45}, instruction)
	assert.Equal(t, 100, enc.Table().Capacity())
	assert.Equal(t, 0, enc.Table().Len())

	// Decoding the emitted capacity back out is the sanity check the
	// decode path exists for.
	value, consumed, err := DecodeInteger(instruction, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, value)
	assert.Equal(t, len(instruction), consumed)
}

func TestEncoderSetCapacityExceedsLimit(t *testing.T) {
	enc := NewEncoder(100)

	_, err := enc.SetCapacity(101)
	assert.ErrorIs(t, err, ErrCapacityExceedsLimit)
	assert.Equal(t, 0, enc.Table().Capacity())

	enc.SetMaxTableCapacity(4096)
	_, err = enc.SetCapacity(101)
	assert.NoError(t, err)
	assert.Equal(t, 101, enc.Table().Capacity())
}

func TestEncoderInsertWithLiteralName(t *testing.T) {
	enc := NewEncoder(100)
	_, err := enc.SetCapacity(100)
	require.NoError(t, err)

	instruction, err := enc.InsertWithLiteralName("x", "y")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 'x', 0x01, 'y'}, instruction)
	assert.Equal(t, []Entry{{"x", "y"}}, enc.Table().Entries())
	assert.Equal(t, 1, enc.Table().InsertCount())
	assert.Equal(t, 34, enc.Table().CurrentSize())
}

func TestEncoderInsertWithNameRefStatic(t *testing.T) {
	enc := NewEncoder(4096)
	_, err := enc.SetCapacity(4096)
	require.NoError(t, err)

	// Static index 1 is :path, so the tracked entry carries that name.
	instruction, err := enc.InsertWithNameRef(1, "/index.html", true)
	require.NoError(t, err)
	assert.Equal(t, byte(0xc1), instruction[0])
	assert.Equal(t, []Entry{{":path", "/index.html"}}, enc.Table().Entries())
	assert.Equal(t, 48, enc.Table().CurrentSize())
}

func TestEncoderInsertWithNameRefStaticOutOfRange(t *testing.T) {
	enc := NewEncoder(4096)
	_, err := enc.SetCapacity(4096)
	require.NoError(t, err)

	_, err = enc.InsertWithNameRef(99, "v", true)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 0, enc.Table().Len())
	assert.Equal(t, 0, enc.Table().InsertCount())
}

func TestEncoderInsertWithNameRefDynamic(t *testing.T) {
	enc := NewEncoder(4096)
	_, err := enc.SetCapacity(4096)
	require.NoError(t, err)

	_, err = enc.InsertWithLiteralName("x-probe", "1")
	require.NoError(t, err)

	instruction, err := enc.InsertWithNameRef(0, "2", false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x01, '2'}, instruction)
	assert.Equal(t, []Entry{{"x-probe", "2"}, {"x-probe", "1"}}, enc.Table().Entries())
}

func TestEncoderInsertWithNameRefDynamicOutOfRange(t *testing.T) {
	enc := NewEncoder(4096)
	_, err := enc.SetCapacity(4096)
	require.NoError(t, err)

	_, err = enc.InsertWithNameRef(5, "", false)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 0, enc.Table().Len())
	assert.Equal(t, 0, enc.Table().InsertCount())
}

func TestEncoderDuplicate(t *testing.T) {
	enc := NewEncoder(100)
	_, err := enc.SetCapacity(100)
	require.NoError(t, err)
	_, err = enc.InsertWithLiteralName("x", "y")
	require.NoError(t, err)

	instruction, err := enc.Duplicate(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, instruction)
	assert.Equal(t, []Entry{{"x", "y"}, {"x", "y"}}, enc.Table().Entries())
	assert.Equal(t, 2, enc.Table().InsertCount())

	_, err = enc.Duplicate(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestEncoderShrinkCapacityEvicts(t *testing.T) {
	enc := NewEncoder(100)
	_, err := enc.SetCapacity(100)
	require.NoError(t, err)
	_, err = enc.InsertWithLiteralName("x", "y")
	require.NoError(t, err)

	instruction, err := enc.SetCapacity(30)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x3e}, instruction)
	assert.Equal(t, 0, enc.Table().Len())
	assert.Equal(t, 1, enc.Table().InsertCount())
}

func TestEncoderEntryTooLarge(t *testing.T) {
	enc := NewEncoder(100)
	_, err := enc.SetCapacity(40)
	require.NoError(t, err)
	_, err = enc.InsertWithLiteralName("a", "b")
	require.NoError(t, err)

	before := enc.Table().Entries()

	_, err = enc.InsertWithLiteralName("much-too-long-a-name", "value")
	assert.ErrorIs(t, err, ErrEntryTooLarge)

	_, err = enc.InsertWithNameRef(1, "a-value-that-does-not-fit", true)
	assert.ErrorIs(t, err, ErrEntryTooLarge)

	// Failed calls leave the tracker untouched.
	assert.Equal(t, before, enc.Table().Entries())
	assert.Equal(t, 40, enc.Table().Capacity())
	assert.Equal(t, 1, enc.Table().InsertCount())
}

func TestEncoderDuplicateAfterCapacityShrink(t *testing.T) {
	enc := NewEncoder(100)
	_, err := enc.SetCapacity(100)
	require.NoError(t, err)
	_, err = enc.InsertWithLiteralName("header-name", "v") // size 44
	require.NoError(t, err)

	// Shrinking below the entry's size evicts it, so there is nothing
	// left to duplicate.
	_, err = enc.SetCapacity(43)
	require.NoError(t, err)
	_, err = enc.Duplicate(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 1, enc.Table().InsertCount())
}
