package qpack

// The four encoder stream instructions (RFC 9204 §4.3.1-4.3.4). These are
// pure byte builders: they validate locally-checkable argument shape only
// and never touch table state, so the wire encoding can never silently
// disagree with the tracker.

// SetDynamicTableCapacity builds a Set Dynamic Table Capacity instruction:
// 001xxxxx with a 5-bit capacity prefix.
func SetDynamicTableCapacity(capacity int) ([]byte, error) {
	buf, err := EncodeInteger(capacity, 5)
	if err != nil {
		return nil, err
	}
	buf[0] |= 0x20

	return buf, nil
}

// InsertWithNameRef builds an Insert With Name Reference instruction:
// 1Sxxxxxx with a 6-bit index prefix, S=1 for a static table name, followed
// by the value string.
func InsertWithNameRef(index int, value string, isStatic bool) ([]byte, error) {
	buf, err := EncodeInteger(index, 6)
	if err != nil {
		return nil, err
	}
	buf[0] |= 0x80
	if isStatic {
		buf[0] |= 0x40
	}

	val, err := EncodeString(value, false)
	if err != nil {
		return nil, err
	}

	return append(buf, val...), nil
}

// InsertWithLiteralName builds an Insert With Literal Name instruction:
// 01Hxxxxx where the low 5 bits are the name length prefix and H is the
// name's Huffman flag (always 0 here), followed by the name bytes, then the
// value string. The name length must use a 5-bit prefix; encoding it with a
// wider prefix and OR-ing the opcode in afterwards corrupts names of 31
// bytes or more.
func InsertWithLiteralName(name, value string) ([]byte, error) {
	buf, err := EncodeInteger(len(name), 5)
	if err != nil {
		return nil, err
	}
	buf[0] |= 0x40
	buf = append(buf, name...)

	val, err := EncodeString(value, false)
	if err != nil {
		return nil, err
	}

	return append(buf, val...), nil
}

// Duplicate builds a Duplicate instruction: 000xxxxx with a 5-bit relative
// index prefix.
func Duplicate(relativeIndex int) ([]byte, error) {
	// High 3 bits are already 000 for any 5-bit-prefixed integer.
	return EncodeInteger(relativeIndex, 5)
}
