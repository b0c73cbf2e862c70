package qpack

import "fmt"

// Encoder is the caller-facing surface. Each method validates the request
// against the current tracker state, builds the instruction bytes, applies
// the matching mutation, and only then returns the bytes: bytes returned
// means the tracker already reflects the new state. A failed call leaves
// the tracker untouched.
//
// An Encoder is not safe for concurrent use; one caller drives one encoder
// stream, matching the protocol.
type Encoder struct {
	table            *DynamicTable
	maxTableCapacity int
}

// NewEncoder returns an Encoder whose SetCapacity calls refuse to exceed
// maxTableCapacity, the receiver's advertised SETTINGS_QPACK_MAX_TABLE_CAPACITY.
func NewEncoder(maxTableCapacity int) *Encoder {
	return &Encoder{
		table:            &DynamicTable{},
		maxTableCapacity: maxTableCapacity,
	}
}

// Table exposes the tracker for state inspection.
func (e *Encoder) Table() *DynamicTable {
	return e.table
}

// MaxTableCapacity returns the configured receiver ceiling.
func (e *Encoder) MaxTableCapacity() int {
	return e.maxTableCapacity
}

// SetMaxTableCapacity replaces the receiver ceiling, for sessions where the
// peer's SETTINGS arrive after the encoder is constructed.
func (e *Encoder) SetMaxTableCapacity(limit int) {
	e.maxTableCapacity = limit
}

// SetCapacity emits a Set Dynamic Table Capacity instruction and applies the
// capacity change, evicting as needed.
func (e *Encoder) SetCapacity(capacity int) ([]byte, error) {
	if capacity > e.maxTableCapacity {
		return nil, fmt.Errorf("capacity %d exceeds server's max table capacity %d: %w",
			capacity, e.maxTableCapacity, ErrCapacityExceedsLimit)
	}

	instruction, err := SetDynamicTableCapacity(capacity)
	if err != nil {
		return nil, err
	}

	e.table.SetCapacity(capacity)
	return instruction, nil
}

// InsertWithNameRef emits an Insert With Name Reference instruction. The
// name is resolved from the static table or from the tracker's present
// entries, and the resulting entry is checked to fit before any bytes are
// built, so builder output and tracker state cannot diverge.
func (e *Encoder) InsertWithNameRef(index int, value string, isStatic bool) ([]byte, error) {
	var name string
	if isStatic {
		field, err := StaticTableEntry(index)
		if err != nil {
			return nil, err
		}
		name = field.Name
	} else {
		entry, err := e.table.Entry(index)
		if err != nil {
			return nil, err
		}
		name = entry.Name
	}

	if err := e.checkFits(name, value); err != nil {
		return nil, err
	}

	instruction, err := InsertWithNameRef(index, value, isStatic)
	if err != nil {
		return nil, err
	}

	if err := e.table.Insert(name, value); err != nil {
		return nil, err
	}
	return instruction, nil
}

// InsertWithLiteralName emits an Insert With Literal Name instruction.
func (e *Encoder) InsertWithLiteralName(name, value string) ([]byte, error) {
	if err := e.checkFits(name, value); err != nil {
		return nil, err
	}

	instruction, err := InsertWithLiteralName(name, value)
	if err != nil {
		return nil, err
	}

	if err := e.table.Insert(name, value); err != nil {
		return nil, err
	}
	return instruction, nil
}

// Duplicate emits a Duplicate instruction for the entry at the given
// relative index.
func (e *Encoder) Duplicate(relativeIndex int) ([]byte, error) {
	source, err := e.table.Entry(relativeIndex)
	if err != nil {
		return nil, err
	}
	if err := e.checkFits(source.Name, source.Value); err != nil {
		return nil, err
	}

	instruction, err := Duplicate(relativeIndex)
	if err != nil {
		return nil, err
	}

	if err := e.table.Duplicate(relativeIndex); err != nil {
		return nil, err
	}
	return instruction, nil
}

// checkFits rejects entries that could never fit, even in an empty table of
// the current capacity. The protocol makes this a hard limit, not a
// transient condition eviction could resolve.
func (e *Encoder) checkFits(name, value string) error {
	size := len(name) + len(value) + entryOverhead
	if size > e.table.capacity {
		return fmt.Errorf("entry size %d exceeds table capacity %d: %w",
			size, e.table.capacity, ErrEntryTooLarge)
	}
	return nil
}
