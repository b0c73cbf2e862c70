package qpack

import "fmt"

// entryOverhead is the fixed per-entry accounting cost (RFC 9204 §3.2.1):
// an entry occupies len(name) + len(value) + 32 bytes of table capacity.
const entryOverhead = 32

// Entry is one dynamic table row. Entries are never mutated in place, only
// evicted.
type Entry struct {
	Name  string
	Value string
}

// Size is the capacity cost of the entry.
func (e Entry) Size() int {
	return len(e.Name) + len(e.Value) + entryOverhead
}

// DynamicTable mirrors the receiver's dynamic table state: the ordered
// entries, the capacity, and the absolute insert count. Index 0 is the
// newest entry, so a relative index maps directly onto the slice.
type DynamicTable struct {
	entries     []Entry
	capacity    int
	insertCount int
}

// CurrentSize is the summed size of all present entries.
func (t *DynamicTable) CurrentSize() int {
	size := 0
	for _, e := range t.entries {
		size += e.Size()
	}
	return size
}

// Capacity returns the current table capacity.
func (t *DynamicTable) Capacity() int {
	return t.capacity
}

// InsertCount returns the total number of successful insertions so far. It
// never decreases; evictions and capacity changes do not touch it.
func (t *DynamicTable) InsertCount() int {
	return t.insertCount
}

// Len returns the number of currently present entries.
func (t *DynamicTable) Len() int {
	return len(t.entries)
}

// Entry returns the entry at the given relative index (0 = newest).
func (t *DynamicTable) Entry(relativeIndex int) (Entry, error) {
	if relativeIndex < 0 || relativeIndex >= len(t.entries) {
		return Entry{}, fmt.Errorf("relative index %d out of range, table has %d entries: %w",
			relativeIndex, len(t.entries), ErrIndexOutOfRange)
	}
	return t.entries[relativeIndex], nil
}

// Entries returns a copy of the present entries, newest first.
func (t *DynamicTable) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// SetCapacity sets the table capacity and evicts oldest entries until the
// present entries fit. A capacity below current usage simply forces
// eviction, possibly emptying the table.
func (t *DynamicTable) SetCapacity(capacity int) {
	t.capacity = capacity
	t.evict(0)
}

// Insert prepends a new entry, evicting from the oldest end first to make
// room. An entry that cannot fit even in an empty table fails with
// ErrEntryTooLarge and changes nothing.
func (t *DynamicTable) Insert(name, value string) error {
	entry := Entry{Name: name, Value: value}
	if entry.Size() > t.capacity {
		return fmt.Errorf("entry size %d exceeds table capacity %d: %w",
			entry.Size(), t.capacity, ErrEntryTooLarge)
	}

	t.evict(entry.Size())
	t.entries = append([]Entry{entry}, t.entries...)
	t.insertCount++

	return nil
}

// Duplicate re-inserts the entry at the given relative index as a new
// newest entry.
func (t *DynamicTable) Duplicate(relativeIndex int) error {
	source, err := t.Entry(relativeIndex)
	if err != nil {
		return err
	}
	return t.Insert(source.Name, source.Value)
}

// evict drops oldest entries until needed bytes fit within capacity.
func (t *DynamicTable) evict(needed int) {
	for len(t.entries) > 0 && t.CurrentSize()+needed > t.capacity {
		t.entries = t.entries[:len(t.entries)-1]
	}
}
