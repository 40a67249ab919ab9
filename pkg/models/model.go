package models

import (
	"golang.org/x/exp/slices"
)

// Record is implemented by every resource that is stored in a Collection.
type Record interface {
	Identifier() uint64
}

// Collection is the persisted form of one resource type.
//
// NextID is a monotonic counter stored together with the records. It is
// never derived from the number of records, so IDs of deleted records are
// not handed out again.
type Collection[T Record] struct {
	NextID  uint64 `json:"nextId"`
	Records []T    `json:"records"`
}

// NewCollection returns a collection for the records with the counter set
// past the highest ID.
func NewCollection[T Record](records ...T) Collection[T] {
	c := Collection[T]{NextID: 1, Records: slices.Clone(records)}
	for _, r := range records {
		if r.Identifier() >= c.NextID {
			c.NextID = r.Identifier() + 1
		}
	}

	if c.Records == nil {
		c.Records = []T{}
	}

	return c
}

// NextIdentifier returns the ID that the next inserted record receives.
func (c Collection[T]) NextIdentifier() uint64 {
	if c.NextID == 0 {
		return 1
	}
	return c.NextID
}

// Len returns the number of records.
func (c Collection[T]) Len() int {
	return len(c.Records)
}

// Find returns the record with the ID.
func (c Collection[T]) Find(id uint64) (T, bool) {
	i := slices.IndexFunc(c.Records, func(r T) bool { return r.Identifier() == id })
	if i < 0 {
		var zero T
		return zero, false
	}
	return c.Records[i], true
}

// With returns a copy of the collection with the record appended.
func (c Collection[T]) With(record T) Collection[T] {
	next := c.NextIdentifier()
	if record.Identifier() >= next {
		next = record.Identifier() + 1
	}

	records := make([]T, 0, len(c.Records)+1)
	records = append(records, c.Records...)
	records = append(records, record)

	return Collection[T]{NextID: next, Records: records}
}

// Replace returns a copy of the collection where the record with the same ID
// is replaced. The second return value is false if there is no such record.
func (c Collection[T]) Replace(record T) (Collection[T], bool) {
	i := slices.IndexFunc(c.Records, func(r T) bool { return r.Identifier() == record.Identifier() })
	if i < 0 {
		return c, false
	}

	records := slices.Clone(c.Records)
	records[i] = record

	return Collection[T]{NextID: c.NextIdentifier(), Records: records}, true
}

// Without returns a copy of the collection without the records matching del.
// The second return value is the number of removed records.
func (c Collection[T]) Without(del func(T) bool) (Collection[T], int) {
	records := slices.DeleteFunc(slices.Clone(c.Records), del)
	if records == nil {
		records = []T{}
	}

	return Collection[T]{NextID: c.NextIdentifier(), Records: records}, len(c.Records) - len(records)
}

// Snapshot holds all three collections of the building's ledger.
type Snapshot struct {
	Neighbors     Collection[Neighbor]
	Contributions Collection[Contribution]
	Payments      Collection[Payment]
}

// EmptySnapshot returns a snapshot without any records.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Neighbors:     NewCollection[Neighbor](),
		Contributions: NewCollection[Contribution](),
		Payments:      NewCollection[Payment](),
	}
}
