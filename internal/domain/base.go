package domain

import "sync/atomic"

// Sequence hands out increasing ids starting at 1
type Sequence struct {
	n atomic.Int64
}

// Next returns the next id in the sequence
func (s *Sequence) Next() int {
	return int(s.n.Add(1))
}

// Peek returns the last id handed out, 0 if none
func (s *Sequence) Peek() int {
	return int(s.n.Load())
}

// AdvanceTo moves the sequence so that the next id is above n.
// It never moves backwards.
func (s *Sequence) AdvanceTo(n int) {
	for {
		cur := s.n.Load()
		if int64(n) <= cur || s.n.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

// objects counts shapes created without an explicit id
var objects Sequence

// Base holds the identity shared by all shapes
type Base struct {
	id int
}

// NewBase returns a Base with the given id, or the next counter value when id is 0
func NewBase(id int) Base {
	if id != 0 {
		return Base{id: id}
	}
	return Base{id: objects.Next()}
}

// ID returns the identifier
func (b *Base) ID() int {
	return b.id
}

// SetID replaces the identifier. Ids are not validated.
func (b *Base) SetID(id int) {
	b.id = id
}

// LastAutoID returns the most recent id drawn from the shared counter
func LastAutoID() int {
	return objects.Peek()
}

// ReserveID keeps the shared counter from handing out id or any id below it
func ReserveID(id int) {
	objects.AdvanceTo(id)
}
