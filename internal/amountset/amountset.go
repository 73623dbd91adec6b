// Package amountset implements a sorted associative container pairing each
// element with a non-negative quantity. Ordering is defined by a comparator
// supplied at construction, so any element type can be stored.
package amountset

import "errors"

// Errors returned by AmountSet operations.
var (
	ErrItemAlreadyExists  = errors.New("amountset: item already exists")
	ErrItemDoesNotExist   = errors.New("amountset: item does not exist")
	ErrInsufficientAmount = errors.New("amountset: insufficient amount")
)

// CompareFunc orders elements. It returns a negative value when a sorts
// before b, zero when they are equal, and a positive value otherwise.
type CompareFunc[E any] func(a, b E) int

type node[E any] struct {
	elem   E
	amount float64
	next   *node[E]
}

// AmountSet maps elements to float64 amounts and keeps them in ascending
// comparator order. Data sizes are expected to be small, so the backing
// structure is a singly linked sorted chain rather than a balanced tree.
//
// An AmountSet is not safe for concurrent use.
type AmountSet[E any] struct {
	head *node[E]
	size int
	cmp  CompareFunc[E]
}

// New creates an empty set ordered by cmp.
func New[E any](cmp CompareFunc[E]) *AmountSet[E] {
	return &AmountSet[E]{cmp: cmp}
}

// Copy returns an independent clone with identical membership, amounts, and
// order. Mutating the copy never affects the source.
func (s *AmountSet[E]) Copy() *AmountSet[E] {
	dup := New(s.cmp)
	tail := &dup.head
	for n := s.head; n != nil; n = n.next {
		nn := &node[E]{elem: n.elem, amount: n.amount}
		*tail = nn
		tail = &nn.next
	}
	dup.size = s.size
	return dup
}

// Size returns the number of elements in the set.
func (s *AmountSet[E]) Size() int {
	return s.size
}

// find returns the node holding an element equal to e, or nil. The chain is
// sorted, so the scan stops as soon as a larger element is seen.
func (s *AmountSet[E]) find(e E) *node[E] {
	for n := s.head; n != nil; n = n.next {
		c := s.cmp(n.elem, e)
		if c == 0 {
			return n
		}
		if c > 0 {
			return nil
		}
	}
	return nil
}

// Contains reports whether an element equal to e is in the set.
func (s *AmountSet[E]) Contains(e E) bool {
	return s.find(e) != nil
}

// Amount returns the amount stored for e, or ErrItemDoesNotExist.
func (s *AmountSet[E]) Amount(e E) (float64, error) {
	n := s.find(e)
	if n == nil {
		return 0, ErrItemDoesNotExist
	}
	return n.amount, nil
}

// Register inserts e with amount 0, keeping the chain sorted. It returns
// ErrItemAlreadyExists if an equal element is already present.
func (s *AmountSet[E]) Register(e E) error {
	pos := &s.head
	for *pos != nil {
		c := s.cmp((*pos).elem, e)
		if c == 0 {
			return ErrItemAlreadyExists
		}
		if c > 0 {
			break
		}
		pos = &(*pos).next
	}
	*pos = &node[E]{elem: e, next: *pos}
	s.size++
	return nil
}

// ChangeAmount adjusts the amount stored for e by delta. It returns
// ErrItemDoesNotExist if e is absent, and ErrInsufficientAmount, leaving the
// stored amount unchanged, if the result would be negative.
func (s *AmountSet[E]) ChangeAmount(e E, delta float64) error {
	n := s.find(e)
	if n == nil {
		return ErrItemDoesNotExist
	}
	if n.amount+delta < 0 {
		return ErrInsufficientAmount
	}
	n.amount += delta
	return nil
}

// Delete removes e from the set, or returns ErrItemDoesNotExist.
func (s *AmountSet[E]) Delete(e E) error {
	pos := &s.head
	for *pos != nil {
		c := s.cmp((*pos).elem, e)
		if c == 0 {
			*pos = (*pos).next
			s.size--
			return nil
		}
		if c > 0 {
			break
		}
		pos = &(*pos).next
	}
	return ErrItemDoesNotExist
}

// Clear removes all elements.
func (s *AmountSet[E]) Clear() {
	s.head = nil
	s.size = 0
}

// Iterator walks a set in ascending order. Each call to Iter returns an
// independent iterator, so overlapping traversals are fine; mutating the set
// invalidates any iterator obtained before the mutation.
type Iterator[E any] struct {
	next *node[E]
}

// Iter begins an ascending traversal.
func (s *AmountSet[E]) Iter() *Iterator[E] {
	return &Iterator[E]{next: s.head}
}

// Next yields the next element and its amount, or ok=false at the end.
func (it *Iterator[E]) Next() (elem E, amount float64, ok bool) {
	if it.next == nil {
		var zero E
		return zero, 0, false
	}
	n := it.next
	it.next = n.next
	return n.elem, n.amount, true
}
