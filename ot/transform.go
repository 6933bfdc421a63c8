package ot

import "fmt"

// Side selects which of two concurrent Sequences has priority when both insert
// text at the same position.
type Side int

const (
	// Left gives priority to the first argument of TransformPriority.
	Left Side = iota
	// Right gives priority to the second argument of TransformPriority.
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Transform rebases two concurrent Sequences over each other. Simultaneous
// insertions at the same position are ordered with a's text first.
//
// See TransformPriority.
func Transform(a, b *Sequence) (aPrime, bPrime *Sequence, err error) {
	return TransformPriority(a, b, Left)
}

// TransformPriority returns (a', b') such that Compose(a, b') and Compose(b, a')
// are equal, where a and b are Sequences over the same document.
//
// When a and b insert text at the same position, the text from the winner side
// is placed first. Both sites must agree on the winner for their documents to converge.
func TransformPriority(a, b *Sequence, winner Side) (aPrime, bPrime *Sequence, err error) {
	if err := checkLength("transform", a.baseLen, b.baseLen); err != nil {
		return nil, nil, err
	}
	aPrime, bPrime = NewSequence(), NewSequence()
	ca, cb := newCursor(a.ops), newCursor(b.ops)
	for ca.op != nil || cb.op != nil {
		insA, isInsA := ca.op.(Insert)
		insB, isInsB := cb.op.(Insert)
		if isInsA && (!isInsB || winner == Left) {
			aPrime.insert(insA.Str)
			bPrime.retain(insA.Len())
			ca.next()
			continue
		}
		if isInsB {
			aPrime.retain(insB.Len())
			bPrime.insert(insB.Str)
			cb.next()
			continue
		}
		if ca.op == nil || cb.op == nil {
			return nil, nil, fmt.Errorf("transform: %w: one sequence ended before the other", ErrLengthMismatch)
		}
		n := minInt(opLen(ca.op), opLen(cb.op))
		opA, opB := ca.take(n), cb.take(n)
		switch opA.(type) {
		case Retain:
			switch opB.(type) {
			case Retain:
				aPrime.retain(n)
				bPrime.retain(n)
			case Delete:
				// a has nothing left to retain.
				bPrime.delete(n)
			}
		case Delete:
			switch opB.(type) {
			case Retain:
				aPrime.delete(n)
			case Delete:
				// Both deleted the same chars.
			}
		}
	}
	return aPrime, bPrime, nil
}

// Transform rebases this Sequence and a concurrent one. See Transform.
func (seq *Sequence) Transform(other *Sequence) (*Sequence, *Sequence, error) {
	return Transform(seq, other)
}
