package ot

import "fmt"

// Compose merges a and b into a single Sequence that has the same effect as
// applying a and then b.
//
// The target length of a must be equal to the base length of b.
func Compose(a, b *Sequence) (*Sequence, error) {
	if err := checkLength("compose", a.targetLen, b.baseLen); err != nil {
		return nil, err
	}
	// a's output is b's input, so a is walked by target position and b by
	// base position.
	seq := NewSequence()
	ca, cb := newCursor(a.ops), newCursor(b.ops)
	for ca.op != nil || cb.op != nil {
		// Deletions in a don't produce anything for b to consume.
		if op, ok := ca.op.(Delete); ok {
			seq.delete(op.N)
			ca.next()
			continue
		}
		// Insertions in b don't consume anything from a.
		if op, ok := cb.op.(Insert); ok {
			seq.insert(op.Str)
			cb.next()
			continue
		}
		if ca.op == nil || cb.op == nil {
			return nil, fmt.Errorf("compose: %w: one sequence ended before the other", ErrLengthMismatch)
		}
		n := minInt(opLen(ca.op), opLen(cb.op))
		opA, opB := ca.take(n), cb.take(n)
		switch opA := opA.(type) {
		case Retain:
			switch opB.(type) {
			case Retain:
				seq.retain(n)
			case Delete:
				seq.delete(n)
			}
		case Insert:
			switch opB.(type) {
			case Retain:
				seq.insert(opA.Str)
			case Delete:
				// Text inserted by a and deleted by b cancels out.
			}
		}
	}
	return seq, nil
}

// Compose merges this Sequence with the next one. See Compose.
func (seq *Sequence) Compose(next *Sequence) (*Sequence, error) {
	return Compose(seq, next)
}
