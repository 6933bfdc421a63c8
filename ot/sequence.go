package ot

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// +----------+
// | Sequence |
// +----------+

// Sequence is a normalized list of operations that transforms a document of
// length BaseLen into a document of length TargetLen.
//
// Normalization happens as operations are appended:
//   - empty operations are dropped;
//   - adjacent operations of the same kind are merged;
//   - an insertion next to a deletion is placed before it.
//
// This gives a canonical order over how operations were appended: retain(2)
// retain(3) and retain(5) build the same Sequence, as do delete(1) insert("a")
// and insert("a") delete(1). It does not make Sequences unique over their effect
// on documents.
type Sequence struct {
	ops       []Operation
	baseLen   int
	targetLen int
}

// NewSequence creates an empty Sequence, which is valid for empty documents.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Build creates a Sequence by appending each operation in order.
func Build(ops ...Operation) (*Sequence, error) {
	seq := NewSequence()
	for i, op := range ops {
		var err error
		switch op := op.(type) {
		case Retain:
			err = seq.Retain(op.N)
		case Insert:
			err = seq.Insert(op.Str)
		case Delete:
			err = seq.Delete(op.N)
		default:
			err = fmt.Errorf("%w: unknown operation type %T", ErrInvalidOperation, op)
		}
		if err != nil {
			return nil, fmt.Errorf("op #%d: %w", i, err)
		}
	}
	return seq, nil
}

// +--------------+
// | Construction |
// +--------------+

// Retain appends an operation that keeps the next n chars.
func (seq *Sequence) Retain(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: retain(%d)", ErrInvalidOperation, n)
	}
	if overflows(seq.baseLen, n) || overflows(seq.targetLen, n) {
		return fmt.Errorf("%w: retain(%d) overflows length (%d, %d)", ErrInvalidOperation, n, seq.baseLen, seq.targetLen)
	}
	seq.retain(n)
	return nil
}

// Insert appends an operation that inserts s at the current position.
func (seq *Sequence) Insert(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: insert(%q) is not valid utf8", ErrInvalidOperation, s)
	}
	if n := utf8.RuneCountInString(s); overflows(seq.targetLen, n) {
		return fmt.Errorf("%w: insert of %d chars overflows length %d", ErrInvalidOperation, n, seq.targetLen)
	}
	seq.insert(s)
	return nil
}

// Delete appends an operation that removes the next n chars.
func (seq *Sequence) Delete(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: delete(%d)", ErrInvalidOperation, n)
	}
	if overflows(seq.baseLen, n) {
		return fmt.Errorf("%w: delete(%d) overflows length %d", ErrInvalidOperation, n, seq.baseLen)
	}
	seq.delete(n)
	return nil
}

// overflows returns whether length+n exceeds the largest int. Requires both to be non-negative.
func overflows(length, n int) bool {
	return n > math.MaxInt-length
}

func (seq *Sequence) last() (Operation, bool) {
	if len(seq.ops) == 0 {
		return nil, false
	}
	return seq.ops[len(seq.ops)-1], true
}

func (seq *Sequence) retain(n int) {
	if n <= 0 {
		return
	}
	seq.baseLen += n
	seq.targetLen += n
	if last, ok := seq.last(); ok {
		if r, ok := last.(Retain); ok {
			seq.ops[len(seq.ops)-1] = Retain{N: r.N + n}
			return
		}
	}
	seq.ops = append(seq.ops, Retain{N: n})
}

func (seq *Sequence) delete(n int) {
	if n <= 0 {
		return
	}
	seq.baseLen += n
	if last, ok := seq.last(); ok {
		if d, ok := last.(Delete); ok {
			seq.ops[len(seq.ops)-1] = Delete{N: d.N + n}
			return
		}
	}
	seq.ops = append(seq.ops, Delete{N: n})
}

func (seq *Sequence) insert(s string) {
	if s == "" {
		return
	}
	seq.targetLen += utf8.RuneCountInString(s)
	last, ok := seq.last()
	if !ok {
		seq.ops = append(seq.ops, Insert{Str: s})
		return
	}
	lastIdx := len(seq.ops) - 1
	switch last := last.(type) {
	case Insert:
		seq.ops[lastIdx] = Insert{Str: last.Str + s}
		return
	case Delete:
		// Insertions go before deletions at the same position.
		if lastIdx > 0 {
			if prev, ok := seq.ops[lastIdx-1].(Insert); ok {
				seq.ops[lastIdx-1] = Insert{Str: prev.Str + s}
				return
			}
		}
		seq.ops[lastIdx] = Insert{Str: s}
		seq.ops = append(seq.ops, last)
		return
	}
	seq.ops = append(seq.ops, Insert{Str: s})
}

// +-----------+
// | Accessors |
// +-----------+

// BaseLen returns the length of documents this Sequence can be applied to.
func (seq *Sequence) BaseLen() int { return seq.baseLen }

// TargetLen returns the length of documents produced by this Sequence.
func (seq *Sequence) TargetLen() int { return seq.targetLen }

// Len returns the number of operations.
func (seq *Sequence) Len() int { return len(seq.ops) }

// Ops returns a copy of the operations.
func (seq *Sequence) Ops() []Operation {
	return cloneOps(seq.ops)
}

// Clone returns an independent copy of this Sequence.
func (seq *Sequence) Clone() *Sequence {
	return &Sequence{
		ops:       cloneOps(seq.ops),
		baseLen:   seq.baseLen,
		targetLen: seq.targetLen,
	}
}

// IsNoop returns whether this Sequence leaves every document unchanged.
func (seq *Sequence) IsNoop() bool {
	switch len(seq.ops) {
	case 0:
		return true
	case 1:
		_, ok := seq.ops[0].(Retain)
		return ok
	}
	return false
}

// Equal returns whether both Sequences have the same operations.
func (seq *Sequence) Equal(other *Sequence) bool {
	if seq.baseLen != other.baseLen || seq.targetLen != other.targetLen || len(seq.ops) != len(other.ops) {
		return false
	}
	for i, op := range seq.ops {
		if op != other.ops[i] {
			return false
		}
	}
	return true
}

func (seq *Sequence) String() string {
	parts := make([]string, len(seq.ops))
	for i, op := range seq.ops {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func cloneOps(ops []Operation) []Operation {
	return append(ops[:0:0], ops...)
}
