package ot

import "unicode/utf8"

// cursor walks over a list of operations, allowing the current operation to be
// partially consumed.
type cursor struct {
	ops []Operation
	i   int
	// op is the remainder of the current operation, or nil when exhausted.
	op Operation
}

func newCursor(ops []Operation) *cursor {
	c := &cursor{ops: ops}
	c.next()
	return c
}

func (c *cursor) next() {
	if c.i >= len(c.ops) {
		c.op = nil
		return
	}
	c.op = c.ops[c.i]
	c.i++
}

// take consumes n chars of the current operation, returning the consumed part.
func (c *cursor) take(n int) Operation {
	op := c.op
	if n == opLen(op) {
		c.next()
		return op
	}
	head, tail := splitOp(op, n)
	c.op = tail
	return head
}

func opLen(op Operation) int {
	switch op := op.(type) {
	case Retain:
		return op.N
	case Delete:
		return op.N
	case Insert:
		return op.Len()
	}
	return 0
}

// splitOp divides op in two, with the first having n chars. Requires 0 < n < opLen(op).
func splitOp(op Operation, n int) (Operation, Operation) {
	switch op := op.(type) {
	case Retain:
		return Retain{N: n}, Retain{N: op.N - n}
	case Delete:
		return Delete{N: n}, Delete{N: op.N - n}
	case Insert:
		idx := 0
		for i := 0; i < n; i++ {
			_, size := utf8.DecodeRuneInString(op.Str[idx:])
			idx += size
		}
		return Insert{Str: op.Str[:idx]}, Insert{Str: op.Str[idx:]}
	}
	return op, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
