/*
Package ot provides an operational transformation algebra for plain text.

An edit over a document is described by a Sequence of operations that walk the
document from start to end: retain some chars, insert some text, delete some chars.
A Sequence is valid for documents whose length is its base length, and produces a
document whose length is its target length. Lengths are measured in runes.

Sequences can be applied to a document, composed into a single equivalent
Sequence, inverted to undo them, and transformed against concurrent Sequences.
Transformation is what allows two sites to apply each other's edits in any order
and still converge:

  # BEGIN ASCII ART

                 doc
                /   \
             a /     \ b
              /       \
            doc_a   doc_b
              \       /
            b' \     / a'
                \   /
              converged

  # END ASCII ART
  # ALT TEXT: Diamond with "doc" at the top. Edges "a" and "b" lead to "doc_a" and "doc_b",
              and from these, edges "b'" and "a'" lead to the same "converged" document.

Transform(a, b) returns (a', b') such that Compose(a, b') and Compose(b, a') are equal.

All functions in this package are pure: they never modify their arguments, and
may be called concurrently as long as no goroutine is building the same Sequence.
*/
package ot

import (
	"fmt"
	"unicode/utf8"
)

// Operation is a single step of a Sequence. It is one of Retain, Insert or Delete.
type Operation interface {
	fmt.Stringer
	isOperation()
}

// Retain copies the next N chars of the input to the output.
type Retain struct {
	N int
}

// Insert writes Str to the output without consuming input.
type Insert struct {
	Str string
}

// Delete skips the next N chars of the input.
type Delete struct {
	N int
}

func (Retain) isOperation() {}
func (Insert) isOperation() {}
func (Delete) isOperation() {}

func (op Retain) String() string { return fmt.Sprintf("retain(%d)", op.N) }
func (op Insert) String() string { return fmt.Sprintf("insert(%q)", op.Str) }
func (op Delete) String() string { return fmt.Sprintf("delete(%d)", op.N) }

// Len returns the number of runes in the inserted text.
func (op Insert) Len() int {
	return utf8.RuneCountInString(op.Str)
}
