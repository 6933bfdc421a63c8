package ot

import "unicode/utf8"

// Invert returns the Sequence that undoes seq, given the document seq was applied to.
//
// For any valid doc, applying Invert(seq, doc) to Apply(seq, doc) returns doc.
// The document is needed to recover the text removed by deletions.
func Invert(seq *Sequence, doc string) (*Sequence, error) {
	if err := checkLength("invert", seq.baseLen, utf8.RuneCountInString(doc)); err != nil {
		return nil, err
	}
	inverse := NewSequence()
	chars := []rune(doc)
	var pos int
	for _, op := range seq.ops {
		switch op := op.(type) {
		case Retain:
			inverse.retain(op.N)
			pos += op.N
		case Insert:
			inverse.delete(op.Len())
		case Delete:
			inverse.insert(string(chars[pos : pos+op.N]))
			pos += op.N
		}
	}
	return inverse, nil
}

// Invert returns the Sequence that undoes this one. See Invert.
func (seq *Sequence) Invert(doc string) (*Sequence, error) {
	return Invert(seq, doc)
}
