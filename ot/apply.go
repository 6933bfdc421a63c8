package ot

import (
	"strings"
	"unicode/utf8"
)

// Apply executes seq over doc, returning the edited document.
//
// The document length must be equal to seq.BaseLen().
func Apply(seq *Sequence, doc string) (string, error) {
	if err := checkLength("apply", seq.baseLen, utf8.RuneCountInString(doc)); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(doc))
	chars := []rune(doc)
	var pos int
	for _, op := range seq.ops {
		switch op := op.(type) {
		case Retain:
			for _, ch := range chars[pos : pos+op.N] {
				b.WriteRune(ch)
			}
			pos += op.N
		case Insert:
			b.WriteString(op.Str)
		case Delete:
			pos += op.N
		}
	}
	return b.String(), nil
}

// Apply executes this Sequence over doc. See Apply.
func (seq *Sequence) Apply(doc string) (string, error) {
	return Apply(seq, doc)
}
