package ot

import (
	"fmt"

	"github.com/brunokim/textop/diff"
)

// Diff returns a Sequence that transforms s1 into s2 with the minimal number of
// inserted and deleted chars.
func Diff(s1, s2 string) (*Sequence, error) {
	edits, err := diff.Diff(s1, s2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	seq := NewSequence()
	for _, edit := range edits {
		switch edit.Op {
		case diff.Keep:
			seq.retain(edit.Len())
		case diff.Insert:
			seq.insert(edit.Text)
		case diff.Delete:
			seq.delete(edit.Len())
		}
	}
	return seq, nil
}
