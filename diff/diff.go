// Package diff computes minimal edit scripts between strings.
package diff

import (
	"fmt"
	"unicode/utf8"
)

// OpType is the kind of an edit.
type OpType int

const (
	Keep OpType = iota
	Insert
	Delete
)

func (op OpType) String() string {
	switch op {
	case Keep:
		return "keep"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("OpType(%d)", int(op))
}

// Edit is a run of consecutive chars sharing the same operation.
type Edit struct {
	Op   OpType
	Text string
}

func (e Edit) String() string {
	return fmt.Sprintf("%v(%q)", e.Op, e.Text)
}

// Len returns the number of chars in this edit.
func (e Edit) Len() int {
	return utf8.RuneCountInString(e.Text)
}

type cell struct {
	op   OpType
	dist int
}

// Example: abcd -> xabdy
//           s1      s2
//
// Legend:
//   ix = insert(x)
//   ka = keep(a)
//   dc = delete(c)
//
//          xabdy   xabdy   xabdy   xabdy   xabdy   xabdy
//  s1\s2   ^        ^        ^        ^        ^        ^
//        +-------+-------+-------+-------+-------+-------+
//        |       |       |       |       |       |       |
//  abcd  | ix 3  < ka 2  | da 3  | da 4  | iy 5  < da 4  |
//  ^     |       |      \|       |       |       |       |
//        +-------+-------+---^---+---^---+-------+---^---+
//        |       |       |       |       |       |       |
//  abcd  | ix 4  < ia 3  < kb 2  | db 3  | iy 4  < db 3  |
//   ^    |       |       |      \|       |       |       |
//        +-------+-------+-------+---^---+-------+---^---+
//        |       |       |       |       |       |       |
//  abcd  | ix 5  < ia 4  < ib 3  < dc 2  | iy 3  < dc 2  |
//    ^   |       |       |       |       |       |       |
//        +-------+-------+-------+---^---+-------+---^---+
//        |       |       |       |       |       |       |
//  abcd  | ix 4  < ia 3  < ib 2  < kd 1  | iy 2  < dd 1  |
//     ^  |       |       |       |      \|       |       |
//        +-------+-------+-------+-------+-------+---^---+
//        |       |       |       |       |       |       |
//  abcd  | ix 5  < ia 4  < ib 3  < id 2  < iy 1  < k0 0  |
//      ^ |       |       |       |       |       |       |
//        +-------+-------+-------+-------+-------+-------+
//
// Reading the path from the top-left corner gives the runs
// insert("x") keep("ab") delete("c") keep("d") insert("y").

// Diff returns the runs of keeps, insertions and deletions that transform s1 into s2,
// with the minimal number of inserted and deleted chars.
//
// When an insertion and a deletion are interchangeable, the insertion comes first.
//
// Diff allocates a table of (m+1)*(n+1) cells, where m and n are the rune counts
// of s1 and s2, so callers should bound the size of their inputs.
func Diff(s1, s2 string) ([]Edit, error) {
	if !utf8.ValidString(s1) {
		return nil, fmt.Errorf("s1 is not a valid utf8 string")
	}
	if !utf8.ValidString(s2) {
		return nil, fmt.Errorf("s2 is not a valid utf8 string")
	}
	chars1, chars2 := []rune(s1), []rune(s2)
	m, n := len(chars1), len(chars2)
	cells := make([]cell, (m+1)*(n+1))
	coord := func(i, j int) int {
		return i*(n+1) + j
	}
	// Diff between a suffix of s1 and an empty string: delete all chars
	for i := range chars1 {
		cells[coord(i, n)] = cell{Delete, m - i}
	}
	// Diff between an empty string and a suffix of s2: insert all chars
	for j := range chars2 {
		cells[coord(m, j)] = cell{Insert, n - j}
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if chars1[i] == chars2[j] {
				cells[coord(i, j)] = cell{Keep, cells[coord(i+1, j+1)].dist}
				continue
			}
			// Pick smallest dist between possible paths, preferring insert on a tie.
			del := cells[coord(i+1, j)]
			ins := cells[coord(i, j+1)]
			if ins.dist <= del.dist {
				cells[coord(i, j)] = cell{Insert, 1 + ins.dist}
			} else {
				cells[coord(i, j)] = cell{Delete, 1 + del.dist}
			}
		}
	}
	// Walk the path, grouping chars into runs.
	var edits []Edit
	var run []rune
	var runOp OpType
	flush := func() {
		if len(run) > 0 {
			edits = append(edits, Edit{Op: runOp, Text: string(run)})
			run = run[:0]
		}
	}
	var i, j int
	for i < m || j < n {
		op := cells[coord(i, j)].op
		if op != runOp {
			flush()
			runOp = op
		}
		switch op {
		case Keep:
			run = append(run, chars1[i])
			i++
			j++
		case Insert:
			run = append(run, chars2[j])
			j++
		case Delete:
			run = append(run, chars1[i])
			i++
		}
	}
	flush()
	return edits, nil
}

// Distance returns the number of chars inserted or deleted to transform s1 into s2.
func Distance(s1, s2 string) (int, error) {
	edits, err := Diff(s1, s2)
	if err != nil {
		return 0, err
	}
	var dist int
	for _, edit := range edits {
		if edit.Op != Keep {
			dist += edit.Len()
		}
	}
	return dist, nil
}
