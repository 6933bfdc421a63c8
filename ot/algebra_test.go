package ot_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/brunokim/textop/ot"
	"github.com/google/go-cmp/cmp"
)

func TestApply(t *testing.T) {
	tests := []struct {
		desc string
		ops  []ot.Operation
		doc  string
		want string
	}{
		{"empty", nil, "", ""},
		{"retain all", []ot.Operation{ot.Retain{N: 3}}, "abc", "abc"},
		{"insert", []ot.Operation{ot.Insert{Str: "abc"}}, "", "abc"},
		{"delete all", []ot.Operation{ot.Delete{N: 3}}, "abc", ""},
		{
			desc: "hello world",
			ops:  []ot.Operation{ot.Insert{Str: "Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2}},
			doc:  "World!!",
			want: "Hello World",
		},
		{
			desc: "multibyte",
			ops:  []ot.Operation{ot.Retain{N: 2}, ot.Insert{Str: "ç"}, ot.Delete{N: 1}, ot.Retain{N: 1}},
			doc:  "ãéíõ",
			want: "ãéçõ",
		},
	}
	for _, test := range tests {
		seq := mustBuild(t, test.ops...)
		got, err := ot.Apply(seq, test.doc)
		if err != nil {
			t.Fatalf("%s: ot.Apply(%v, %q): %v", test.desc, seq, test.doc, err)
		}
		if got != test.want {
			t.Errorf("%s: ot.Apply(%v, %q): want %q, got %q", test.desc, seq, test.doc, test.want, got)
		}
	}
}

func TestLengthMismatch(t *testing.T) {
	s := mustBuild(t, ot.Insert{Str: "Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2}) // 7 -> 11
	other := mustBuild(t, ot.Retain{N: 3})                                       // 3 -> 3

	_, err := ot.Apply(s, "World")
	var lengthErr *ot.LengthError
	if !errors.As(err, &lengthErr) {
		t.Fatalf("ot.Apply: want *LengthError, got %v", err)
	}
	if msg := cmp.Diff(&ot.LengthError{Op: "apply", Want: 7, Got: 5}, lengthErr); msg != "" {
		t.Errorf("ot.Apply: (-want, +got)\n%s", msg)
	}

	tests := []struct {
		desc string
		f    func() error
	}{
		{"apply", func() error { _, err := s.Apply("too short"); return err }},
		{"compose", func() error { _, err := ot.Compose(s, other); return err }},
		{"transform", func() error { _, _, err := ot.Transform(s, other); return err }},
		{"invert", func() error { _, err := ot.Invert(s, "abc"); return err }},
	}
	for _, test := range tests {
		if err := test.f(); !errors.Is(err, ot.ErrLengthMismatch) {
			t.Errorf("%s: want ErrLengthMismatch, got %v", test.desc, err)
		}
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		desc string
		a, b []ot.Operation
		want []ot.Operation
	}{
		{
			desc: "insert then retain",
			a:    []ot.Operation{ot.Insert{Str: "abc"}},
			b:    []ot.Operation{ot.Retain{N: 3}},
			want: []ot.Operation{ot.Insert{Str: "abc"}},
		},
		{
			desc: "insert then delete cancels",
			a:    []ot.Operation{ot.Retain{N: 1}, ot.Insert{Str: "abc"}},
			b:    []ot.Operation{ot.Retain{N: 1}, ot.Delete{N: 3}},
			want: []ot.Operation{ot.Retain{N: 1}},
		},
		{
			desc: "partial delete of insert",
			a:    []ot.Operation{ot.Insert{Str: "abcd"}, ot.Retain{N: 2}},
			b:    []ot.Operation{ot.Retain{N: 1}, ot.Delete{N: 2}, ot.Retain{N: 3}},
			want: []ot.Operation{ot.Insert{Str: "ad"}, ot.Retain{N: 2}},
		},
		{
			desc: "delete retained chars",
			a:    []ot.Operation{ot.Retain{N: 4}},
			b:    []ot.Operation{ot.Retain{N: 1}, ot.Delete{N: 2}, ot.Retain{N: 1}},
			want: []ot.Operation{ot.Retain{N: 1}, ot.Delete{N: 2}, ot.Retain{N: 1}},
		},
		{
			desc: "deletes pass through",
			a:    []ot.Operation{ot.Delete{N: 2}, ot.Retain{N: 2}},
			b:    []ot.Operation{ot.Insert{Str: "x"}, ot.Delete{N: 2}},
			want: []ot.Operation{ot.Insert{Str: "x"}, ot.Delete{N: 4}},
		},
		{
			desc: "hello world then prefix",
			a:    []ot.Operation{ot.Insert{Str: "Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2}},
			b:    []ot.Operation{ot.Insert{Str: "!!!"}, ot.Retain{N: 11}},
			want: []ot.Operation{ot.Insert{Str: "!!!Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2}},
		},
	}
	for _, test := range tests {
		a, b := mustBuild(t, test.a...), mustBuild(t, test.b...)
		got, err := ot.Compose(a, b)
		if err != nil {
			t.Fatalf("%s: ot.Compose(%v, %v): %v", test.desc, a, b, err)
		}
		if msg := cmp.Diff(test.want, got.Ops()); msg != "" {
			t.Errorf("%s: ot.Compose(%v, %v): (-want, +got)\n%s", test.desc, a, b, msg)
		}
		if got.BaseLen() != a.BaseLen() || got.TargetLen() != b.TargetLen() {
			t.Errorf("%s: ot.Compose(%v, %v): want lengths (%d, %d), got (%d, %d)",
				test.desc, a, b, a.BaseLen(), b.TargetLen(), got.BaseLen(), got.TargetLen())
		}
	}
}

func TestComposeScenario(t *testing.T) {
	const doc = "World!!"
	s := mustBuild(t, ot.Insert{Str: "Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2})
	tt := mustBuild(t, ot.Insert{Str: "!!!"}, ot.Retain{N: 11})
	st, err := s.Compose(tt)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	got, err := st.Apply(doc)
	if err != nil {
		t.Fatalf("apply composed: %v", err)
	}
	afterS, _ := s.Apply(doc)
	want, _ := tt.Apply(afterS)
	if got != want || got != "!!!Hello World" {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestTransform(t *testing.T) {
	const doc = "World!!"
	s := mustBuild(t, ot.Insert{Str: "Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2})
	t2 := mustBuild(t, ot.Retain{N: 7}, ot.Insert{Str: "?"})

	sPrime, t2Prime, err := ot.Transform(s, t2)
	if err != nil {
		t.Fatalf("ot.Transform: %v", err)
	}
	wantSPrime := []ot.Operation{ot.Insert{Str: "Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2}, ot.Retain{N: 1}}
	if msg := cmp.Diff(wantSPrime, sPrime.Ops()); msg != "" {
		t.Errorf("s': (-want, +got)\n%s", msg)
	}
	wantT2Prime := []ot.Operation{ot.Retain{N: 11}, ot.Insert{Str: "?"}}
	if msg := cmp.Diff(wantT2Prime, t2Prime.Ops()); msg != "" {
		t.Errorf("t2': (-want, +got)\n%s", msg)
	}

	left, err := ot.Compose(s, t2Prime)
	if err != nil {
		t.Fatalf("compose(s, t2'): %v", err)
	}
	right, err := ot.Compose(t2, sPrime)
	if err != nil {
		t.Fatalf("compose(t2, s'): %v", err)
	}
	got1, _ := left.Apply(doc)
	got2, _ := right.Apply(doc)
	if got1 != "Hello World?" || got2 != "Hello World?" {
		t.Errorf("want both %q, got %q and %q", "Hello World?", got1, got2)
	}
}

func TestTransformPriority(t *testing.T) {
	a := mustBuild(t, ot.Retain{N: 1}, ot.Insert{Str: "a"}, ot.Retain{N: 1})
	b := mustBuild(t, ot.Retain{N: 1}, ot.Insert{Str: "b"}, ot.Delete{N: 1})
	tests := []struct {
		winner ot.Side
		want   string
	}{
		{ot.Left, "xab"},
		{ot.Right, "xba"},
	}
	for _, test := range tests {
		aPrime, bPrime, err := ot.TransformPriority(a, b, test.winner)
		if err != nil {
			t.Fatalf("%v: ot.TransformPriority: %v", test.winner, err)
		}
		afterA, _ := a.Apply("xy")
		afterB, _ := b.Apply("xy")
		got1, err := bPrime.Apply(afterA)
		if err != nil {
			t.Fatalf("%v: apply b': %v", test.winner, err)
		}
		got2, err := aPrime.Apply(afterB)
		if err != nil {
			t.Fatalf("%v: apply a': %v", test.winner, err)
		}
		if got1 != test.want || got2 != test.want {
			t.Errorf("%v: want %q, got %q and %q", test.winner, test.want, got1, got2)
		}
	}
}

func TestTransformDeletes(t *testing.T) {
	// Both delete "cd" out of "abcdef", and a also deletes "ef".
	a := mustBuild(t, ot.Retain{N: 2}, ot.Delete{N: 4})
	b := mustBuild(t, ot.Retain{N: 2}, ot.Delete{N: 2}, ot.Retain{N: 2})
	aPrime, bPrime, err := ot.Transform(a, b)
	if err != nil {
		t.Fatalf("ot.Transform: %v", err)
	}
	if msg := cmp.Diff([]ot.Operation{ot.Retain{N: 2}, ot.Delete{N: 2}}, aPrime.Ops()); msg != "" {
		t.Errorf("a': (-want, +got)\n%s", msg)
	}
	if msg := cmp.Diff([]ot.Operation{ot.Retain{N: 2}}, bPrime.Ops()); msg != "" {
		t.Errorf("b': (-want, +got)\n%s", msg)
	}
}

func TestInvert(t *testing.T) {
	const doc = "World!!"
	s := mustBuild(t, ot.Insert{Str: "Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2})
	inv, err := ot.Invert(s, doc)
	if err != nil {
		t.Fatalf("ot.Invert: %v", err)
	}
	want := []ot.Operation{ot.Delete{N: 6}, ot.Retain{N: 5}, ot.Insert{Str: "!!"}}
	if msg := cmp.Diff(want, inv.Ops()); msg != "" {
		t.Errorf("(-want, +got)\n%s", msg)
	}
	after, _ := s.Apply(doc)
	got, err := inv.Apply(after)
	if err != nil {
		t.Fatalf("apply inverse: %v", err)
	}
	if got != doc {
		t.Errorf("want %q, got %q", doc, got)
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   []ot.Operation
	}{
		{"", "", nil},
		{"abc", "abc", []ot.Operation{ot.Retain{N: 3}}},
		{"abc", "axc", []ot.Operation{ot.Retain{N: 1}, ot.Insert{Str: "x"}, ot.Delete{N: 1}, ot.Retain{N: 1}}},
		{"World!!", "Hello World", []ot.Operation{ot.Insert{Str: "Hello "}, ot.Retain{N: 5}, ot.Delete{N: 2}}},
	}
	for _, test := range tests {
		seq, err := ot.Diff(test.s1, test.s2)
		if err != nil {
			t.Fatalf("ot.Diff(%q, %q): %v", test.s1, test.s2, err)
		}
		if msg := cmp.Diff(test.want, seq.Ops()); msg != "" {
			t.Errorf("ot.Diff(%q, %q): (-want, +got)\n%s", test.s1, test.s2, msg)
		}
	}
	if _, err := ot.Diff("\xff", ""); !errors.Is(err, ot.ErrInvalidOperation) {
		t.Errorf("ot.Diff: want ErrInvalidOperation, got %v", err)
	}
}

func FuzzTransform(f *testing.F) {
	f.Add([]byte(`["Hello ",5,-2]`), []byte(`[6,"?",1]`))
	f.Add([]byte(`[1,"a",1]`), []byte(`[1,"b",1]`))
	f.Add([]byte(`[-3,"x"]`), []byte(`[1,-2,"yz"]`))
	f.Add([]byte(`[]`), []byte(`["abc"]`))
	f.Fuzz(func(t *testing.T, aData, bData []byte) {
		var a, b ot.Sequence
		if json.Unmarshal(aData, &a) != nil || json.Unmarshal(bData, &b) != nil {
			return
		}
		if a.BaseLen() != b.BaseLen() {
			return
		}
		// Keep transformed lengths far from int overflow.
		const maxLen = 1 << 30
		if a.TargetLen() > maxLen || b.TargetLen() > maxLen {
			return
		}
		for _, winner := range []ot.Side{ot.Left, ot.Right} {
			aPrime, bPrime, err := ot.TransformPriority(&a, &b, winner)
			if err != nil {
				t.Fatalf("TransformPriority(%v, %v, %v): %v", &a, &b, winner, err)
			}
			ab, err := ot.Compose(&a, bPrime)
			if err != nil {
				t.Fatalf("Compose(%v, %v): %v", &a, bPrime, err)
			}
			ba, err := ot.Compose(&b, aPrime)
			if err != nil {
				t.Fatalf("Compose(%v, %v): %v", &b, aPrime, err)
			}
			if !ab.Equal(ba) {
				t.Fatalf("%v wins: a.b' = %v, b.a' = %v", winner, ab, ba)
			}
		}
	})
}
