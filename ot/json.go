package ot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// MarshalJSON encodes a Sequence as a JSON array, where a positive integer n
// is retain(n), a negative integer -n is delete(n), and a string s is insert(s).
//
//   [5, "abc", -2]  -->  retain(5) insert("abc") delete(2)
func (seq *Sequence) MarshalJSON() ([]byte, error) {
	values := make([]interface{}, len(seq.ops))
	for i, op := range seq.ops {
		switch op := op.(type) {
		case Retain:
			values[i] = op.N
		case Delete:
			values[i] = -op.N
		case Insert:
			values[i] = op.Str
		}
	}
	return json.Marshal(values)
}

// UnmarshalJSON decodes a Sequence in the format produced by MarshalJSON.
// The decoded operations are normalized.
func (seq *Sequence) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var values []interface{}
	if err := dec.Decode(&values); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	if values == nil {
		return fmt.Errorf("%w: expected JSON array, got %s", ErrInvalidOperation, data)
	}
	decoded := NewSequence()
	for i, value := range values {
		switch value := value.(type) {
		case json.Number:
			n, err := value.Int64()
			if err != nil || n == 0 || n > math.MaxInt || n < -math.MaxInt {
				return fmt.Errorf("%w: op #%d: invalid count %v", ErrInvalidOperation, i, value)
			}
			if n > 0 {
				err = decoded.Retain(int(n))
			} else {
				err = decoded.Delete(int(-n))
			}
			if err != nil {
				return fmt.Errorf("op #%d: %w", i, err)
			}
		case string:
			if value == "" {
				return fmt.Errorf("%w: op #%d: empty insert", ErrInvalidOperation, i)
			}
			if err := decoded.Insert(value); err != nil {
				return fmt.Errorf("op #%d: %w", i, err)
			}
		default:
			return fmt.Errorf("%w: op #%d: unexpected type %T", ErrInvalidOperation, i, value)
		}
	}
	*seq = *decoded
	return nil
}
