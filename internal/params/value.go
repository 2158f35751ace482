package params

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a parameter value: either a single string or an ordered list
// of strings.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar returns a single-string value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// List returns a list value holding a copy of values.
func List(values ...string) Value {
	return Value{list: append([]string{}, values...), isList: true}
}

// Split returns a list value when raw contains a comma, a scalar otherwise.
func Split(raw string) Value {
	if strings.Contains(raw, ",") {
		return List(strings.Split(raw, ",")...)
	}
	return Scalar(raw)
}

// IsList reports whether v holds a list.
func (v Value) IsList() bool {
	return v.isList
}

// Values returns the value as a fresh slice. A scalar yields one element.
func (v Value) Values() []string {
	if v.isList {
		return append([]string{}, v.list...)
	}
	return []string{v.scalar}
}

// Len returns the number of strings held by v.
func (v Value) Len() int {
	if v.isList {
		return len(v.list)
	}
	return 1
}

// String returns the scalar, or the list joined with commas.
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ",")
	}
	return v.scalar
}

// Equal reports whether v and other have the same shape and contents.
func (v Value) Equal(other Value) bool {
	if v.isList != other.isList {
		return false
	}
	if !v.isList {
		return v.scalar == other.scalar
	}
	if len(v.list) != len(other.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != other.list[i] {
			return false
		}
	}
	return true
}

// Fold combines an existing value with an incoming one. A scalar met by a
// second value becomes a list; a list has the incoming values appended.
func Fold(existing, incoming Value) Value {
	merged := make([]string, 0, existing.Len()+incoming.Len())
	merged = append(merged, existing.Values()...)
	merged = append(merged, incoming.Values()...)
	return Value{list: merged, isList: true}
}

// MarshalJSON encodes a scalar as a JSON string and a list as an array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

// UnmarshalJSON accepts a string, number, boolean, or null, or an array of
// those.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if arr, ok := raw.([]any); ok {
		values := make([]string, 0, len(arr))
		for _, item := range arr {
			s, err := scalarString(item)
			if err != nil {
				return err
			}
			values = append(values, s)
		}
		*v = List(values...)
		return nil
	}

	s, err := scalarString(raw)
	if err != nil {
		return err
	}
	*v = Scalar(s)
	return nil
}

func scalarString(raw any) (string, error) {
	switch t := raw.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported parameter value of type %T", raw)
	}
}
