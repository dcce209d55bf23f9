package dataset

import (
	"encoding/json"
	"strconv"
	"time"
)

// ColumnType is the inferred type of a generic column.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
)

// ColumnTypes lists every supported type; switches over ColumnType are
// checked against it in tests.
var ColumnTypes = [...]ColumnType{TypeString, TypeNumber, TypeDate, TypeBoolean}

// Valid reports whether t is one of the four supported types.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeDate, TypeBoolean:
		return true
	}
	return false
}

// Value is a cell coerced to its column's type, or null.
// Exactly one of the typed pointers is set when IsNull is false.
type Value struct {
	Type      ColumnType `json:"type"`
	StringVal *string    `json:"string_val,omitempty"`
	NumberVal *float64   `json:"number_val,omitempty"`
	BoolVal   *bool      `json:"bool_val,omitempty"`
	DateVal   *time.Time `json:"date_val,omitempty"`
	IsNull    bool       `json:"is_null"`
}

// NewStringValue creates a string value; the empty string is null.
func NewStringValue(s string) Value {
	if s == "" {
		return NullValue(TypeString)
	}
	return Value{Type: TypeString, StringVal: &s}
}

// NewNumberValue creates a numeric value
func NewNumberValue(n float64) Value {
	return Value{Type: TypeNumber, NumberVal: &n}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Type: TypeBoolean, BoolVal: &b}
}

// NewDateValue creates a date value
func NewDateValue(t time.Time) Value {
	return Value{Type: TypeDate, DateVal: &t}
}

// NullValue is the null marker for a column of type t.
func NullValue(t ColumnType) Value {
	return Value{Type: t, IsNull: true}
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.IsNull || v.StringVal == nil {
		return "", false
	}
	return *v.StringVal, true
}

// AsFloat64 returns the numeric payload.
func (v Value) AsFloat64() (float64, bool) {
	if v.IsNull || v.NumberVal == nil {
		return 0, false
	}
	return *v.NumberVal, true
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.IsNull || v.BoolVal == nil {
		return false, false
	}
	return *v.BoolVal, true
}

// AsTime returns the date payload.
func (v Value) AsTime() (time.Time, bool) {
	if v.IsNull || v.DateVal == nil {
		return time.Time{}, false
	}
	return *v.DateVal, true
}

// Key is a canonical text form used for distinct counting; null has no key.
func (v Value) Key() (string, bool) {
	if v.IsNull {
		return "", false
	}
	switch v.Type {
	case TypeString:
		return v.AsString()
	case TypeNumber:
		if n, ok := v.AsFloat64(); ok {
			return strconv.FormatFloat(n, 'g', -1, 64), true
		}
	case TypeBoolean:
		if b, ok := v.AsBool(); ok {
			return strconv.FormatBool(b), true
		}
	case TypeDate:
		if t, ok := v.AsTime(); ok {
			return t.UTC().Format(time.RFC3339Nano), true
		}
	}
	return "", false
}

// String returns the string representation of the value
func (v Value) String() string {
	if k, ok := v.Key(); ok {
		return k
	}
	return "<null>"
}

// MarshalJSON emits the bare payload so records serialize as plain JSON objects.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNull {
		return []byte("null"), nil
	}
	switch v.Type {
	case TypeString:
		s, _ := v.AsString()
		return json.Marshal(s)
	case TypeNumber:
		n, _ := v.AsFloat64()
		return json.Marshal(n)
	case TypeBoolean:
		b, _ := v.AsBool()
		return json.Marshal(b)
	case TypeDate:
		t, _ := v.AsTime()
		return json.Marshal(t.Format(time.RFC3339))
	}
	return []byte("null"), nil
}
