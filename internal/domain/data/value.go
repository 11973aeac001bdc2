package data

import "strconv"

// Kind identifies which variant a Value holds
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
)

// Value is a tagged variant over the cell types a table can hold.
// The zero Value is NULL, so reading an absent map key yields NULL.
// Values are comparable structs and can be used as hash map keys.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the NULL value
func Null() Value {
	return Value{}
}

// Int wraps an int64 cell value
func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// Float wraps a float64 cell value
func Float(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// Text wraps a string cell value
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// Kind returns the variant tag
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is NULL
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Int returns the int64 value and true if the value is an INT cell
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Float returns the float64 value and true if the value is a FLOAT cell
func (v Value) Float() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsFloat returns a numeric value widened to float64.
// Works for both INT and FLOAT cells.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Text returns the string value and true if the value is a TEXT cell
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// String renders the value for display. NULL renders as "NULL".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	}
	return "NULL"
}

// Compare defines the total order used by sorting:
// NULL sorts first, numeric kinds compare by numeric value,
// text compares bytewise (case-sensitive), and numeric sorts before text.
func Compare(a, b Value) int {
	if a.kind == KindNull || b.kind == KindNull {
		if a.kind == b.kind {
			return 0
		}
		if a.kind == KindNull {
			return -1
		}
		return 1
	}

	aNum, aOK := a.AsFloat()
	bNum, bOK := b.AsFloat()
	switch {
	case aOK && bOK:
		if aNum < bNum {
			return -1
		}
		if aNum > bNum {
			return 1
		}
		return 0
	case aOK:
		return -1
	case bOK:
		return 1
	}

	if a.s < b.s {
		return -1
	}
	if a.s > b.s {
		return 1
	}
	return 0
}
