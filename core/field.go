package core

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType discriminates which slot of the Field union holds the
// value.
type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	AnyType
)

// Field is a structured key-value pair. Scalar values live in typed
// slots so the common cases never box into an interface: integers,
// durations, and nanosecond timestamps share Int64, bools are stored
// as 0 or 1 in Int64, strings and error text share Str. Only AnyType
// uses the Any slot.
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Any     interface{}
}

// StringValue renders the field's value as plain text, the form the
// terminal encoder emits after "key=".
func (f Field) StringValue() string {
	switch f.Type {
	case StringType, ErrorType:
		return f.Str
	case IntType, Int64Type:
		return strconv.FormatInt(f.Int64, 10)
	case Float64Type:
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.FormatBool(f.Int64 == 1)
	case TimeType:
		return time.Unix(0, f.Int64).Format(time.RFC3339)
	case DurationType:
		return time.Duration(f.Int64).String()
	case AnyType:
		if f.Any == nil {
			return ""
		}
		return fmt.Sprint(f.Any)
	default:
		return ""
	}
}
