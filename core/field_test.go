package core

import (
	"testing"
	"time"
)

func TestField_StringValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{
			name:  "String field",
			field: Field{Type: StringType, Str: "hello"},
			want:  "hello",
		},
		{
			name:  "Int field",
			field: Field{Type: IntType, Int64: 42},
			want:  "42",
		},
		{
			name:  "Int64 field",
			field: Field{Type: Int64Type, Int64: 1234567890},
			want:  "1234567890",
		},
		{
			name:  "Float64 field",
			field: Field{Type: Float64Type, Float64: 3.5},
			want:  "3.5",
		},
		{
			name:  "Bool field (true)",
			field: Field{Type: BoolType, Int64: 1},
			want:  "true",
		},
		{
			name:  "Bool field (false)",
			field: Field{Type: BoolType, Int64: 0},
			want:  "false",
		},
		{
			name:  "Time field",
			field: Field{Type: TimeType, Int64: ts.UnixNano()},
			want:  ts.Local().Format(time.RFC3339),
		},
		{
			name:  "Duration field",
			field: Field{Type: DurationType, Int64: int64(1500 * time.Millisecond)},
			want:  "1.5s",
		},
		{
			name:  "Error field",
			field: Field{Type: ErrorType, Str: "boom"},
			want:  "boom",
		},
		{
			name:  "Any field",
			field: Field{Type: AnyType, Any: []int{1, 2}},
			want:  "[1 2]",
		},
		{
			name:  "Any field (nil)",
			field: Field{Type: AnyType, Any: nil},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.StringValue(); got != tt.want {
				t.Errorf("Field.StringValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
