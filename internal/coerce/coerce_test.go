package coerce

import "testing"

func TestValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		// Empty and nil
		{name: "nil input", input: nil, want: nil},
		{name: "empty string", input: "", want: nil},
		{name: "whitespace-only stays string", input: "   ", want: ""},

		// Booleans
		{name: "true literal", input: "true", want: true},
		{name: "false literal", input: "false", want: false},
		{name: "padded true", input: "  true  ", want: true},
		{name: "capitalized True stays string", input: "True", want: "True"},
		{name: "native bool passes through", input: true, want: true},

		// Numbers
		{name: "integer string", input: "42", want: float64(42)},
		{name: "decimal string", input: "3.14", want: 3.14},
		{name: "negative number", input: "-17.5", want: -17.5},
		{name: "scientific notation", input: "1e3", want: float64(1000)},
		{name: "native float passes through", input: 12.5, want: 12.5},
		{name: "native int passes through", input: 7, want: 7},

		// Documented lossy behavior: leading zeros are numeric.
		{name: "leading zeros lost", input: "007", want: float64(7)},

		// Non-finite spellings stay strings.
		{name: "Inf stays string", input: "Inf", want: "Inf"},
		{name: "NaN stays string", input: "NaN", want: "NaN"},

		// Strings
		{name: "plain text", input: "Acme", want: "Acme"},
		{name: "padded text trimmed", input: "  Acme  ", want: "Acme"},
		{name: "mixed alphanumeric", input: "A12", want: "A12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Value(tt.input)
			if got != tt.want {
				t.Errorf("Value(%#v) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "string unchanged", input: "007", want: "007"},
		{name: "float without trailing zeros", input: float64(12), want: "12"},
		{name: "decimal float", input: 2.5, want: "2.5"},
		{name: "bool", input: true, want: "true"},
		{name: "int", input: 9, want: "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.input); got != tt.want {
				t.Errorf("String(%#v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
