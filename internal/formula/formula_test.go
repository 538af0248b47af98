// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-sheet/pkg/types"
)

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "whitespace stripped", in: " 1 +  2 * 3 ", want: "1+2*3"},
		{name: "needed parens kept", in: "(1+2)*3", want: "(1+2)*3"},
		{name: "redundant parens dropped", in: "1+(2*3)", want: "1+2*3"},
		{name: "associative plus flattened", in: "(1+2)+3", want: "1+2+3"},
		{name: "right parens kept under minus", in: "1-(2+3)", want: "1-(2+3)"},
		{name: "nested minus kept", in: "1-(2-3)", want: "1-(2-3)"},
		{name: "division grouping kept", in: "2/(3/4)", want: "2/(3/4)"},
		{name: "left division flattened", in: "(3/4)/2", want: "3/4/2"},
		{name: "multiply distributes nothing", in: "1*(2+3)", want: "1*(2+3)"},
		{name: "power right assoc", in: "2^3^4", want: "2^3^4"},
		{name: "power left grouping kept", in: "(2^3)^4", want: "(2^3)^4"},
		{name: "power right grouping dropped", in: "2^(3^4)", want: "2^3^4"},
		{name: "unary minus on group", in: "-(1+2)", want: "-(1+2)"},
		{name: "unary minus on ref", in: "-a1", want: "-A1"},
		{name: "unary plus vanishes", in: "+5", want: "5"},
		{name: "refs uppercased", in: "a1+b2", want: "A1+B2"},
		{name: "trailing zeros dropped", in: "1.50", want: "1.5"},
		{name: "function call", in: "sum(a1, 2, 3)", want: "SUM(A1,2,3)"},
		{name: "nested function", in: "abs(min(a1,b1))", want: "ABS(MIN(A1,B1))"},
		{name: "canonical is idempotent", in: "1-(2+3)*4", want: "1-(2+3)*4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Expression())

			// Reparsing the canonical form must be a fixed point.
			f2, err := Parse(f.Expression())
			require.NoError(t, err)
			assert.Equal(t, f.Expression(), f2.Expression())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "blank", in: "   "},
		{name: "dangling operator", in: "1+"},
		{name: "double operator", in: "1+*2"},
		{name: "unbalanced parens", in: "(1+2"},
		{name: "bare name", in: "foo"},
		{name: "unknown function", in: "FOO(1)"},
		{name: "wrong arity", in: "ABS(1,2)"},
		{name: "missing args", in: "SUM()"},
		{name: "stray token", in: "1 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestFormula_ReferencedCells(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []types.Position
	}{
		{name: "no refs", in: "1+2", want: []types.Position{}},
		{
			name: "sorted row-major",
			in:   "B2+A1+A2",
			want: []types.Position{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 1, Col: 1}},
		},
		{
			name: "duplicates collapse",
			in:   "A1+A1*A1",
			want: []types.Position{{Row: 0, Col: 0}},
		},
		{
			name: "out of bounds omitted",
			in:   "A1+XFE1",
			want: []types.Position{{Row: 0, Col: 0}},
		},
		{
			name: "function args counted",
			in:   "SUM(C1,B1)",
			want: []types.Position{{Row: 0, Col: 1}, {Row: 0, Col: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.ReferencedCells())
		})
	}
}
