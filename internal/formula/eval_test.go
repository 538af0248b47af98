// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package formula

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-sheet/pkg/types"
)

// mapResolver resolves references from a fixed table; everything else reads
// as zero, matching empty-cell semantics.
type mapResolver map[types.Position]types.Value

func (m mapResolver) ValueAt(pos types.Position) types.Value {
	if v, ok := m[pos]; ok {
		return v
	}
	return types.NumberValue(0)
}

var (
	posA1 = types.Position{Row: 0, Col: 0}
	posB1 = types.Position{Row: 0, Col: 1}
)

func TestFormula_Evaluate(t *testing.T) {
	cells := mapResolver{
		posA1: types.NumberValue(4),
		posB1: types.NumberValue(2.5),
	}

	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "literal", in: "42", want: 42},
		{name: "precedence", in: "1+2*3", want: 7},
		{name: "parens", in: "(1+2)*3", want: 9},
		{name: "division", in: "10/4", want: 2.5},
		{name: "subtraction chain", in: "10-3-2", want: 5},
		{name: "unary minus", in: "-(2+3)", want: -5},
		{name: "power", in: "2^10", want: 1024},
		{name: "power right assoc", in: "2^3^2", want: 512},
		{name: "reference", in: "A1+B1", want: 6.5},
		{name: "absent cell reads zero", in: "A1+Z99", want: 4},
		{name: "sum", in: "SUM(1,2,3,4)", want: 10},
		{name: "min", in: "MIN(3,1,2)", want: 1},
		{name: "max", in: "MAX(3,1,2)", want: 3},
		{name: "abs", in: "ABS(0-5)", want: 5},
		{name: "round", in: "ROUND(2.4)", want: 2},
		{name: "functions over refs", in: "SUM(A1,B1)*2", want: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.in)
			require.NoError(t, err)

			got, err := f.Evaluate(cells)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFormula_Evaluate_NonFinite(t *testing.T) {
	// Division by zero is not an evaluation error: the non-finite number is
	// returned and mapped to #DIV/0! by the cell content layer.
	f, err := Parse("1/0")
	require.NoError(t, err)

	got, err := f.Evaluate(mapResolver{})
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))
}

func TestFormula_Evaluate_Errors(t *testing.T) {
	cells := mapResolver{
		posA1: types.TextValue("abc"),
		posB1: types.ErrorValue(types.NewFormulaError(types.ErrorCodeDiv0)),
	}

	tests := []struct {
		name string
		in   string
		want types.ErrorCode
	}{
		{name: "non-numeric text", in: "A1+1", want: types.ErrorCodeValue},
		{name: "error propagates", in: "B1*2", want: types.ErrorCodeDiv0},
		{name: "out of bounds ref", in: "XFE1+1", want: types.ErrorCodeRef},
		{name: "arithmetic domain", in: "(0-8)^0.5", want: types.ErrorCodeArithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.in)
			require.NoError(t, err)

			_, err = f.Evaluate(cells)
			require.Error(t, err)

			ferr, ok := err.(types.FormulaError)
			require.True(t, ok)
			assert.Equal(t, tt.want, ferr.Code)
		})
	}
}

func TestFormula_Evaluate_NumericText(t *testing.T) {
	cells := mapResolver{posA1: types.TextValue("42")}

	f, err := Parse("A1/2")
	require.NoError(t, err)

	got, err := f.Evaluate(cells)
	require.NoError(t, err)
	assert.Equal(t, 21.0, got)
}
