// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormulaError_Tokens(t *testing.T) {
	tests := []struct {
		cat  ErrorCode
		want string
	}{
		{cat: ErrorCodeRef, want: "#REF!"},
		{cat: ErrorCodeValue, want: "#VALUE!"},
		{cat: ErrorCodeArithm, want: "#ARITHM!"},
		{cat: ErrorCodeDiv0, want: "#DIV/0!"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFormulaError(tt.cat).Error())
		})
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "integer-valued number", v: NumberValue(5), want: "5"},
		{name: "fractional number", v: NumberValue(2.5), want: "2.5"},
		{name: "negative number", v: NumberValue(-0.25), want: "-0.25"},
		{name: "zero", v: NumberValue(0), want: "0"},
		{name: "text", v: TextValue("hello"), want: "hello"},
		{name: "empty text", v: TextValue(""), want: ""},
		{name: "error", v: ErrorValue(NewFormulaError(ErrorCodeDiv0)), want: "#DIV/0!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}
