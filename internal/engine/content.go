// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-cell-content R1, R2 (content variants, cache states);
//
//	docs/ARCHITECTURE § Cell Content.
package engine

import (
	"math"

	"github.com/petar-djukic/go-sheet/internal/formula"
	"github.com/petar-djukic/go-sheet/pkg/types"
)

// Content sigils.
const (
	formulaSigil = '='
	escapeSigil  = '\''
)

type contentKind uint8

const (
	kindEmpty contentKind = iota
	kindText
	kindFormula
)

// content is the tagged variant behind a cell: Empty, Text, or Formula.
// Only the Formula variant has real cache state; the others are trivially
// fresh and ignore invalidation.
type content interface {
	kind() contentKind
	value(r formula.Resolver) types.Value
	text() string
	referencedCells() []types.Position
	invalidate()
	cached() bool
}

type emptyContent struct{}

func (emptyContent) kind() contentKind { return kindEmpty }

// value returns numeric zero: formulas referencing an empty cell see 0.
// The print path renders empty cells as empty output instead.
func (emptyContent) value(formula.Resolver) types.Value {
	return types.NumberValue(0)
}

func (emptyContent) text() string                      { return "" }
func (emptyContent) referencedCells() []types.Position { return nil }
func (emptyContent) invalidate()                       {}
func (emptyContent) cached() bool                      { return true }

type textContent struct {
	raw     string
	escaped bool
}

func newTextContent(raw string) *textContent {
	return &textContent{
		raw:     raw,
		escaped: raw[0] == escapeSigil,
	}
}

func (*textContent) kind() contentKind { return kindText }

// value strips exactly one leading escape sigil; text preserves it.
func (t *textContent) value(formula.Resolver) types.Value {
	if t.escaped {
		return types.TextValue(t.raw[1:])
	}
	return types.TextValue(t.raw)
}

func (t *textContent) text() string                      { return t.raw }
func (*textContent) referencedCells() []types.Position   { return nil }
func (*textContent) invalidate()                         {}
func (*textContent) cached() bool                        { return true }

type formulaContent struct {
	form *formula.Formula
	memo *types.Value
}

func newFormulaContent(expr string) (*formulaContent, error) {
	form, err := formula.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &formulaContent{form: form}, nil
}

func (*formulaContent) kind() contentKind { return kindFormula }

// value returns the memoised result when fresh; otherwise it evaluates and
// memoises. Non-finite numeric results map to #DIV/0! here so that only
// finite numbers ever surface as numeric values.
func (f *formulaContent) value(r formula.Resolver) types.Value {
	if f.memo != nil {
		return *f.memo
	}

	var v types.Value
	num, err := f.form.Evaluate(r)
	switch {
	case err != nil:
		v = types.ErrorValue(err.(types.FormulaError))
	case math.IsInf(num, 0) || math.IsNaN(num):
		v = types.ErrorValue(types.NewFormulaError(types.ErrorCodeDiv0))
	default:
		v = types.NumberValue(num)
	}

	f.memo = &v
	return v
}

func (f *formulaContent) text() string {
	return "=" + f.form.Expression()
}

func (f *formulaContent) referencedCells() []types.Position {
	return f.form.ReferencedCells()
}

func (f *formulaContent) invalidate() { f.memo = nil }
func (f *formulaContent) cached() bool { return f.memo != nil }
