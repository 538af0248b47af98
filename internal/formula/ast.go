// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd003-formula-engine R2 (AST, evaluation, canonical reprint).
package formula

import (
	"math"
	"strconv"
	"strings"

	"github.com/petar-djukic/go-sheet/pkg/types"
)

// Operator precedence levels for canonical reprinting.
const (
	precAdd   = 1
	precMul   = 2
	precPow   = 3
	precUnary = 4
	precAtom  = 5
)

// node is one formula AST node. eval returns a number or a
// types.FormulaError; write appends the canonical form, parenthesising
// itself when its precedence is below the minimum the context requires.
type node interface {
	eval(r Resolver) (float64, error)
	write(sb *strings.Builder, min int)
}

type numberNode struct {
	value float64
}

func (n *numberNode) eval(Resolver) (float64, error) {
	return n.value, nil
}

func (n *numberNode) write(sb *strings.Builder, _ int) {
	sb.WriteString(strconv.FormatFloat(n.value, 'f', -1, 64))
}

// refNode reads another cell. text is the canonical reference; for in-bounds
// references it equals pos.String(), out-of-bounds references keep their
// upper-cased source text and evaluate to #REF!.
type refNode struct {
	pos  types.Position
	text string
}

func (n *refNode) eval(r Resolver) (float64, error) {
	if !n.pos.IsValid() {
		return 0, types.NewFormulaError(types.ErrorCodeRef)
	}

	v := r.ValueAt(n.pos)
	switch v.Kind {
	case types.ValueNumber:
		return v.Number, nil
	case types.ValueError:
		return 0, v.Err
	case types.ValueText:
		if v.Text == "" {
			return 0, nil
		}
		num, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return 0, types.NewFormulaError(types.ErrorCodeValue)
		}
		return num, nil
	default:
		return 0, nil
	}
}

func (n *refNode) write(sb *strings.Builder, _ int) {
	sb.WriteString(n.text)
}

type unaryNode struct {
	operand node
}

func (n *unaryNode) eval(r Resolver) (float64, error) {
	v, err := n.operand.eval(r)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (n *unaryNode) write(sb *strings.Builder, min int) {
	wrap := precUnary < min
	if wrap {
		sb.WriteByte('(')
	}
	sb.WriteByte('-')
	n.operand.write(sb, precUnary+1)
	if wrap {
		sb.WriteByte(')')
	}
}

type binaryNode struct {
	op    byte
	left  node
	right node
}

func (n *binaryNode) prec() int {
	switch n.op {
	case '+', '-':
		return precAdd
	case '*', '/':
		return precMul
	default:
		return precPow
	}
}

func (n *binaryNode) eval(r Resolver) (float64, error) {
	l, err := n.left.eval(r)
	if err != nil {
		return 0, err
	}
	rv, err := n.right.eval(r)
	if err != nil {
		return 0, err
	}

	switch n.op {
	case '+':
		return l + rv, nil
	case '-':
		return l - rv, nil
	case '*':
		return l * rv, nil
	case '/':
		// Division by zero yields a non-finite number; the caller maps
		// non-finite results to #DIV/0!.
		return l / rv, nil
	default:
		res := math.Pow(l, rv)
		if math.IsNaN(res) && !math.IsNaN(l) && !math.IsNaN(rv) {
			return 0, types.NewFormulaError(types.ErrorCodeArithm)
		}
		return res, nil
	}
}

func (n *binaryNode) write(sb *strings.Builder, min int) {
	p := n.prec()
	wrap := p < min
	if wrap {
		sb.WriteByte('(')
	}

	lmin, rmin := p, p+1
	switch n.op {
	case '+', '*':
		rmin = p // Associative; drop redundant right parens.
	case '^':
		lmin, rmin = p+1, p // Right-associative.
	}

	n.left.write(sb, lmin)
	sb.WriteByte(n.op)
	n.right.write(sb, rmin)

	if wrap {
		sb.WriteByte(')')
	}
}

// callNode is a scalar function application.
type callNode struct {
	name string
	args []node
}

func (n *callNode) eval(r Resolver) (float64, error) {
	vals := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(r)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}

	switch n.name {
	case "SUM":
		total := 0.0
		for _, v := range vals {
			total += v
		}
		return total, nil
	case "MIN":
		m := vals[0]
		for _, v := range vals[1:] {
			m = math.Min(m, v)
		}
		return m, nil
	case "MAX":
		m := vals[0]
		for _, v := range vals[1:] {
			m = math.Max(m, v)
		}
		return m, nil
	case "ABS":
		return math.Abs(vals[0]), nil
	default: // ROUND; names are validated at parse time.
		return math.Round(vals[0]), nil
	}
}

func (n *callNode) write(sb *strings.Builder, _ int) {
	sb.WriteString(n.name)
	sb.WriteByte('(')
	for i, a := range n.args {
		if i > 0 {
			sb.WriteByte(',')
		}
		a.write(sb, precAdd)
	}
	sb.WriteByte(')')
}
