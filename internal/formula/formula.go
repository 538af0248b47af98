// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package formula parses and evaluates cell formulas: the text after the
// leading "=" sigil. The dialect covers float literals, A1 cell references,
// the operators + - * / ^ with unary sign, parentheses, and the scalar
// functions SUM, MIN, MAX, ABS, ROUND.
//
// Implements: prd003-formula-engine R3 (public contract);
//
//	docs/ARCHITECTURE § Formula Engine.
package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/go-sheet/pkg/types"
)

// Resolver supplies referenced cell values during evaluation. Absent and
// empty cells resolve to the numeric-zero value.
type Resolver interface {
	ValueAt(pos types.Position) types.Value
}

// functionArity maps supported function names to their minimum and maximum
// argument counts (-1 for unbounded).
var functionArity = map[string][2]int{
	"SUM":   {1, -1},
	"MIN":   {1, -1},
	"MAX":   {1, -1},
	"ABS":   {1, 1},
	"ROUND": {1, 1},
}

// Formula is a parsed formula: an AST plus its canonical expression and the
// set of cell positions it reads.
type Formula struct {
	root node
	expr string
	refs []types.Position
}

// Parse parses a formula expression (without the "=" sigil).
func Parse(expr string) (*Formula, error) {
	ast := &expression{}
	if err := formulaParser.ParseString(expr, ast); err != nil {
		return nil, fmt.Errorf("parsing formula %q: %w", expr, err)
	}

	root, err := lowerExpression(ast)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	root.write(&sb, precAdd)

	return &Formula{
		root: root,
		expr: sb.String(),
		refs: collectRefs(root),
	}, nil
}

// Evaluate computes the formula against the resolver. The returned error,
// when non-nil, is always a types.FormulaError.
func (f *Formula) Evaluate(r Resolver) (float64, error) {
	return f.root.eval(r)
}

// Expression returns the canonical reprint of the formula: whitespace-free,
// minimal parentheses, upper-case references.
func (f *Formula) Expression() string {
	return f.expr
}

// ReferencedCells returns the in-bounds positions the formula reads, sorted
// and deduplicated. Out-of-bounds references are omitted; they contribute a
// #REF! value at evaluation time, never a dependency edge.
func (f *Formula) ReferencedCells() []types.Position {
	out := make([]types.Position, len(f.refs))
	copy(out, f.refs)
	return out
}

// lowerExpression folds the layered grammar into the evaluation AST,
// validating references and function applications.
func lowerExpression(e *expression) (node, error) {
	left, err := lowerTerm(e.Left)
	if err != nil {
		return nil, err
	}
	for _, ot := range e.Rest {
		right, err := lowerTerm(ot.Term)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: ot.Op[0], left: left, right: right}
	}
	return left, nil
}

func lowerTerm(t *term) (node, error) {
	left, err := lowerFactor(t.Left)
	if err != nil {
		return nil, err
	}
	for _, of := range t.Rest {
		right, err := lowerFactor(of.Factor)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: of.Op[0], left: left, right: right}
	}
	return left, nil
}

func lowerFactor(f *factor) (node, error) {
	base, err := lowerUnary(f.Base)
	if err != nil {
		return nil, err
	}
	if f.Exp == nil {
		return base, nil
	}
	exp, err := lowerFactor(f.Exp)
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: '^', left: base, right: exp}, nil
}

func lowerUnary(u *unary) (node, error) {
	atom, err := lowerAtom(u.Atom)
	if err != nil {
		return nil, err
	}
	if u.Sign == "-" {
		return &unaryNode{operand: atom}, nil
	}
	// Unary plus is a no-op and vanishes from the canonical form.
	return atom, nil
}

func lowerAtom(a *atom) (node, error) {
	switch {
	case a.Number != nil:
		return &numberNode{value: *a.Number}, nil
	case a.Call != nil:
		return lowerCall(a.Call)
	case a.Ref != nil:
		pos, ok := types.ParseRef(*a.Ref)
		if !ok {
			return nil, fmt.Errorf("malformed cell reference %q", *a.Ref)
		}
		text := strings.ToUpper(*a.Ref)
		if pos.IsValid() {
			text = pos.String()
		}
		return &refNode{pos: pos, text: text}, nil
	default:
		return lowerExpression(a.Sub)
	}
}

func lowerCall(c *call) (node, error) {
	name := strings.ToUpper(c.Name)
	arity, ok := functionArity[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", c.Name)
	}
	if len(c.Args) < arity[0] || (arity[1] >= 0 && len(c.Args) > arity[1]) {
		return nil, fmt.Errorf("function %s takes %d argument(s), got %d", name, arity[0], len(c.Args))
	}

	args := make([]node, len(c.Args))
	for i, a := range c.Args {
		n, err := lowerExpression(a)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	return &callNode{name: name, args: args}, nil
}

// collectRefs gathers the valid referenced positions, sorted and unique.
func collectRefs(root node) []types.Position {
	seen := make(map[types.Position]struct{})
	var walk func(n node)
	walk = func(n node) {
		switch v := n.(type) {
		case *refNode:
			if v.pos.IsValid() {
				seen[v.pos] = struct{}{}
			}
		case *unaryNode:
			walk(v.operand)
		case *binaryNode:
			walk(v.left)
			walk(v.right)
		case *callNode:
			for _, a := range v.args {
				walk(a)
			}
		}
	}
	walk(root)

	refs := make([]types.Position, 0, len(seen))
	for p := range seen {
		refs = append(refs, p)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}
