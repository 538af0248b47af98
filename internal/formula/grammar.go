// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd003-formula-engine R1 (lexer, grammar);
//
//	docs/ARCHITECTURE § Formula Engine.
package formula

import (
	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

// Token order matters: Ref must win over Float and Ident so "A1" lexes as a
// reference, not a name followed by a number.
var formulaLexer = lexer.Must(lexer.Regexp(
	`(\s+)` +
		`|(?P<Ref>[a-zA-Z]+\d+)` +
		`|(?P<Float>\d+(?:\.\d+)?)` +
		`|(?P<Ident>[a-zA-Z][a-zA-Z_\d]*)` +
		`|(?P<Punct>[\+\-\*\/(),\^])`,
))

var formulaParser = participle.MustBuild(
	&expression{},
	participle.Lexer(formulaLexer),
)

// Layered grammar encoding precedence: expression (+ -), term (* /),
// factor (^, right-associative), unary sign, atom.
type expression struct {
	Left *term     `@@`
	Rest []*opTerm `( @@ )*`
}

type opTerm struct {
	Op   string `@("+" | "-")`
	Term *term  `@@`
}

type term struct {
	Left *factor     `@@`
	Rest []*opFactor `( @@ )*`
}

type opFactor struct {
	Op     string  `@("*" | "/")`
	Factor *factor `@@`
}

type factor struct {
	Base *unary  `@@`
	Exp  *factor `( "^" @@ )?`
}

type unary struct {
	Sign string `@("-" | "+")?`
	Atom *atom  `@@`
}

type atom struct {
	Number *float64    `  @Float`
	Call   *call       `| @@`
	Ref    *string     `| @Ref`
	Sub    *expression `| "(" @@ ")"`
}

type call struct {
	Name string        `@Ident`
	Args []*expression `"(" ( @@ ( "," @@ )* )? ")"`
}
