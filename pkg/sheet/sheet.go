// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sheet defines the public interface for go-sheet, an in-memory
// spreadsheet core with lazy memoised formula evaluation, cycle-safe
// dependency tracking, and printable-area bookkeeping.
// Implements: prd001-sheet-interface R5, R6;
//
//	docs/ARCHITECTURE § Sheet Interface.
package sheet

import (
	"io"

	"github.com/petar-djukic/go-sheet/internal/engine"
	"github.com/petar-djukic/go-sheet/pkg/types"
)

// Error categories for the Sheet API. Mutating calls that fail with one of
// these leave the sheet in its pre-call state.
//
// Implements: prd001-sheet-interface R6.1-R6.4.
var (
	ErrInvalidPosition    = engine.ErrInvalidPosition
	ErrFormulaSyntax      = engine.ErrFormulaSyntax
	ErrCircularDependency = engine.ErrCircularDependency
	ErrNoPrintableArea    = engine.ErrNoPrintableArea
)

// Cell is the read surface of one populated cell.
type Cell interface {
	// Value returns the computed value: numeric zero for empty cells, the
	// displayed string for text cells, the memoised result for formulas.
	Value() types.Value

	// Text returns the display text: raw text with the escape sigil
	// preserved, or "=" plus the canonical expression for formulas.
	Text() string

	// ReferencedCells returns the positions the cell's formula reads,
	// sorted and deduplicated; nil for non-formula cells.
	ReferencedCells() []types.Position

	// IsCacheValid reports whether the next Value call is memoised.
	IsCacheValid() bool
}

// Sheet is a sparse two-dimensional table of cells. It is single-threaded:
// reads mutate memoisation state, so callers needing concurrency must
// serialise around it.
type Sheet interface {
	// SetCell installs text at pos: empty text drops an existing cell (the
	// printable area can shrink) and leaves an Empty placeholder in an
	// unmaterialised slot; text starting with "=" (except a lone "=") is
	// parsed as a formula.
	// Fails with ErrInvalidPosition, ErrFormulaSyntax, or
	// ErrCircularDependency, leaving the sheet unchanged.
	SetCell(pos types.Position, text string) error

	// Cell returns the cell at pos, or nil if the slot is unmaterialised.
	// Empty placeholders created by forward references are returned as such.
	Cell(pos types.Position) (Cell, error)

	// ClearCell drops the cell at pos. Clearing a frontier cell shrinks the
	// printable area. Downstream formula caches are not invalidated.
	ClearCell(pos types.Position) error

	// PrintableSize returns the bounding box of populated cells.
	PrintableSize() (types.Size, error)

	// PrintValues writes tab-separated cell values, one row per line,
	// covering exactly the printable area.
	PrintValues(w io.Writer) error

	// PrintTexts writes tab-separated cell display texts in the same layout.
	PrintTexts(w io.Writer) error
}
