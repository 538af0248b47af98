// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-cell-content R3 (classification), R4 (cycle probe);
//
//	docs/ARCHITECTURE § Cell.
package engine

import (
	"fmt"

	"github.com/petar-djukic/go-sheet/pkg/types"
)

// Cell owns exactly one content variant and borrows a back-reference to its
// sheet for formula resolution and cycle probing. The sheet exclusively owns
// every cell; no cell outlives it.
type Cell struct {
	sheet   *Sheet
	content content
}

func newCell(s *Sheet) *Cell {
	return &Cell{sheet: s, content: emptyContent{}}
}

// set classifies text and installs the matching content variant:
// empty → Empty; no leading "=" or a lone "=" → Text; otherwise the tail is
// parsed as a formula. On parse failure the previous content is left
// untouched and the error wraps ErrFormulaSyntax.
func (c *Cell) set(text string) error {
	if text == "" {
		c.content = emptyContent{}
		return nil
	}

	if text[0] != formulaSigil || len(text) == 1 {
		c.content = newTextContent(text)
		return nil
	}

	fc, err := newFormulaContent(text[1:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormulaSyntax, err)
	}
	c.content = fc
	return nil
}

// clear resets the cell to the Empty variant.
func (c *Cell) clear() {
	c.content = emptyContent{}
}

// Value returns the cell's computed value. Empty cells yield numeric zero,
// text cells their displayed string, formula cells their (memoised) result.
func (c *Cell) Value() types.Value {
	return c.content.value(c.sheet)
}

// Text returns the cell's display text: the raw text for Text cells
// (escape sigil preserved), "=" plus the canonical expression for formulas.
func (c *Cell) Text() string {
	return c.content.text()
}

// ReferencedCells returns the positions the cell's formula reads; nil for
// non-formula cells.
func (c *Cell) ReferencedCells() []types.Position {
	return c.content.referencedCells()
}

// InvalidateCache drops the memoised formula value. No-op on other variants.
func (c *Cell) InvalidateCache() {
	c.content.invalidate()
}

// IsCacheValid reports whether the next Value call is served from memo.
// Non-formula variants are trivially fresh.
func (c *Cell) IsCacheValid() bool {
	return c.content.cached()
}

// isCyclicDependent probes for a cycle by depth-first traversal over the
// cell's referenced positions. A cycle exists when a referenced position
// equals end, or a resolved cell is start itself. Unmaterialised slots are
// empty leaves: forward references are legal and read as zero, and nothing
// is materialised while probing so a failed mutation cannot grow the sheet.
func (c *Cell) isCyclicDependent(start *Cell, end types.Position, seen map[types.Position]struct{}) bool {
	for _, ref := range c.content.referencedCells() {
		if ref == end {
			return true
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}

		refCell := c.sheet.cellAt(ref)
		if refCell == nil {
			continue
		}
		if refCell == start {
			return true
		}
		if refCell.isCyclicDependent(start, end, seen) {
			return true
		}
	}
	return false
}
