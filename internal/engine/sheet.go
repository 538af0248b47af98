// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package engine implements the spreadsheet core: the sparse cell table,
// mutation orchestration with rollback, the printable bounding box, and
// transitive cache invalidation over the dependency graph.
//
// Implements: prd001-sheet-interface R3, R4; prd004-dependency-graph R3;
//
//	docs/ARCHITECTURE § Sheet.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/petar-djukic/go-sheet/internal/graph"
	"github.com/petar-djukic/go-sheet/pkg/types"
)

// Structural errors raised by sheet mutation. They never mutate observable
// state and are recoverable by the caller.
var (
	ErrInvalidPosition    = errors.New("invalid position")
	ErrFormulaSyntax      = errors.New("formula syntax error")
	ErrCircularDependency = errors.New("circular dependency")
	ErrNoPrintableArea    = errors.New("no valid printable area")
)

// Sheet is a sparse two-dimensional cell table. It is not safe for
// concurrent use: even reads mutate memoisation state on formula cells.
type Sheet struct {
	rows [][]*Cell
	deps *graph.Graph

	// Printable bounding box, tracked incrementally on set and recomputed
	// by full scan when a frontier cell is cleared.
	maxRow    int
	maxCol    int
	areaValid bool

	logger *slog.Logger
}

// New creates an empty sheet. A nil logger discards all log output.
func New(logger *slog.Logger) *Sheet {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sheet{
		deps:      graph.New(),
		areaValid: true,
		logger:    logger,
	}
}

// SetCell installs text at pos. Side effects are ordered strictly:
// snapshot, invalidate downstream caches, tear down outgoing edges, install
// content, cycle probe, then on success register new edges and refresh the
// bounding box, on failure restore the snapshot. A failed call leaves the
// sheet indistinguishable from its pre-call state.
func (s *Sheet) SetCell(pos types.Position, text string) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: set at row %d col %d", ErrInvalidPosition, pos.Row, pos.Col)
	}

	s.reserve(pos)
	cell := s.cellAt(pos)
	if cell == nil {
		return s.setNewCell(pos, text)
	}

	// Setting empty text on an existing cell clears it outright: the slot is
	// dropped so the printable area can shrink, unlike an Empty placeholder
	// which stays populated.
	if text == "" {
		s.invalidateDownstream(pos)
		for _, ref := range cell.ReferencedCells() {
			s.deps.RemoveEdge(ref, pos)
		}
		s.dropSlot(pos)
		s.logger.Debug("cell set", slog.String("pos", pos.String()), slog.String("text", text))
		return nil
	}

	oldText := cell.Text()
	oldRefs := cell.ReferencedCells()

	s.invalidateDownstream(pos)
	for _, ref := range oldRefs {
		s.deps.RemoveEdge(ref, pos)
	}
	cell.clear()

	if err := cell.set(text); err != nil {
		s.rollback(cell, pos, oldText, oldRefs)
		return err
	}

	if cell.isCyclicDependent(cell, pos, map[types.Position]struct{}{}) {
		s.rollback(cell, pos, oldText, oldRefs)
		return fmt.Errorf("%w: at %s", ErrCircularDependency, pos)
	}

	s.registerEdges(cell, pos)
	s.logger.Debug("cell set", slog.String("pos", pos.String()), slog.String("text", text))
	return nil
}

// setNewCell handles the unmaterialised-slot path: the cell is constructed
// off-sheet and only inserted once content and cycle probe succeed, so a
// failure leaves the slot untouched.
func (s *Sheet) setNewCell(pos types.Position, text string) error {
	s.invalidateDownstream(pos)

	cell := newCell(s)
	if err := cell.set(text); err != nil {
		return err
	}
	if cell.isCyclicDependent(cell, pos, map[types.Position]struct{}{}) {
		return fmt.Errorf("%w: at %s", ErrCircularDependency, pos)
	}

	s.rows[pos.Row][pos.Col] = cell
	s.registerEdges(cell, pos)
	s.extendPrintable(pos)
	s.logger.Debug("cell set", slog.String("pos", pos.String()), slog.String("text", text))
	return nil
}

// rollback restores a cell's previous content and dependency edges after a
// failed install.
func (s *Sheet) rollback(cell *Cell, pos types.Position, oldText string, oldRefs []types.Position) {
	// Restoring previously installed text cannot fail: it already parsed.
	_ = cell.set(oldText)
	for _, ref := range oldRefs {
		s.deps.AddEdge(ref, pos)
	}
	s.logger.Warn("cell set rolled back", slog.String("pos", pos.String()))
}

// registerEdges records the cell's references in the dependency graph and
// materialises referenced slots as Empty placeholders, growing the
// printable area to cover them.
func (s *Sheet) registerEdges(cell *Cell, pos types.Position) {
	for _, ref := range cell.ReferencedCells() {
		s.deps.AddEdge(ref, pos)
		s.reserve(ref)
		if s.rows[ref.Row][ref.Col] == nil {
			s.rows[ref.Row][ref.Col] = newCell(s)
			s.extendPrintable(ref)
		}
	}
}

// CellAt returns the cell at pos, or nil if the slot is unmaterialised.
// Empty placeholder cells created to resolve forward references are
// returned as such.
func (s *Sheet) CellAt(pos types.Position) (*Cell, error) {
	if !pos.IsValid() {
		return nil, fmt.Errorf("%w: get at row %d col %d", ErrInvalidPosition, pos.Row, pos.Col)
	}
	return s.cellAt(pos), nil
}

// ClearCell drops the cell at pos. Clearing a frontier cell triggers a full
// bounding-box rescan. Downstream caches are deliberately not invalidated:
// dependents keep their memos until something else drops them, and a later
// read of an uncached dependent sees the now-empty input as zero.
func (s *Sheet) ClearCell(pos types.Position) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: clear at row %d col %d", ErrInvalidPosition, pos.Row, pos.Col)
	}
	if s.cellAt(pos) == nil {
		return nil
	}

	s.dropSlot(pos)
	s.logger.Debug("cell cleared", slog.String("pos", pos.String()))
	return nil
}

// dropSlot empties a materialised slot and refreshes the bounding box when
// the position lay on its frontier.
func (s *Sheet) dropSlot(pos types.Position) {
	s.rows[pos.Row][pos.Col] = nil
	if pos.Row+1 == s.maxRow || pos.Col+1 == s.maxCol {
		s.areaValid = false
		s.updatePrintableSize()
	}
}

// PrintableSize returns the current bounding box.
func (s *Sheet) PrintableSize() (types.Size, error) {
	if !s.areaValid {
		return types.Size{}, ErrNoPrintableArea
	}
	return types.Size{Rows: s.maxRow, Cols: s.maxCol}, nil
}

// PrintValues writes each populated cell's value, tab-separated within a
// row, one newline per row. Empty cells and unmaterialised slots emit
// nothing between separators.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.print(w, func(c *Cell) string {
		if c.content.kind() == kindEmpty {
			return ""
		}
		return c.Value().String()
	})
}

// PrintTexts writes each populated cell's display text in the same layout.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.print(w, func(c *Cell) string {
		return c.Text()
	})
}

func (s *Sheet) print(w io.Writer, render func(*Cell) string) error {
	for r := 0; r < s.maxRow; r++ {
		for c := 0; c < s.maxCol; c++ {
			if c > 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return err
				}
			}
			cell := s.cellAt(types.Position{Row: r, Col: c})
			if cell == nil {
				continue
			}
			if _, err := io.WriteString(w, render(cell)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// ValueAt implements formula.Resolver: absent slots read as numeric zero.
func (s *Sheet) ValueAt(pos types.Position) types.Value {
	cell := s.cellAt(pos)
	if cell == nil {
		return types.NumberValue(0)
	}
	return cell.Value()
}

// invalidateDownstream drops the memoised value of every formula cell that
// transitively depends on pos.
func (s *Sheet) invalidateDownstream(pos types.Position) {
	s.deps.WalkConsumers(pos, func(consumer types.Position) {
		if cell := s.cellAt(consumer); cell != nil {
			cell.InvalidateCache()
		}
	})
}

// Dependencies exposes the graph's direct consumers of pos.
func (s *Sheet) Dependencies(pos types.Position) []types.Position {
	return s.deps.Consumers(pos)
}

// cellAt returns the cell at a valid position without bounds errors;
// unmaterialised slots and rows yield nil.
func (s *Sheet) cellAt(pos types.Position) *Cell {
	if pos.Row >= len(s.rows) || pos.Col >= len(s.rows[pos.Row]) {
		return nil
	}
	return s.rows[pos.Row][pos.Col]
}

// reserve ensures storage exists for pos, preserving existing contents.
// Gaps remain nil.
func (s *Sheet) reserve(pos types.Position) {
	for len(s.rows) <= pos.Row {
		s.rows = append(s.rows, nil)
	}
	row := s.rows[pos.Row]
	for len(row) <= pos.Col {
		row = append(row, nil)
	}
	s.rows[pos.Row] = row
}

// extendPrintable grows the bounding box to cover a newly populated
// position.
func (s *Sheet) extendPrintable(pos types.Position) {
	if !s.areaValid {
		s.updatePrintableSize()
		return
	}
	if pos.Row+1 > s.maxRow {
		s.maxRow = pos.Row + 1
	}
	if pos.Col+1 > s.maxCol {
		s.maxCol = pos.Col + 1
	}
}

// updatePrintableSize recomputes the bounding box by full scan.
func (s *Sheet) updatePrintableSize() {
	s.maxRow, s.maxCol = 0, 0
	for r := range s.rows {
		for c := range s.rows[r] {
			if s.rows[r][c] != nil {
				if r+1 > s.maxRow {
					s.maxRow = r + 1
				}
				if c+1 > s.maxCol {
					s.maxCol = c + 1
				}
			}
		}
	}
	s.areaValid = true
}
