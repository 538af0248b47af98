// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-sheet-interface R7;
//
//	docs/ARCHITECTURE § Sheet Interface.
package sheet

import (
	"io"
	"log/slog"

	"github.com/petar-djukic/go-sheet/internal/engine"
	"github.com/petar-djukic/go-sheet/pkg/types"
)

// Config configures a Sheet instance.
type Config struct {
	// Logger receives structured mutation logs. Nil discards all output.
	Logger *slog.Logger
}

// New returns an empty ready-to-use Sheet.
func New(cfg Config) Sheet {
	return &sheetAdapter{engine: engine.New(cfg.Logger)}
}

// sheetAdapter adapts internal/engine.Sheet to the public Sheet interface.
type sheetAdapter struct {
	engine *engine.Sheet
}

var _ Sheet = (*sheetAdapter)(nil)

func (a *sheetAdapter) SetCell(pos types.Position, text string) error {
	return a.engine.SetCell(pos, text)
}

func (a *sheetAdapter) Cell(pos types.Position) (Cell, error) {
	c, err := a.engine.CellAt(pos)
	if err != nil {
		return nil, err
	}
	if c == nil {
		// Avoid wrapping a typed nil in a non-nil interface.
		return nil, nil
	}
	return c, nil
}

func (a *sheetAdapter) ClearCell(pos types.Position) error {
	return a.engine.ClearCell(pos)
}

func (a *sheetAdapter) PrintableSize() (types.Size, error) {
	return a.engine.PrintableSize()
}

func (a *sheetAdapter) PrintValues(w io.Writer) error {
	return a.engine.PrintValues(w)
}

func (a *sheetAdapter) PrintTexts(w io.Writer) error {
	return a.engine.PrintTexts(w)
}
