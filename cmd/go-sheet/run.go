// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-technology-stack R4.3-R4.5.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-sheet/pkg/sheet"
	"github.com/petar-djukic/go-sheet/pkg/types"
)

// newRunCmd creates the "run" command.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute a cell command script",
		Long: "Run reads newline-delimited commands (set A1 =B1+2, clear A1, size, values, texts)\n" +
			"from the script file or stdin and executes them against a fresh sheet.",
		RunE: runScript,
	}
}

// runScript executes the command script against a new in-memory sheet.
func runScript(cmd *cobra.Command, args []string) error {
	input := io.Reader(os.Stdin)
	if file := viper.GetString("file"); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		input = f
	}

	var logger *slog.Logger
	if viper.GetBool("verbose") {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	s := sheet.New(sheet.Config{Logger: logger})

	scanner := bufio.NewScanner(input)
	line := 0
	for scanner.Scan() {
		line++
		if err := execute(s, scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

// execute runs a single script command. Blank lines and #-comments are
// skipped.
func execute(s sheet.Sheet, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	fields := strings.SplitN(trimmed, " ", 2)
	switch strings.ToLower(fields[0]) {
	case "set":
		ref, text, ok := splitRefArg(fields)
		if !ok {
			return fmt.Errorf("usage: set <ref> <text>")
		}
		pos, ok := types.ParseRef(ref)
		if !ok {
			return fmt.Errorf("bad reference %q", ref)
		}
		return s.SetCell(pos, text)

	case "clear":
		if len(fields) != 2 {
			return fmt.Errorf("usage: clear <ref>")
		}
		pos, ok := types.ParseRef(strings.TrimSpace(fields[1]))
		if !ok {
			return fmt.Errorf("bad reference %q", fields[1])
		}
		return s.ClearCell(pos)

	case "size":
		size, err := s.PrintableSize()
		if err != nil {
			return err
		}
		fmt.Printf("%d %d\n", size.Rows, size.Cols)
		return nil

	case "values":
		return s.PrintValues(os.Stdout)

	case "texts":
		return s.PrintTexts(os.Stdout)

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

// splitRefArg splits "set A1 =B1+2" into its reference and the verbatim
// cell text, which may itself contain spaces.
func splitRefArg(fields []string) (ref, text string, ok bool) {
	if len(fields) != 2 {
		return "", "", false
	}
	rest := strings.SplitN(strings.TrimLeft(fields[1], " "), " ", 2)
	ref = rest[0]
	if len(rest) == 2 {
		text = rest[1]
	}
	return ref, text, true
}
