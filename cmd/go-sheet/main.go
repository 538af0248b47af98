// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-sheet is a test CLI for the go-sheet library.
// Implements: prd005-technology-stack R4.1-R4.6;
//
//	docs/ARCHITECTURE § Project Structure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "go-sheet",
		Short: "In-memory spreadsheet engine",
		Long:  "go-sheet executes cell commands against an in-memory spreadsheet: set and clear cells, evaluate formulas, and print the resulting table.",
	}

	// Global flags.
	rootCmd.PersistentFlags().String("file", "", "Command script file (default: stdin)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log engine mutations to stderr")

	// Bind flags to viper.
	viper.BindPFlag("file", rootCmd.PersistentFlags().Lookup("file"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Env vars: GO_SHEET_FILE, GO_SHEET_VERBOSE.
	viper.SetEnvPrefix("GO_SHEET")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".go-sheet")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-sheet version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("go-sheet %s\n", version)
		},
	}
}
