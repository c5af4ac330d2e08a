// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/meshintelligence/marcpick/internal/scheme"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a field scheme and condition without reading records",
	Long: `Check compiles the selector list and condition and prints the per-part
pass/fail report. Both parts are validated independently, so a broken
condition still tells you whether the field list was fine.`,
	RunE: runCheck,
}

func init() {
	addSchemeFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	fields := setting(cmd, "fields")
	cond := setting(cmd, "condition")

	if path := setting(cmd, "scheme"); path != "" {
		f, err := scheme.ReadFile(path)
		if err != nil {
			return err
		}
		if fields == "" {
			fields = f.FieldSpec()
		}
		if cond == "" {
			cond = f.Condition
		}
	}

	report := scheme.New().Set(fields, cond)
	printPart("field", report.Field)
	printPart("condition", report.Condition)
	if !report.OK() {
		return fmt.Errorf("scheme did not compile")
	}
	return nil
}

func printPart(name string, ok bool) {
	if ok {
		color.New(color.FgGreen).Fprintf(os.Stdout, "%-10s ok\n", name)
	} else {
		color.New(color.FgRed).Fprintf(os.Stdout, "%-10s FAILED\n", name)
	}
}
