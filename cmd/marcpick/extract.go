// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintelligence/marcpick/internal/extract"
	"github.com/meshintelligence/marcpick/internal/scheme"
	"github.com/meshintelligence/marcpick/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract selected field values from catalog records",
	Long: `Extract streams records from the given files (or stdin), drops records
the condition rejects, and prints one selector-to-values mapping per
remaining record. Malformed records are skipped and counted, never
fatal.`,
	RunE: runExtract,
}

func init() {
	addSchemeFlags(extractCmd)
	extractCmd.Flags().String("output", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(extractCmd)
}

// addSchemeFlags registers the flags shared by extract and store.
func addSchemeFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "marc", "input encoding: marc, marcxml, or aleph")
	cmd.Flags().String("fields", "", "tab-separated list of 6-character selectors")
	cmd.Flags().String("condition", "", "filter condition (empty: every record passes)")
	cmd.Flags().String("scheme", "", "YAML scheme file supplying fields and condition")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := extractConfig(cmd)
	if err != nil {
		return err
	}
	sch, err := compileScheme(cfg)
	if err != nil {
		return err
	}

	var projections []extract.Projection
	var filtered, skipped int
	err = eachSource(args, func(name string, src io.Reader) error {
		st, err := extract.Parse(sch, cfg.Format, src)
		if err != nil {
			return err
		}
		out, err := st.Drain()
		filtered += st.Filtered()
		skipped += st.Skipped()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		projections = append(projections, out...)
		return nil
	})
	if err != nil {
		return err
	}

	switch cfg.Output {
	case types.OutputJSON:
		if err := extract.FormatJSON(projections, os.Stdout); err != nil {
			return err
		}
	case types.OutputYAML:
		if err := extract.FormatYAML(projections, os.Stdout); err != nil {
			return err
		}
	default:
		extract.FormatTable(projections, os.Stdout)
	}

	printSummary(len(projections), filtered, skipped)
	return nil
}

// extractConfig resolves flags over config-file values.
func extractConfig(cmd *cobra.Command) (types.ExtractConfig, error) {
	cfg := types.ExtractConfig{
		Format:    types.Format(setting(cmd, "format")),
		Fields:    setting(cmd, "fields"),
		Condition: setting(cmd, "condition"),
		Output:    types.OutputFormat(setting(cmd, "output")),
	}
	if !cfg.Format.Valid() {
		return cfg, fmt.Errorf("unknown format %q (want marc, marcxml, or aleph)", cfg.Format)
	}

	if path := setting(cmd, "scheme"); path != "" {
		f, err := scheme.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if cfg.Fields == "" {
			cfg.Fields = f.FieldSpec()
		}
		if cfg.Condition == "" {
			cfg.Condition = f.Condition
		}
	}
	if cfg.Fields == "" {
		return cfg, fmt.Errorf("no selectors: pass --fields or --scheme")
	}
	return cfg, nil
}

// setting returns a flag's value, falling back to the config file when
// the flag was not passed on the command line.
func setting(cmd *cobra.Command, name string) string {
	if !cmd.Flags().Changed(name) && viper.IsSet(name) {
		return viper.GetString(name)
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

// compileScheme builds the Scheme, turning the pass/fail report into a
// hard error: extraction without a valid scheme is pointless.
func compileScheme(cfg types.ExtractConfig) (*scheme.Scheme, error) {
	sch := scheme.New()
	report := sch.Set(cfg.Fields, cfg.Condition)
	if !report.Field {
		return nil, fmt.Errorf("invalid field list %q", cfg.Fields)
	}
	if !report.Condition {
		return nil, fmt.Errorf("invalid condition %q", cfg.Condition)
	}
	return sch, nil
}

// eachSource invokes fn for every named file, or once for stdin when no
// files are given.
func eachSource(args []string, fn func(name string, src io.Reader) error) error {
	if len(args) == 0 {
		return fn("stdin", os.Stdin)
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		if err := fn(path, f); err != nil {
			f.Close()
			return err
		}
		f.Close()
	}
	return nil
}

// printSummary writes the colored run totals to stderr.
func printSummary(matched, filtered, skipped int) {
	color.New(color.FgGreen).Fprintf(os.Stderr, "%d matched", matched)
	fmt.Fprintf(os.Stderr, ", %d filtered", filtered)
	if skipped > 0 {
		fmt.Fprint(os.Stderr, ", ")
		color.New(color.FgYellow).Fprintf(os.Stderr, "%d malformed skipped", skipped)
	}
	fmt.Fprintln(os.Stderr)
}
