// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintelligence/marcpick/internal/extract"
	"github.com/meshintelligence/marcpick/internal/store"
	"github.com/meshintelligence/marcpick/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store [files...]",
	Short: "Extract records and persist the results in SQLite",
	Long: `Store runs the same extraction as the extract command but writes every
projected mapping into a SQLite database, one run per source, so
results can be queried later without re-parsing the catalog dump.`,
	RunE: runStore,
}

func init() {
	addSchemeFlags(storeCmd)
	storeCmd.Flags().String("db", "marcpick.db", "SQLite database file")

	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	cfg, err := extractConfig(cmd)
	if err != nil {
		return err
	}
	sch, err := compileScheme(cfg)
	if err != nil {
		return err
	}

	db, err := store.Open(types.StoreConfig{DBPath: setting(cmd, "db")})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	var matched, filtered, skipped int
	err = eachSource(args, func(name string, src io.Reader) error {
		st, err := extract.Parse(sch, cfg.Format, src)
		if err != nil {
			return err
		}
		summary, err := db.SaveRun(ctx, name, cfg.Format, st, os.Stdout)
		if err != nil {
			return err
		}
		matched += summary.Records
		filtered += summary.Filtered
		skipped += summary.Skipped
		return nil
	})
	if err != nil {
		return err
	}

	printSummary(matched, filtered, skipped)
	return nil
}
