// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the marcpick CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the marcpick CLI.
var rootCmd = &cobra.Command{
	Use:   "marcpick",
	Short: "Extract field values from bibliographic catalog records",
	Long: `marcpick reads catalog records in MARC (ISO-2709), MARCXML, or Aleph
sequential encoding and extracts the values selected by a field scheme.
An optional condition filters which records are emitted: a boolean
expression (AND, OR, NOT, parentheses) over regex matches against
6-character field selectors, e.g.

  marcpick extract --format marc --fields "200@@a	210@@d" \
    --condition "(200@@a(?i\)java AND NOT 200@@a(?i\)script) OR 606@@a^JAVA" \
    catalog.mrc`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./marcpick.yaml or ~/.config/marcpick/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("marcpick")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "marcpick"))
		}
	}

	viper.SetEnvPrefix("MARCPICK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
