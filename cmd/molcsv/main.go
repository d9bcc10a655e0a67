// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the molcsv CLI.
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

// rootCmd is the base command for the molcsv CLI.
var rootCmd = &cobra.Command{
	Use:   "molcsv",
	Short: "Convert SDF/SD chemical structure files to CSV",
	Long: `molcsv converts SDF/SD chemical structure files into CSV tables. Each
record becomes one row: a canonical SMILES string plus the record's data
items as columns, optionally extended with an ALCOA+ audit column block
for regulated environments.

Batch conversions run through the convert subcommand; serve starts the
interactive web front-end; history lists past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./molcsv.yaml or ~/.config/molcsv/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("molcsv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "molcsv"))
		}
	}

	viper.SetEnvPrefix("MOLCSV")
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
