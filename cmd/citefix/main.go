// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citefix CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citefix/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// envKeyReplacer maps viper keys to environment names:
// lookup.mailto -> CITEFIX_LOOKUP_MAILTO.
var envKeyReplacer = strings.NewReplacer(".", "_")

// rootCmd is the base command for the citefix CLI.
var rootCmd = &cobra.Command{
	Use:   "citefix",
	Short: "Convert author-year citations to LaTeX and tidy BibTeX keys",
	Long: `citefix turns plain-text author-year citations such as "Varela et al 2014"
into LaTeX \cite{} commands, looking keys up in a BibTeX bibliography.

It also rewrites bibliography keys to the AuthorYear form, splits keys that
collide, and adds references to a bibliography by DOI.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citefix.yaml or ~/.config/citefix/citefix.yaml)")
}

func initConfig() {
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citefix")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citefix"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("CITEFIX")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(cfg types.Config) {
	viper.SetDefault("cite.pattern", cfg.Cite.Pattern)
	viper.SetDefault("cite.macro", cfg.Cite.Macro)
	viper.SetDefault("cite.ambiguity", string(cfg.Cite.Ambiguity))
	viper.SetDefault("cite.fold_diacritics", cfg.Cite.FoldDiacritics)
	viper.SetDefault("bib.strategy", string(cfg.Bib.Strategy))
	viper.SetDefault("bib.keep_keys", cfg.Bib.KeepKeys)
	viper.SetDefault("lookup.timeout", cfg.Lookup.Timeout)
	viper.SetDefault("lookup.user_agent", cfg.Lookup.UserAgent)
	viper.SetDefault("lookup.mailto", cfg.Lookup.Mailto)
	viper.SetDefault("lookup.rate", cfg.Lookup.Rate)
	viper.SetDefault("lookup.cache_dir", cfg.Lookup.CacheDir)
	viper.SetDefault("lookup.no_cache", false)
}

// loadConfig merges defaults, config file, environment and flags.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// bindFlags binds the running command's flags to viper keys, so a flag
// given on the command line overrides the config file and environment.
// Binding happens at run time because several commands share keys.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
