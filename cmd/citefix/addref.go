package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citefix/internal/doi"
	"github.com/pdiddy/citefix/internal/refcache"
)

var addrefFlagKeys = map[string]string{
	"timeout":   "lookup.timeout",
	"rate":      "lookup.rate",
	"mailto":    "lookup.mailto",
	"cache-dir": "lookup.cache_dir",
	"no-cache":  "lookup.no_cache",
	"strategy":  "bib.strategy",
}

var addrefCmd = &cobra.Command{
	Use:   "addref BIB DOI...",
	Short: "Add references to a BibTeX file by DOI",
	Long: `Addref fetches the BibTeX record of each DOI from doi.org, keys it as
AuthorYear, appends it to BIB (creating the file if needed) and splits any
key collisions. DOIs already in BIB are skipped.

Fetched records are cached in a local SQLite database; --no-cache bypasses it.
Set lookup.mailto (or CITEFIX_LOOKUP_MAILTO) to identify yourself to the
resolver.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAddref,
}

func init() {
	addrefCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	addrefCmd.Flags().Float64("rate", 0, "maximum lookups per second (default 2)")
	addrefCmd.Flags().String("mailto", "", "contact address sent with requests")
	addrefCmd.Flags().String("cache-dir", "", "reference cache directory")
	addrefCmd.Flags().Bool("no-cache", false, "do not read or write the reference cache")
	addrefCmd.Flags().String("strategy", "", "collision strategy: journal or digit (default journal)")

	rootCmd.AddCommand(addrefCmd)
}

func runAddref(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, addrefFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := checkStrategy(cfg.Bib.Strategy); err != nil {
		return err
	}
	noCache := viper.GetBool("lookup.no_cache")

	opts := []doi.Option{doi.WithStrategy(cfg.Bib.Strategy)}
	if !noCache {
		dir := cfg.Lookup.CacheDir
		if dir == "" {
			dir = refcache.DefaultDir()
		}
		cache, err := refcache.Open(dir)
		if err != nil {
			return err
		}
		defer cache.Close()
		opts = append(opts, doi.WithCache(cache))
	}

	client := doi.NewClient(cfg.Lookup, opts...)
	result, err := client.AddReferences(cmd.Context(), args[0], args[1:], os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d reference(s) not added", result.NotFound+result.Failed)
	}
	return nil
}
