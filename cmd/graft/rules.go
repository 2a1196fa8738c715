package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamsammich/graft/internal/config"
	"github.com/bamsammich/graft/internal/filter"
)

func newRulesCmd(opts *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective exclusion rules",
		Long: `Print the directory and file exclusions a merge would apply, after
config file and --exclude-dir / --exclude-file / --no-default-excludes are
taken into account. A pattern with '*' matches any name ending in the rest
of the pattern; anything else matches a name exactly.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			printRules(stdout, buildRules(opts, cfg.Exclude), cfg.Exclude.IgnoreFiles)
			return nil
		},
	}
}

func printRules(w io.Writer, r *filter.Rules, ignoreFiles []string) {
	section := func(title string, items []string) {
		fmt.Fprintf(w, "%s:\n", title)
		if len(items) == 0 {
			fmt.Fprintln(w, "  (none)")
			return
		}
		for _, it := range items {
			fmt.Fprintf(w, "  %s\n", it)
		}
	}
	section("directory exclusions", r.DirPatterns())
	section("file exclusions", r.FilePatterns())
	if len(ignoreFiles) > 0 {
		section("ignore files", ignoreFiles)
	}
}

func newConfigCmd(opts *options, stdout io.Writer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:           "path",
		Short:         "Print the config file location",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintln(stdout, configPath(opts))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a starter config file with the built-in exclusions",
		Long: `Write a starter config file listing the built-in exclusions so they can
be edited. An existing config file is never replaced.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := configPath(opts)
			starter := config.Starter(
				append([]string(nil), filter.DefaultDirExclusions...),
				append([]string(nil), filter.DefaultFileExclusions...),
			)
			if err := config.Write(path, starter); err != nil {
				if errors.Is(err, os.ErrExist) {
					err = fmt.Errorf("config already exists at %s", path)
				}
				return &exitError{code: 2, err: err}
			}
			fmt.Fprintf(stdout, "wrote %s\n", path)
			return nil
		},
	})

	return configCmd
}

func configPath(opts *options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.Path()
}
