// Package cli implements the sizefolder command line.
package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/sizefolder/internal/config"
	"github.com/idelchi/sizefolder/internal/foldersize"
	"github.com/idelchi/sizefolder/internal/integration"
	"github.com/idelchi/sizefolder/internal/report"
)

// allowedOutputs lists the accepted output formats.
var allowedOutputs = []string{"table", "json", "csv", "paths"} //nolint:gochecknoglobals // Flag values

// Options configures a sizefolder invocation.
type Options struct {
	// Root is the directory whose immediate subfolders are sized.
	Root string
	// Excludes contains glob patterns to exclude.
	Excludes []string
	// MaxDepth is the maximum traversal depth below each subfolder (-1 = unlimited).
	MaxDepth int
	// Threads is the number of subfolders sized concurrently.
	Threads int
	// Dedup enables hard link deduplication.
	Dedup bool
	// Top limits the displayed results (0 = all).
	Top int
	// Output is the output format.
	Output string
	// Sort is the table ordering.
	Sort string
	// Filter keeps results whose name or path contains it.
	Filter string
	// CSV is the file to export results to.
	CSV string
	// All includes error and cancelled results in CSV output.
	All bool
	// Config is the path of the YAML config file.
	Config string
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Version indicates whether to show version and exit.
	Version bool
	// Integration indicates whether to output integration script.
	Integration bool
}

// request converts the options into a scan request.
func (o Options) request() foldersize.Request {
	return foldersize.Request{
		Root:     o.Root,
		Excludes: o.Excludes,
		MaxDepth: o.MaxDepth,
		Workers:  o.Threads,
		Dedup:    o.Dedup,
		TopN:     o.Top,
	}
}

// view converts the options into a presentation view.
func (o Options) view() report.View {
	return report.View{
		Sort:   report.SortKey(o.Sort),
		Filter: o.Filter,
		Top:    o.Top,
	}
}

// validate checks option values that the flag parser cannot.
func (o Options) validate() error {
	if !slices.Contains(allowedOutputs, o.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", o.Output, allowedOutputs)
	}

	if _, err := report.ParseSortKey(o.Sort); err != nil {
		return err
	}

	if o.MaxDepth < foldersize.Unlimited {
		return errors.New("max-depth must be -1 (unlimited) or greater")
	}

	if o.Threads < 1 {
		return errors.New("threads must be at least 1")
	}

	if o.Top < 0 {
		return errors.New("top cannot be negative")
	}

	if o.CSV == "-" && o.Output != "csv" {
		return errors.New("--csv - writes to stdout; use --output csv instead")
	}

	return nil
}

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command.
//
//nolint:funlen // Flag definitions
func (c CLI) Command() *cobra.Command {
	var options Options

	cmd := &cobra.Command{
		Use:   "sizefolder [flags] [root]",
		Short: "Report the size of every immediate subfolder of a directory",
		Long: heredoc.Doc(`
			sizefolder computes the total logical size of each immediate subfolder of root.

			Positional Arguments:
			  root                   Directory to analyze. Defaults to current directory if not specified.

			Subfolders are sized in parallel. Symbolic links are never followed and hard links
			are counted once per run unless --dedup=false is given. Exclusions are shell globs
			matched against entry names and every segment of their path below the subfolder,
			so '-x node_modules' skips node_modules at any depth.

			Results that could not be read completely are marked 'partial'; subfolders that
			could not be read at all are marked 'error'. Ctrl+C stops the scan and reports
			the unfinished subfolders as 'cancelled'.

			Defaults for any flag not given on the command line are read from the config
			file (YAML), e.g.:

			  excludes: [".git", "node_modules"]
			  max_depth: 3
			  threads: 16

			The '-i' flag prints a zsh function 'sfcd' that pipes the result into 'fzf'
			and changes into the selected folder.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if options.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			cfg, err := config.Load(options.Config)
			if err != nil {
				return err
			}

			applyConfig(cmd.Flags(), cfg, &options)

			options.Output = strings.ToLower(options.Output)
			options.Sort = strings.ToLower(options.Sort)

			if err := options.validate(); err != nil {
				return err
			}

			options.Root = "."
			if len(args) > 0 {
				options.Root = args[0]
			}

			return logic(cmd.Context(), options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringSliceVarP(&options.Excludes, "exclude", "x", []string{}, "Glob patterns to exclude (e.g., .git,node_modules,'*.tmp')")
	flags.IntVarP(&options.MaxDepth, "max-depth", "d", foldersize.Unlimited, "Maximum directory levels entered below each subfolder (-1=unlimited)")
	flags.IntVarP(&options.Threads, "threads", "j", foldersize.DefaultWorkers(), "Number of subfolders sized concurrently")
	flags.BoolVar(&options.Dedup, "dedup", true, "Count hard-linked files only once")
	flags.IntVarP(&options.Top, "top", "t", 0, "Number of largest subfolders to display (0=all)")
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: table, json, csv or paths")
	flags.StringVarP(&options.Sort, "sort", "s", string(report.SortSize), "Ordering of displayed results: size, name or path")
	flags.StringVarP(&options.Filter, "filter", "f", "", "Only display subfolders whose name or path contains this text")
	flags.StringVar(&options.CSV, "csv", "", "Also write results to this CSV file ('-' is only accepted with --output csv)")
	flags.BoolVar(&options.All, "all", false, "Include error and cancelled subfolders in CSV output")
	flags.StringVar(&options.Config, "config", config.DefaultPath(), "Path to the YAML config file")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")
	flags.BoolVarP(&options.Integration, "init", "i", false, "Output init script for shell usage")

	return cmd
}

// applyConfig fills options whose flags were not set explicitly from cfg.
func applyConfig(flags *pflag.FlagSet, cfg *config.Config, options *Options) {
	unset := func(name string) bool {
		return !flags.Changed(name)
	}

	if unset("exclude") && len(cfg.Excludes) > 0 {
		options.Excludes = cfg.Excludes
	}

	if unset("max-depth") && cfg.MaxDepth != nil {
		options.MaxDepth = *cfg.MaxDepth
	}

	if unset("threads") && cfg.Threads != nil {
		options.Threads = *cfg.Threads
	}

	if unset("dedup") && cfg.Dedup != nil {
		options.Dedup = *cfg.Dedup
	}

	if unset("top") && cfg.Top != nil {
		options.Top = *cfg.Top
	}

	if unset("output") && cfg.Output != "" {
		options.Output = cfg.Output
	}

	if unset("sort") && cfg.Sort != "" {
		options.Sort = cfg.Sort
	}
}
