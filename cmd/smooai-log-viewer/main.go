package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smooai/log-viewer/internal/app"
	"github.com/smooai/log-viewer/internal/filter"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "smooai-log-viewer: %v\n", err)
		return 1
	}
	return 0
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	prefsPath  string
	debug      bool
	logPath    string
}

func (g *globalFlags) options(args []string) app.Options {
	opts := app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		Debug:      g.debug,
		LogPath:    g.logPath,
	}
	if len(args) > 0 {
		opts.Root = args[0]
	}
	return opts
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "smooai-log-viewer [root]",
		Short: "Index and browse structured logs",
		Long: `smooai-log-viewer indexes the JSON log files kept in .smooai-logs
directories under a root and opens them in a terminal viewer. The catalog
follows the files as they change.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), g.options(args))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ~/.config/smooai-log-viewer/config.toml)")
	pf.StringVar(&g.prefsPath, "prefs", "", "preferences file (default ~/.config/smooai-log-viewer/prefs.toml)")
	pf.BoolVar(&g.debug, "debug", false, "write debug logs")
	pf.StringVar(&g.logPath, "log-file", "", "debug log file for the viewer (default "+app.DefaultLogPath()+")")

	root.AddCommand(newViewCmd(g), newQueryCmd(g), newExportCmd(g))
	return root
}

func newViewCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view [root]",
		Short: "Open the interactive viewer (default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), g.options(args))
		},
	}
}

func newQueryCmd(g *globalFlags) *cobra.Command {
	var q app.QueryOptions
	cmd := &cobra.Command{
		Use:   "query [root]",
		Short: "Print matching records",
		Long: `Index the root once and print every record that matches the filters.
Filters are case-insensitive substrings unless --regex is set.

Examples:
  smooai-log-viewer query --level error
  smooai-log-viewer query ./services --trace abc123 --json
  smooai-log-viewer query --text timeout --column userId --follow`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Query(cmd.Context(), g.options(args), q, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	bindFilterFlags(cmd, &q.Filters)
	f.IntVarP(&q.Limit, "limit", "n", 0, "print at most n records (0 for all)")
	f.BoolVar(&q.OldestFirst, "oldest-first", false, "sort oldest records first")
	f.BoolVar(&q.JSON, "json", false, "print each record as one JSON line")
	f.StringSliceVar(&q.Columns, "column", nil, "extra fields to print as key=value")
	f.BoolVarP(&q.Follow, "follow", "F", false, "keep printing new matches as files change")
	return cmd
}

func bindFilterFlags(cmd *cobra.Command, filters *filter.Filters) {
	f := cmd.Flags()
	f.StringVarP(&filters.Text, "text", "t", "", "match anywhere in the record")
	f.StringVarP(&filters.Level, "level", "l", "", "match the level")
	f.StringVar(&filters.Correlation, "correlation", "", "match the correlation id")
	f.StringVar(&filters.Service, "service", "", "match the service")
	f.StringVar(&filters.Namespace, "namespace", "", "match the namespace")
	f.StringVar(&filters.Trace, "trace", "", "match the trace id")
	f.StringVar(&filters.Request, "request", "", "match the request id")
	f.BoolVarP(&filters.Regex, "regex", "r", false, "treat filters as regular expressions")
}

func newExportCmd(g *globalFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export [root]",
		Short: "Write the catalog to a SQLite database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Export(cmd.Context(), g.options(args), dir, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default from config, else the temp dir)")
	return cmd
}
