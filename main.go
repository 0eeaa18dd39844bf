// Command zreplicate replicates labelled ZFS snapshots from source
// datasets into a backup pool, incrementally when the backup already
// shares a snapshot with the source.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"monks.co/zreplicate/config"
	"monks.co/zreplicate/db"
	"monks.co/zreplicate/env"
	"monks.co/zreplicate/logger"
)

const appName = "zreplicate"

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx := NewSigctx()
	if err := newRootCmd(env.NewZFS(env.Local)).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			err = context.Cause(ctx)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	dryRun     bool
	configPath string
	logFile    string
	historyDB  string
}

func (opts *options) load(args []string) (*config.Config, error) {
	conf, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := conf.Override(args); err != nil {
		return nil, err
	}
	if opts.logFile != "" {
		conf.LogFile = opts.logFile
	}
	if opts.historyDB != "" {
		conf.HistoryDB = opts.historyDB
	}
	return conf, nil
}

func newRootCmd(sys env.System) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   appName + " [flags] [backup-pool label dataset...]",
		Short: "Replicate labelled ZFS snapshots into a backup pool",
		Long: `zreplicate finds the newest snapshot of each dataset carrying the given label
and sends it into <backup-pool>/<dataset>: incrementally from the newest
snapshot both sides share, or in full when the backup has none yet.

Snapshots are expected to be named <dataset>@<yyyy>-<mm>-<dd>-<hhmm>-<ss>-<label>.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(args)
			if err != nil {
				return err
			}
			if err := conf.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			closer := logger.Setup(conf.LogFile)
			defer closer.Close()
			logger.New("global").Printf("%s - %s", appName, version)

			var history *db.DB
			if conf.HistoryDB != "" {
				history, err = db.Open(cmd.Context(), conf.HistoryDB)
				if err != nil {
					return fmt.Errorf("opening history db: %w", err)
				}
				defer history.Close()
			}

			_, err = NewReplicator(conf, sys, history, opts.dryRun).Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "plan and report, but create and send nothing")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: first of /etc, /usr/local/etc, /opt/local/etc zreplicate.toml)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "also log to this file, rotated")
	cmd.PersistentFlags().StringVar(&opts.historyDB, "history-db", "", "record outcomes in this sqlite database")

	cmd.AddCommand(newHistoryCmd(&opts))
	return cmd
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [dataset]",
		Short: "Show recent replication outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(nil)
			if err != nil {
				return err
			}
			if conf.HistoryDB == "" {
				return errors.New("no history db configured")
			}

			history, err := db.Open(cmd.Context(), conf.HistoryDB)
			if err != nil {
				return fmt.Errorf("opening history db: %w", err)
			}
			defer history.Close()

			var dataset string
			if len(args) == 1 {
				dataset = args[0]
			}
			outcomes, err := history.Recent(cmd.Context(), dataset, limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), outcomes)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of outcomes to show")
	return cmd
}

func printHistory(w io.Writer, outcomes []db.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tDATASET\tSTATUS\tACTION\tDETAIL")
	for _, o := range outcomes {
		status := string(o.Status)
		if o.DryRun {
			status += " (dry run)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", humanize.Time(o.RunAt), o.Dataset, status, o.Action, o.Detail)
	}
	return tw.Flush()
}
