package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/bowerhall/skugraph/internal/factstore"
	"github.com/bowerhall/skugraph/internal/graph"
	"github.com/bowerhall/skugraph/internal/logger"
	"github.com/bowerhall/skugraph/internal/query"
	"github.com/bowerhall/skugraph/internal/source"
	"github.com/bowerhall/skugraph/internal/triple"
)

type queryFlags struct {
	subject  string
	object   string
	relation string
	plain    bool
	quiet    bool
}

func newRootCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "skugraph",
		Short: "Query subject-relation-object facts loaded from .sku files",
		Long: `skugraph loads ("Subject", "relation", "Object") triples from .sku files and
answers forward (subject + relation) and reverse (object + relation) queries.

Without query flags it lists the loaded facts and reads JSON queries from stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.subject, "subject", "s", "", "subject for a forward query")
	cmd.Flags().StringVarP(&flags.object, "object", "o", "", "object for a reverse query")
	cmd.Flags().StringVarP(&flags.relation, "relation", "r", "", "relation to match")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "print one result per line instead of JSON")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not list loaded facts in interactive mode")

	cmd.AddCommand(newFactsCmd(), newPushCmd(), newHistoryCmd())

	return cmd
}

func runRoot(cmd *cobra.Command, flags queryFlags) error {
	interactive := flags.subject == "" && flags.object == "" && flags.relation == ""

	// reject bad flag combinations before loading anything
	var req query.Request
	if !interactive {
		var err error
		req, err = query.FromArgs(flags.subject, flags.object, flags.relation)
		if err != nil {
			return &exitError{code: exitInvalidQuery, err: err}
		}
	}

	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	if !interactive {
		return printResponse(out, query.Execute(a.index, req), flags.plain)
	}

	if !flags.quiet {
		if err := printFacts(out, a.index, "Loaded Knowledge Graph Facts:"); err != nil {
			return err
		}
	}

	if a.cfg.ReloadSchedule != "" {
		if err := a.reloader.Start(ctx, a.cfg.ReloadSchedule); err != nil {
			return &exitError{code: exitLoadFailed, err: err}
		}
	}

	fmt.Fprintln(out, "\nReady to process JSON queries. Enter a JSON-formatted query, or type 'quit' to exit.")

	return query.NewSession(a.index, cmd.InOrStdin(), out).Run(ctx)
}

func printResponse(out io.Writer, resp query.Response, plain bool) error {
	if resp.Error != "" {
		return &exitError{code: exitInvalidQuery, err: errors.New(resp.Error)}
	}

	if plain {
		if len(resp.Results) == 0 {
			fmt.Fprintln(out, "no facts found")
			return nil
		}
		for _, r := range resp.Results {
			fmt.Fprintln(out, r)
		}
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(data))
	return nil
}

func printFacts(out io.Writer, idx *graph.Index, header string) error {
	facts, err := idx.Facts()
	if err != nil {
		return err
	}

	if header != "" {
		fmt.Fprintln(out, header)
	}
	for _, f := range facts {
		fmt.Fprintf(out, " - %s\n", f)
	}

	return nil
}

func newFactsCmd() *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "facts",
		Short: "List every loaded fact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if err := printFacts(out, a.index, ""); err != nil {
				return err
			}

			if stats {
				s, err := a.index.Stats()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%d triples (%d distinct), %d entities, %d relations, generation %s\n",
					s.Triples, s.Facts, s.Entities, s.Relations, s.Generation)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "print index statistics after the listing")

	return cmd
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the local .sku files to the configured bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Bucket.Enabled {
				return &exitError{code: exitLoadFailed, err: errors.New("bucket not configured: set MINIO_ACCESS_KEY and MINIO_SECRET_KEY")}
			}

			client, err := newBucketClient(ctx, cfg.Bucket)
			if err != nil {
				return &exitError{code: exitLoadFailed, err: err}
			}

			entries, err := os.ReadDir(cfg.SKUDir)
			if err != nil {
				return &exitError{code: exitLoadFailed, err: fmt.Errorf("read dir %s: %w", cfg.SKUDir, err)}
			}

			var names []string
			for _, e := range entries {
				if !e.IsDir() && source.IsSKU(e.Name()) {
					names = append(names, e.Name())
				}
			}
			sort.Strings(names)

			for _, name := range names {
				if err := pushFile(cmd, client, cfg.SKUDir, cfg.Bucket.Prefix, name); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pushed %d files to %s\n", len(names), client.Bucket())
			return nil
		},
	}
}

type uploader interface {
	Upload(ctx context.Context, name string, data []byte) error
}

func pushFile(cmd *cobra.Command, client uploader, dir, prefix, name string) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}

	src, err := triple.ReadSource(name, bytes.NewReader(data))
	if err != nil {
		return err
	}

	// malformed lines are uploaded as-is; readers skip them
	res := triple.LoadAll([]triple.Source{src})
	for _, f := range res.Failures {
		logger.Warn("malformed line in pushed file", "file", name, "line", f.Line, "reason", f.Reason)
	}

	if err := client.Upload(cmd.Context(), prefix+name, data); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d triples, %d malformed\n", name, len(res.Triples), len(res.Failures))
	return nil
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the loads recorded in the snapshot store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.SnapshotPath == "" {
				return &exitError{code: exitLoadFailed, err: errors.New("snapshot store not configured: set SKUGRAPH_SNAPSHOT")}
			}

			store, err := factstore.Open(cfg.SnapshotPath)
			if err != nil {
				return &exitError{code: exitLoadFailed, err: err}
			}
			defer store.Close()

			loads, err := store.Loads(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(loads) == 0 {
				fmt.Fprintln(out, "no loads recorded")
				return nil
			}
			for _, l := range loads {
				fmt.Fprintf(out, "%s  %s  %d triples  %d malformed\n",
					l.Generation, l.LoadedAt.Format(time.DateTime), l.Triples, l.Failures)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of loads to show")

	return cmd
}
