package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tubby/internal/catalog"
)

var errRemoteUnavailable = errors.New("remote catalog unavailable")

func newFetchCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and normalize the catalog once, then print the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}

			cat, err := opts.buildCatalog()
			if err != nil {
				return err
			}
			snap := cat.Initialize(cmd.Context())
			if strict && snap.Source != catalog.SourceRemote {
				return errRemoteUnavailable
			}
			return writeSnapshot(cmd.OutOrStdout(), snap, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of printing the bundled dataset")
	return cmd
}

func writeSnapshot(w io.Writer, snap *catalog.Snapshot, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print product counts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.buildCatalog()
			if err != nil {
				return err
			}
			snap := cat.Initialize(cmd.Context())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "CATEGORY\tLABEL\tCOUNT\n")
			for _, c := range catalog.CategoriesWithCounts(snap) {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Name, c.DisplayName, c.Count)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\n%d items from %s\n", len(snap.Items), snap.Source)
			return err
		},
	}
}
