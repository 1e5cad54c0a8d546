package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tubby/internal/legacy"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert a legacy asin-keyed product list to the unified schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			logger := opts.logger(cfg)

			var r io.Reader = cmd.InOrStdin()
			if in != "-" {
				f, err := os.Open(in)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			// The output file is only created once the input converted cleanly.
			var buf bytes.Buffer
			n, err := legacy.Migrate(r, &buf)
			if err != nil {
				return fmt.Errorf("migrate %s: %w", in, err)
			}

			if out == "-" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
			} else {
				err = os.WriteFile(out, buf.Bytes(), 0o644)
			}
			if err != nil {
				return err
			}

			logger.Infow("legacy catalog migrated", "in", in, "out", out, "products", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "legacy JSON file, - for stdin")
	cmd.Flags().StringVar(&out, "out", "-", "unified JSON file, - for stdout")
	return cmd
}
