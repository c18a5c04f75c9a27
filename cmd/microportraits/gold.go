package main

import (
	"fmt"
	"os"

	"github.com/cltl/micro-portraits/pkg/format/cat"
	"github.com/cltl/micro-portraits/pkg/logger"

	"github.com/spf13/cobra"
)

func goldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gold IN.xml OUT.csv",
		Short: "Convert CAT annotations into gold microportrait rows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			rows, err := cat.Read(in)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := cat.WriteCSV(out, rows); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			logger.Info("[CLI] Wrote gold rows", "rows", len(rows), "out", args[1])
			return nil
		},
	}
}
