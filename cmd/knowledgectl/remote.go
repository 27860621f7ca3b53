package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const requestTimeout = 2 * time.Minute

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query>",
		Short: "Ask the running server a support question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			resp, err := opts.client().Chat(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, resp.Answer)
			fmt.Fprintf(w, "\ncontext: %s\n", resp.Context)
			if len(resp.Sources) > 0 {
				fmt.Fprintln(w, "sources:")
				for _, s := range resp.Sources {
					fmt.Fprintf(w, "  [%s] %s\n", s.Metadata.ID, s.Metadata.Question)
				}
			}
			if len(resp.RelatedQuestions) > 0 {
				fmt.Fprintln(w, "related:")
				for _, q := range resp.RelatedQuestions {
					fmt.Fprintf(w, "  - %s\n", q)
				}
			}
			return nil
		},
	}
}

func newUploadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <csv>",
		Short: "Replace the server's knowledge base with a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			res, err := opts.client().UploadKnowledge(ctx, args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d records, upload %s)\n", res.Message, res.RecordCount, res.UploadID)
			return nil
		},
	}
}
