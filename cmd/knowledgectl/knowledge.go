package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/supportqa/internal/domain/adjacency"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
	"github.com/kailas-cloud/supportqa/internal/ingest/builder"
	"github.com/kailas-cloud/supportqa/internal/ingest/csvload"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var root, out string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the knowledge CSV from per-category source files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := builder.New(root, opts.logger()).BuildFile(out)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "data/knowledge", "directory with per-category folders")
	cmd.Flags().StringVar(&out, "out", "data/knowledge.csv", "output CSV path")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <csv>",
		Short: "Parse a knowledge CSV and print record counts per context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := csvload.ParseFile(args[0])
			if err != nil {
				return err
			}

			counts := make(map[searchctx.Context]int, len(searchctx.All))
			for _, r := range records {
				counts[searchctx.Classify(r.Tags())]++
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %d records\n", args[0], len(records))
			for _, c := range searchctx.All {
				fmt.Fprintf(w, "  %-18s %d\n", c, counts[c])
			}
			return nil
		},
	}
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <tag>...",
		Short: "Print the support context for a tag list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), searchctx.Classify(args))
			return nil
		},
	}
}

func newRelatedCmd() *cobra.Command {
	var (
		contextName     string
		adjacencyPath   string
		defaultFallback bool
	)

	cmd := &cobra.Command{
		Use:   "related <tag> <tag>",
		Short: "Report whether two tags are related within a context",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sctx, err := searchctx.Parse(contextName)
			if err != nil {
				return err
			}

			var adjOpts []adjacency.Option
			if defaultFallback {
				adjOpts = append(adjOpts, adjacency.WithDefaultFallback())
			}
			table := adjacency.Default(adjOpts...)
			if adjacencyPath != "" {
				if table, err = adjacency.LoadFile(adjacencyPath, adjOpts...); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), table.AreRelated(args[0], args[1], sctx))
			return nil
		},
	}
	cmd.Flags().StringVar(&contextName, "context", string(searchctx.Default),
		"support context ("+contextNames()+")")
	cmd.Flags().StringVar(&adjacencyPath, "adjacency", "", "YAML adjacency override")
	cmd.Flags().BoolVar(&defaultFallback, "default-fallback", false,
		"use the default table for contexts without one")
	return cmd
}

func newTagsCmd() *cobra.Command {
	var contextName, adjacencyPath string

	cmd := &cobra.Command{
		Use:   "tags [tag]",
		Short: "List contexts with an adjacency table, or the tags related to one tag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := adjacency.Default()
			if adjacencyPath != "" {
				var err error
				if table, err = adjacency.LoadFile(adjacencyPath); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, c := range table.Contexts() {
					fmt.Fprintln(w, c)
				}
				return nil
			}

			sctx, err := searchctx.Parse(contextName)
			if err != nil {
				return err
			}
			for _, tag := range table.Related(sctx, args[0]) {
				fmt.Fprintln(w, tag)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&contextName, "context", string(searchctx.Default), "support context")
	cmd.Flags().StringVar(&adjacencyPath, "adjacency", "", "YAML adjacency override")
	return cmd
}

func contextNames() string {
	names := make([]string, len(searchctx.All))
	for i, c := range searchctx.All {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
