package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/satyacheck/internal/domain/bulk"
)

var bulkFlags struct {
	file string
	urls bool
}

var bulkCmd = &cobra.Command{
	Use:   "bulk -f <items.json>",
	Short: "Analyze a batch of content items or URLs",
	Long: `Reads a JSON array of items and analyzes them concurrently
(bulk.maxConcurrency at a time). One failing item never fails the batch.

Content items: [{"id": "a", "content": "...", "language": "en"}]
URL items:     [{"id": "a", "url": "https://..."}]   (with --urls)`,
	Args: cobra.NoArgs,
	RunE: runBulk,
}

func init() {
	f := bulkCmd.Flags()
	f.StringVarP(&bulkFlags.file, "file", "f", "", "path to the items JSON file")
	f.BoolVar(&bulkFlags.urls, "urls", false, "items are URLs")
	_ = bulkCmd.MarkFlagRequired("file")
}

func runBulk(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(bulkFlags.file)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), a)

	ctx := cmd.Context()
	if bulkFlags.urls {
		var items []bulk.URLItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("parse %s: %w", bulkFlags.file, err)
		}
		res, err := a.Bulk.AnalyzeURLs(ctx, items)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	}

	var items []bulk.ContentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("parse %s: %w", bulkFlags.file, err)
	}
	res, err := a.Bulk.AnalyzeContent(ctx, items)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
