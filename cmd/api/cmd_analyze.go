package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/satyacheck/internal/application"
	"github.com/bryanwahyu/satyacheck/internal/cache"
	domain "github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

var analyzeFlags struct {
	lang       string
	kind       string
	noCache    bool
	cacheStats bool
	cacheClear bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text|-]",
	Short: "Analyze one piece of text",
	Long: `Analyze text given as the argument, or read from stdin with "-".

Types:
  fact            basic fact-check verdict and explanation
  comprehensive   fact-check plus category, topics, entities and sentiment
  misinformation  fact-check plus misinformation patterns and techniques

Fact-check verdicts are kept in a local on-disk cache (cache.localDir) so
repeated checks of the same text answer offline. Use --cache-stats and
--cache-clear to inspect or reset it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.lang, "lang", "en", "content language")
	f.StringVarP(&analyzeFlags.kind, "type", "t", "fact", "analysis type: fact, comprehensive or misinformation")
	f.BoolVar(&analyzeFlags.noCache, "no-cache", false, "bypass the local result cache")
	f.BoolVar(&analyzeFlags.cacheStats, "cache-stats", false, "print local cache statistics and exit")
	f.BoolVar(&analyzeFlags.cacheClear, "cache-clear", false, "delete every local cache entry and exit")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	local, err := cache.NewFile(cfg.Cache.LocalDir, cfg.Cache.LocalMaxBytes, cfg.Cache.LocalTTL, application.SystemClock{}, log)
	if err != nil {
		return fmt.Errorf("local cache: %w", err)
	}

	out := cmd.OutOrStdout()
	switch {
	case analyzeFlags.cacheStats:
		return printJSON(out, local.Stats())
	case analyzeFlags.cacheClear:
		local.Clear()
		fmt.Fprintln(out, "local cache cleared")
		return nil
	}

	content, err := readContent(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	kind := strings.ToLower(analyzeFlags.kind)
	if kind == "fact" && !analyzeFlags.noCache {
		if res, ok := local.Lookup(cmd.Context(), content, "FACT_CHECK"); ok {
			return printJSON(out, res)
		}
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), a)

	ctx := cmd.Context()
	switch kind {
	case "fact":
		res, err := a.Facts.AnalyzeText(ctx, domain.AnalysisRequest{Content: content, Language: analyzeFlags.lang})
		if err != nil {
			return err
		}
		local.Store(ctx, content, "FACT_CHECK", res)
		return printJSON(out, res)
	case "comprehensive":
		res, err := a.Orchestrator.AnalyzeComprehensively(ctx, content, analyzeFlags.lang)
		if err != nil {
			return err
		}
		return printJSON(out, res)
	case "misinformation":
		res, err := a.Orchestrator.AnalyzeMisinformationPatterns(ctx, content, analyzeFlags.lang)
		if err != nil {
			return err
		}
		return printJSON(out, res)
	default:
		return fmt.Errorf("unknown analysis type %q", analyzeFlags.kind)
	}
}

func readContent(stdin io.Reader, args []string) (string, error) {
	var content string
	switch {
	case len(args) == 0 || args[0] == "-":
		b, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
		if err != nil {
			return "", err
		}
		content = string(b)
	default:
		content = args[0]
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errors.New("no content to analyze")
	}
	return content, nil
}

var analyzeURLCmd = &cobra.Command{
	Use:   "analyze-url <url>",
	Short: "Fetch a page and analyze its main content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp(cmd.Context(), a)

		res, err := a.Orchestrator.AnalyzeURL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := printJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if res.Error != "" {
			fmt.Fprintln(os.Stderr, "warning:", res.Error)
		}
		return nil
	},
}
