// satyacheck serves the credibility analysis API and exposes the same
// pipeline on the command line.
//
// Usage:
//
//	satyacheck serve
//	satyacheck analyze "claim text" [--lang=hi] [--type=comprehensive]
//	satyacheck analyze-url https://example.com/story
//	satyacheck bulk -f items.json [--urls]
//	satyacheck models [--refresh]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "satyacheck",
	Short: "Content credibility analysis: fact-check, misinformation patterns, URLs and batches",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(analyzeURLCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.Version = version
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
