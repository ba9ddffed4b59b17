package main

import (
	"github.com/spf13/cobra"
)

var modelsRefresh bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the model the pipeline would use",
	Long: `Resolves the generation model through discovery (or the configured
fallback) and prints it. --refresh drops the cached choice first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp(cmd.Context(), a)

		key := a.Config.AI.APIKey
		var model string
		if modelsRefresh {
			model = a.Resolver.Refresh(cmd.Context(), key)
		} else {
			model = a.Resolver.Resolve(cmd.Context(), key)
		}
		_, cached := a.Resolver.CachedModel()
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"model":           model,
			"autoDiscovery":   a.Config.Models.AutoDiscovery,
			"cachedSelection": cached,
		})
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsRefresh, "refresh", false, "invalidate the cached model and rediscover")
}
