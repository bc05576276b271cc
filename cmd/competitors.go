package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopsight/insights/internal/pipeline"
)

// newCompetitorsCmd creates the competitors command, which discovers
// competitor storefronts for a brand and profiles each one.
func newCompetitorsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "competitors <website-url>",
		Short: "Discovers and profiles competitors of a Shopify storefront.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if limit < 1 || limit > 10 {
				return fmt.Errorf("limit must be between 1 and 10, got %d", limit)
			}

			report, err := appInstance.Runner.Competitors(cmd.Context(), args[0], limit)
			if err != nil {
				if errors.Is(err, pipeline.ErrNotShopify) {
					return fmt.Errorf("%s does not look like a Shopify storefront", args[0])
				}
				return fmt.Errorf("discover competitors for %s: %w", args[0], err)
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("encode competitor report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 3, "maximum number of competitors to profile (1-10)")
	return cmd
}
