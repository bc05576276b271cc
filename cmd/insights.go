package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopsight/insights/internal/pipeline"
)

// newInsightsCmd creates the insights command, which profiles a single
// storefront and prints the result as JSON.
func newInsightsCmd() *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:   "run <website-url>",
		Short: "Profiles one Shopify storefront and prints the brand context.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			brand, err := appInstance.Runner.Run(ctx, args[0])
			if err != nil {
				if errors.Is(err, pipeline.ErrNotShopify) {
					return fmt.Errorf("%s does not look like a Shopify storefront", args[0])
				}
				return fmt.Errorf("profile %s: %w", args[0], err)
			}

			if persist {
				if err := appInstance.Store.UpsertBrand(ctx, brand); err != nil {
					return fmt.Errorf("persist brand context: %w", err)
				}
			}

			out, err := json.MarshalIndent(brand, "", "  ")
			if err != nil {
				return fmt.Errorf("encode brand context: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "persist the brand context to the database")
	return cmd
}
