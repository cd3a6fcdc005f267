package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of indexed records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openOneShotApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.agent.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("count failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}
