package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audityzer-org/audityzer/internal/detector"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "rules", Short: "List available detectors"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List standard and optional detectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := detector.NewRegistry()
			reg.RegisterBuiltin()
			for _, d := range reg.Detectors() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", d.Name())
			}
			for _, d := range detector.Extras() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t(extra)\n", d.Name())
			}
			return nil
		},
	})
	return cmd
}
