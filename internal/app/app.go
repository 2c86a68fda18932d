package app

import (
	"github.com/spf13/cobra"

	"github.com/audityzer-org/audityzer/internal/cli"
)

func BuildRoot() *cobra.Command {
	root := &cobra.Command{Use: "audityzer", Short: "Static analyzer for Solidity smart contracts"}
	cli.AddCommands(root)
	return root
}
