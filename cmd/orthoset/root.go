package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "orthoset",
		Short:   "Find nearly orthogonal sub-selections of a matrix",
		Version: version,
		Long: `orthoset exhaustively scores every row/column sub-selection of a given
shape by how far the Gram matrix of its normalized columns deviates from the
identity, and reports the best ones.`,
		SilenceUsage: true,
	}
	root.AddCommand(newSearchCmd())
	return root
}
