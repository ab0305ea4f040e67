package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newNetworksCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List supported networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := newDependencies(g.cfg)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTIFIER\tNAME\tCHAIN\tCHAIN ID\tTESTNET\tRPC URL")
			for _, n := range deps.registry.Networks() {
				chainID := "-"
				if n.IsEVM() {
					chainID = fmt.Sprint(n.ChainID())
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
					n.Identifier(), n.Name(), n.ChainType().Name(), chainID, n.IsTestnet(), deps.registry.RPCURL(n))
			}
			return w.Flush()
		},
	}
}
