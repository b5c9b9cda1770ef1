// Command trnxctl is the reference front-end over the control facade:
// one subcommand per control verb, each replaying a graph definition
// file (--graph) through the facade up to the verb it names, plus
// list-regions and inspect-region (region diagnostics) and template (a
// plugin scaffold that never touches a graph at all).
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	log := logrus.StandardLogger()

	root := &cobra.Command{
		Use:           "trnxctl",
		Short:         "control surface for a trnx data-flow graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newStartCmd(),
		newLoadCmd(),
		newConnectCmd(),
		newBuildCmd(),
		newRunCmd(log),
		newShutdownCmd(),
		newListRegionsCmd(),
		newTemplateCmd(),
		newInspectRegionCmd(),
	)
	return root
}
