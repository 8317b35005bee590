package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what the subcommands share once flags are parsed
type app struct {
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	var verbose bool
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "hvacreport",
		Short:         "Render and check HVAC performance qualification reports offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(newRenderCmd(a), newCheckCmd())
	return root
}
