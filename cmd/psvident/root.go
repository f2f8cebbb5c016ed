package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for psvident.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "psvident",
		Short: "Identify a PS Vita from a PSVident dump",
		Long: `psvident examines the files dumped from a PS Vita memory card and reports
the console identity: model, region, firmware, manufacturing mode (retail,
test/dev kit, tool), identifiers and PSN account data.

A dump directory holds id.dat, the system.dreg registry blob and a
probes.yaml capture of the kernel probes. Missing files are reported as
diagnostics; the remaining fields are still classified.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewTokenCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
