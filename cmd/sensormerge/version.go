package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/sensor-data/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.stdout, "sensormerge "+version.String())
			return nil
		},
	}
}
