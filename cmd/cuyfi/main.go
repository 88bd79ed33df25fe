// Command cuyfi runs an in-process CuyFI hub for inspection and demos.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "cuyfi",
		Short:         "CuyFI cross-chain yield vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a TOML configuration file")

	root.AddCommand(newConfigCmd())
	root.AddCommand(newDemoCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}
