package main

import (
	"fmt"
	"runtime"

	"kronosphere/internal/app"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kronosphere %s (%s %s/%s)\n",
				app.AppVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
