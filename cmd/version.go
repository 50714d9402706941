package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "kompas v%s\n", Version)
		fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
		fmt.Fprintf(out, "  Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
