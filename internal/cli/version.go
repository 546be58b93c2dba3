package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/djscaffold/djscaffold/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Runs without loading configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "djscaffold %s %s/%s %s\n",
				version.GetFullVersion(), runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}
