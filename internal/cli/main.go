// Package cli defines the command surface: bare invocation opens the
// interactive menu, subcommands expose each operation for scripting.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "tweetdub",
		Short:        "Interactive harness for the tweet video dubbing backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive()
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.AddCommand(
		newEnvCmd(),
		newDownloadCmd(),
		newExtractCmd(),
		newDubCmd(),
		newFlowCmd(),
		newLogsCmd(),
		newStatusCmd(),
		newConfigCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
