package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "extrepo",
		Short: "Maintain a static Android extension repository",
		Long: `Extrepo maintains the published index of an extension repository:
the apk/ and icon/ artifact directories, index.json, index.min.json,
repo.json and a browsable index.html.

It is meant to run from CI after the extensions of a run have been built
into a local fragment directory.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewMergeCmd())

	return rootCmd
}
