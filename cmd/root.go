package cmd

import (
	"github.com/spf13/cobra"

	"github.com/user/missions-helper/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "missions-helper",
	Short: "Sectioned report engine for security assessment missions",
	Long: `Missions Helper manages sectioned assessment report documents:
templates with user overrides, per-mission drafts, evidence submission to
the platform, and AI-assisted rewrites with redaction review.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(DebugMode)
	},
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer logging.Sync()
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}
