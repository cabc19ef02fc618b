package cmd

import (
	"context"

	"github.com/dreamerjackson/taxonomy/cmd/scrape"
	"github.com/dreamerjackson/taxonomy/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer()
	},
}

func Execute(ctx context.Context) error {
	var rootCmd = &cobra.Command{
		Use:          "taxonomy",
		Short:        "scrape the arXiv category taxonomy into json.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         scrape.ScrapeCmd.RunE,
	}
	scrape.AddFlags(rootCmd)
	rootCmd.AddCommand(scrape.ScrapeCmd, versionCmd)

	return rootCmd.ExecuteContext(ctx)
}
