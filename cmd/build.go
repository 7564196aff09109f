// cmd/build.go
package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site",
	Long: `The build command fetches the portfolio projects from the content API
(or the configured data file), converts the Markdown pages in './content/',
applies the layouts, copies static assets from './static/', and writes the
site to the configured output directory (default './public/').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := newSource(appConfig)
		if err != nil {
			return err
		}

		builder, err := newBuilder(appConfig, source, prometheus.NewRegistry())
		if err != nil {
			return err
		}

		_, err = builder.Build(cmd.Context())

		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
