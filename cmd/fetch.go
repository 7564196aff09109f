// cmd/fetch.go
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var fetchOut string

// fetchCmd dumps the resolved content query, handy when writing layouts
// or a data file for offline builds.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Prints the portfolio data as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := newSource(appConfig)
		if err != nil {
			return err
		}

		data, err := source.Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch portfolio content: %w", err)
		}

		var out io.Writer = cmd.OutOrStdout()

		if fetchOut != "" {
			f, err := os.Create(fetchOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", fetchOut, err)
			}

			defer f.Close()

			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("write portfolio data: %w", err)
		}

		logger.Info("fetched portfolio data",
			"assets", len(data.GraphCMSData.Assets))

		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(fetchCmd)
}
