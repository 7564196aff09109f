// cmd/deploy.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rialms/scottspence.me/internal/deploy"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Uploads the built site to an S3 bucket",
	Long: `The deploy command uploads the contents of the output directory to the
configured bucket. Run build first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.Deploy

		if !isDir(appConfig.OutputDir) {
			return fmt.Errorf("output directory '%s' not found, run build first", appConfig.OutputDir)
		}

		client, err := deploy.S3Client(cmd.Context(), deploy.S3Options{
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.AccessKeySecret,
			DisableHTTPS:    cfg.DisableHTTPS,
		})
		if err != nil {
			return err
		}

		uploader, err := deploy.NewUploader(client, deploy.UploaderOptions{
			Logger:      logger,
			Bucket:      cfg.Bucket,
			Prefix:      cfg.Prefix,
			Concurrency: cfg.Concurrency,
		})
		if err != nil {
			return err
		}

		keys, err := uploader.Upload(cmd.Context(), appConfig.OutputDir)
		if err != nil {
			return err
		}

		logger.Info("deployed site",
			"bucket", cfg.Bucket,
			"prefix", cfg.Prefix,
			"objects", len(keys))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
