// cmd/serve.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rialms/scottspence.me/internal/cms"
	"github.com/rialms/scottspence.me/internal/server"
	"github.com/rialms/scottspence.me/internal/site"
)

var serverPort int
var refetch bool

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of your site, then starts a local
web server to serve your output directory. It also watches your content, layouts,
and static directories for changes and automatically rebuilds the site. Portfolio
data is cached between rebuilds for cms.cacheTTL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, err := newSource(appConfig)
		if err != nil {
			return err
		}

		cached := cms.NewCachedSource(source, appConfig.CMS.CacheTTL)
		registry := prometheus.NewRegistry()

		builder, err := newBuilder(appConfig, cached, registry)
		if err != nil {
			return err
		}

		logger.Info("performing initial build")

		if _, err := builder.Build(ctx); err != nil {
			return fmt.Errorf("initial build failed, fix issues and try again: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer watcher.Close()

		go watchAndRebuild(ctx, watcher, builder, cached, refetch)

		for _, rootPath := range []string{
			appConfig.ContentDir,
			appConfig.LayoutsDir,
			appConfig.StaticDir,
		} {
			addWatches(watcher, rootPath)
		}

		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", serverPort),
			Handler: server.NewRouter(server.Options{
				Logger:    logger,
				OutputDir: appConfig.OutputDir,
				Cards:     builder,
				Gatherer:  registry,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = srv.Shutdown(shutdownCtx)
		}()

		logger.Info("serving site",
			"output_dir", appConfig.OutputDir,
			"url", fmt.Sprintf("http://localhost:%d", serverPort))

		err = srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}

		return nil
	},
}

// watchAndRebuild rebuilds the site after a quiet period following file
// changes. With invalidate set the cached portfolio data is dropped before
// each rebuild.
func watchAndRebuild(
	ctx context.Context, watcher *fsnotify.Watcher,
	builder *site.Builder, cached *cms.CachedSource, invalidate bool,
) {
	var buildTimer *time.Timer

	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			logger.Info("change detected", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.Error("error adding new directory to watcher",
						"path", event.Name, "err", err)
				}
			}

			if buildTimer != nil {
				buildTimer.Stop()
			}

			buildTimer = time.AfterFunc(debounceDuration, func() {
				if invalidate {
					cached.Invalidate()
				}

				if _, err := builder.Build(ctx); err != nil {
					logger.Error("error during rebuild", "err", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			logger.Error("watcher error", "err", err)
		}
	}
}

func addWatches(watcher *fsnotify.Watcher, rootPath string) {
	if !isDir(rootPath) {
		logger.Info("directory not found, not watching", "path", rootPath)

		return
	}

	err := filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn("error walking directory", "path", path, "err", err)

			return nil
		}

		if d.IsDir() {
			if watchErr := watcher.Add(path); watchErr != nil {
				logger.Warn("failed to watch directory", "path", path, "err", watchErr)
			}
		}

		return nil
	})
	if err != nil {
		logger.Warn("error during initial directory walk", "path", rootPath, "err", err)
	}
}

// Helper function to check if a path is a directory
func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	serveCmd.Flags().BoolVar(&refetch, "refetch", false, "Refetch portfolio data on every rebuild")
	rootCmd.AddCommand(serveCmd)
}
