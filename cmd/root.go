package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rialms/scottspence.me/internal/config"
)

var cfgFile string
var appConfig config.Config
var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "scottspence.me",
	Short: "Portfolio site generator",
	Long: `Builds the portfolio site: project cards are fetched from the headless
CMS at build time and rendered, together with the markdown pages in
./content/, into a static HTML site.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	v.SetDefault("outputDir", "public")
	v.SetDefault("baseURL", "")
	v.SetDefault("contentDir", "content")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")
	v.SetDefault("siteFile", "site.yaml")
	v.SetDefault("logLevel", "info")

	v.SetDefault("cms.endpoint", "")
	v.SetDefault("cms.token", "")
	v.SetDefault("cms.dataFile", "")
	v.SetDefault("cms.order", "desc")
	v.SetDefault("cms.timeout", 10*time.Second)
	v.SetDefault("cms.retries", 3)
	v.SetDefault("cms.cacheTTL", 5*time.Minute)

	v.SetDefault("portfolio.heading", "Portfolio")
	v.SetDefault("portfolio.intro", "List of projects here:")
	v.SetDefault("portfolio.missingProject", "fail")
	v.SetDefault("portfolio.topLanguages", 5)
	v.SetDefault("portfolio.timeZone", "UTC")

	v.SetDefault("deploy.bucket", "")
	v.SetDefault("deploy.prefix", "")
	v.SetDefault("deploy.endpoint", "")
	v.SetDefault("deploy.accessKeyID", "")
	v.SetDefault("deploy.accessKeySecret", "")
	v.SetDefault("deploy.disableHTTPS", false)
	v.SetDefault("deploy.concurrency", 8)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PORTFOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlag("logLevel", cmd.Flags().Lookup("log-level")); err != nil {
		return fmt.Errorf("bind log level flag: %w", err)
	}

	configErr := v.ReadInConfig()
	if configErr != nil {
		if _, ok := configErr.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", configErr)
		}
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	logger = newLogger(appConfig.LogLevel)

	if configErr == nil {
		logger.Info("using config file", "path", v.ConfigFileUsed())
	} else {
		logger.Info("no config file found, using defaults and environment")
	}

	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level

	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}
