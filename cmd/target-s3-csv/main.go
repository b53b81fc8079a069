// Command target-s3-csv is a Singer target that writes tap output to
// per-stream CSV files and uploads them to S3.
//
// Usage:
//
//	tap-something | target-s3-csv -c config.json
//
// The last STATE message is printed to stdout after all files are
// uploaded, so runners can checkpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/singer-contrib/target-s3-csv/config"
	"github.com/singer-contrib/target-s3-csv/internal/logging"
	"github.com/singer-contrib/target-s3-csv/s3"
	"github.com/singer-contrib/target-s3-csv/target"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "", "path to the JSON config file")
	flag.StringVar(&configPath, "config", "", "path to the JSON config file")
	flag.Parse()

	logger, err := logging.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is not actionable

	if err := run(configPath, logger); err != nil {
		logger.Error("target failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Debug("exiting normally")
}

func run(configPath string, logger *zap.Logger) error {
	if configPath == "" {
		return fmt.Errorf("config file is required (-c config.json)")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := s3.New(ctx, clientOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	if err := client.VerifyBucket(ctx, cfg.S3Bucket); err != nil {
		return err
	}

	state, err := target.New(cfg, client, logger).Run(ctx, os.Stdin)
	if err != nil {
		return err
	}

	if state != nil {
		// stdout is reserved for the final STATE line.
		fmt.Println(string(state))
	}
	return nil
}

// clientOptions maps the config file onto s3 client options.
func clientOptions(cfg *config.Config, logger *zap.Logger) []s3.Option {
	opts := []s3.Option{
		s3.WithLogger(logger.Named("s3")),
		s3.WithGzip(cfg.Gzip()),
	}
	if cfg.Region != "" {
		opts = append(opts, s3.WithRegion(cfg.Region))
	}
	if cfg.S3EndpointURL != "" {
		opts = append(opts, s3.WithEndpoint(cfg.S3EndpointURL))
	}
	if cfg.ForcePathStyle {
		opts = append(opts, s3.WithForcePathStyle(true))
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, s3.WithStaticCredentials(
			cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSSessionToken))
	}
	if cfg.AWSProfile != "" {
		opts = append(opts, s3.WithProfile(cfg.AWSProfile))
	}
	if cfg.KMS() {
		opts = append(opts, s3.WithSSEKMS(cfg.EncryptionKey))
	}
	return opts
}
