// Command legacyimport pulls content out of the old kindergarten site's
// JSON export and upserts it through the same repositories the server
// uses. Safe to re-run: skip mode leaves already-imported items alone.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/each4all/shinchon-saessaks-sub000/internal/config"
	"github.com/each4all/shinchon-saessaks-sub000/internal/content"
	"github.com/each4all/shinchon-saessaks-sub000/internal/db"
	"github.com/each4all/shinchon-saessaks-sub000/internal/importer"
	"github.com/each4all/shinchon-saessaks-sub000/pkg/logger"
	"github.com/each4all/shinchon-saessaks-sub000/pkg/metrics"
)

func main() {
	var (
		sourceURL   string
		family      string
		mode        string
		maxAttempts int
		baseDelay   time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "legacyimport",
		Short: "Import content from the legacy site export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), sourceURL, family, mode, maxAttempts, baseDelay)
		},
	}

	rootCmd.Flags().StringVar(&sourceURL, "source-url", "", "URL of the legacy export index (required)")
	rootCmd.Flags().StringVar(&family, "family", "post", "content family to import: post, parent-ed or bulletin")
	rootCmd.Flags().StringVar(&mode, "mode", "skip", `"skip" leaves existing items, "refresh" overwrites them`)
	rootCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "fetch retry ceiling (default from config)")
	rootCmd.Flags().DurationVar(&baseDelay, "base-delay", 0, "base retry delay (default from config)")
	rootCmd.MarkFlagRequired("source-url")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runImport(ctx context.Context, sourceURL, family, mode string, maxAttempts int, baseDelay time.Duration) error {
	cfg := config.InitializeDefaultConfig()

	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	database, err := db.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	if maxAttempts == 0 {
		maxAttempts = cfg.Importer.MaxAttempts
	}
	if baseDelay == 0 {
		baseDelay = cfg.Importer.BaseDelay
	}

	fetcher := importer.NewFetcher(maxAttempts, baseDelay, zapLogger)
	repos := content.NewRepositories(database, zapLogger, metrics.NewMetricsCollector())
	importMode := content.ImportMode(mode)

	var (
		sum     content.ImportSummary
		dropped int
	)
	switch family {
	case "post":
		records, failed, err := importer.LoadClassPosts(ctx, fetcher, sourceURL, zapLogger)
		if err != nil {
			return err
		}
		dropped = failed
		sum, err = repos.ClassPosts.ImportBatch(ctx, records, importMode)
		if err != nil {
			return err
		}
	case "parent-ed":
		records, failed, err := importer.LoadParentEdPosts(ctx, fetcher, sourceURL, zapLogger)
		if err != nil {
			return err
		}
		dropped = failed
		sum, err = repos.ParentEdPosts.ImportBatch(ctx, records, importMode)
		if err != nil {
			return err
		}
	case "bulletin":
		records, failed, err := importer.LoadBulletins(ctx, fetcher, sourceURL, zapLogger)
		if err != nil {
			return err
		}
		dropped = failed
		sum, err = repos.Bulletins.ImportBatch(ctx, records, importMode)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown family %q (want post, parent-ed or bulletin)", family)
	}

	printSummary(family, mode, sum, dropped)
	return nil
}

func printSummary(family, mode string, sum content.ImportSummary, dropped int) {
	bold := color.New(color.Bold)
	bold.Printf("Import finished: family=%s mode=%s\n", family, mode)
	color.Green("  inserted: %d", sum.Inserted)
	color.Cyan("  updated:  %d", sum.Updated)
	color.Yellow("  skipped:  %d", sum.Skipped)
	if sum.Failed > 0 || dropped > 0 {
		color.Red("  failed:   %d (plus %d entries dropped at fetch)", sum.Failed, dropped)
	} else {
		color.Green("  failed:   0")
	}
}
