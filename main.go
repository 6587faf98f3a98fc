package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paper-ingest/config"
	"paper-ingest/models"
	"paper-ingest/providers/grobid"
	"paper-ingest/services"
)

var (
	papersProcessedCounter   prometheus.Counter
	grobidExtractedCounter   prometheus.Counter
	fallbackExtractedCounter prometheus.Counter
)

func init() {
	papersProcessedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "papers_processed_total",
		Help: "Total number of PDF documents processed.",
	})
	grobidExtractedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "papers_grobid_extracted_total",
		Help: "Documents whose metadata came from the GROBID service.",
	})
	fallbackExtractedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "papers_fallback_extracted_total",
		Help: "Documents whose metadata came from the heuristic text fallback.",
	})
	prometheus.MustRegister(papersProcessedCounter, grobidExtractedCounter, fallbackExtractedCounter)
}

var (
	flagRecursive   bool
	flagDryRun      bool
	flagNoGrobid    bool
	flagGrobidURL   string
	flagSchedule    string
	flagMetricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "paper-ingest <directory>",
	Short: "Ingest academic paper metadata into Postgres",
	Long: `paper-ingest extracts bibliographic metadata (title, authors,
affiliations, abstract, publication date, keywords, document type) from
academic PDF papers and upserts one record per file path into Postgres.

Metadata comes from a GROBID service when one is reachable; otherwise a
heuristic parser over the raw text of the first pages is used.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&flagRecursive, "recursive", false, "Scan subdirectories.")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Parse files without writing to the database.")
	rootCmd.Flags().BoolVar(&flagNoGrobid, "no-grobid", false, "Skip GROBID metadata extraction.")
	rootCmd.Flags().StringVar(&flagGrobidURL, "grobid-url", "", "Base URL for GROBID (overrides GROBID_URL).")
	rootCmd.Flags().StringVar(&flagSchedule, "schedule", "", "Cron expression; keep running and re-ingest on this schedule.")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (schedule mode only).")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}
	if flagGrobidURL != "" {
		cfg.GrobidURL = flagGrobidURL
	}

	directory, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("directory not found: %s", directory)
	}

	// Dry-Run kommt ohne Datenbank aus.
	var db *gorm.DB
	if !flagDryRun {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.AutoMigrate(&models.Paper{}); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		logging.Info("Successfully connected to papers database.")
	}

	service := services.NewIngestService(cfg, db, grobid.NewClient(cfg.GrobidURL, logging), logging)
	opts := services.Options{
		Recursive:     flagRecursive,
		DryRun:        flagDryRun,
		DisableGrobid: flagNoGrobid,
	}

	runOnce := func(ctx context.Context) error {
		summary, err := service.Run(ctx, directory, opts)
		if err != nil {
			return err
		}
		papersProcessedCounter.Add(float64(summary.Processed))
		grobidExtractedCounter.Add(float64(summary.Structured))
		fallbackExtractedCounter.Add(float64(summary.Fallback))
		fmt.Printf("Processed %d papers.\n", summary.Processed)
		return nil
	}

	if err := runOnce(context.Background()); err != nil {
		return err
	}

	if flagSchedule == "" {
		return nil
	}

	if flagMetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			logging.Info("Serving metrics", zap.String("addr", flagMetricsAddr))
			if err := http.ListenAndServe(flagMetricsAddr, nil); err != nil {
				logging.Error("Metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	cronScheduler := cron.New()
	if _, err := cronScheduler.AddFunc(flagSchedule, func() {
		logging.Info("Running scheduled ingest job...")
		if err := runOnce(context.Background()); err != nil {
			logging.Error("Scheduled ingest failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", flagSchedule, err)
	}
	cronScheduler.Start()
	logging.Info("Scheduler started", zap.String("schedule", flagSchedule))

	select {}
}
