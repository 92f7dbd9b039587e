package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/backstage/services/deliverynote/config"
	"example.com/backstage/services/deliverynote/internal/blobstore"
	"example.com/backstage/services/deliverynote/internal/database"
	"example.com/backstage/services/deliverynote/internal/pdf"
	"example.com/backstage/services/deliverynote/internal/repository"
	"example.com/backstage/services/deliverynote/internal/service"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long: `Start the background worker that sweeps for signed delivery notes
whose PDF upload never completed and retries the render and upload.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Create an error group to manage goroutines
	g, ctx := errgroup.WithContext(ctx)

	log.Info("Connecting to database...")
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewRepository(db)

	svc, err := service.NewService(service.ServiceConfig{
		Repo:      repo,
		Blobstore: blobstore.NewClient(cfg.Blobstore),
		Renderer:  pdf.NewRenderer(),
		Log:       log,
	})
	if err != nil {
		return err
	}

	interval := time.Duration(cfg.Worker.PDFSweepIntervalMinutes) * time.Minute
	batchSize := cfg.Worker.PDFSweepBatchSize

	// Start the PDF recovery cron job
	g.Go(func() error {
		log.WithField("interval", interval).Info("Starting PDF recovery sweep")

		// Create a scheduler
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() {
				if _, err := svc.RecoverPendingPDFs(ctx, batchSize); err != nil {
					log.WithError(err).Error("PDF recovery sweep failed")
				}
			}),
		)
		if err != nil {
			return err
		}

		// Start the scheduler
		scheduler.Start()

		// Wait for context cancellation
		<-ctx.Done()

		// Shutdown the scheduler
		return scheduler.Shutdown()
	})

	// Wait for any goroutine to exit
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Worker error")
		return err
	}

	log.Info("Worker shutting down gracefully")
	return nil
}
