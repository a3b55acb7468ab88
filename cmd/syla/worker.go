package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syla/execution-service/internal/log"
	"github.com/syla/execution-service/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the worker pool only, against a shared Redis queue",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d, err := newDeps(ctx, true)
	if err != nil {
		return err
	}
	defer d.close()

	logger := log.WithComponent("worker-cmd")

	var mirror worker.Mirror
	if d.mirror != nil {
		mirror = d.mirror
	}
	pool := worker.NewPool(d.cfg.WorkerPool, d.store, d.queue, d.sandbox, mirror)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	logger.Info().Int("workers", d.cfg.WorkerPool).Msg("worker pool started")

	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutdown requested")
	cancel()
	<-done

	logger.Info().Msg("shutdown complete")
	return nil
}
