package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/syla/execution-service/internal/httpapi"
	"github.com/syla/execution-service/internal/log"
	"github.com/syla/execution-service/internal/rpcapi"
	"github.com/syla/execution-service/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC front doors together with the worker pool",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d, err := newDeps(ctx, true)
	if err != nil {
		return err
	}
	defer d.close()

	logger := log.WithComponent("serve")

	var mirror worker.Mirror
	if d.mirror != nil {
		mirror = d.mirror
	}
	pool := worker.NewPool(d.cfg.WorkerPool, d.store, d.queue, d.sandbox, mirror)
	httpHandler := httpapi.NewHandler(d.submission, d.lookup)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", d.cfg.HTTPPort),
		Handler: httpapi.NewRouter(httpHandler),
	}

	grpcServer := grpc.NewServer()
	rpcapi.RegisterExecutionServiceServer(grpcServer, rpcapi.NewExecutionServiceImpl(d.submission, d.lookup))
	grpcLis, err := net.Listen("tcp", fmt.Sprintf(":%d", d.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	errCh := make(chan error, 3)

	go pool.Run(ctx)

	go func() {
		logger.Info().Int("port", d.cfg.HTTPPort).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		logger.Info().Int("port", d.cfg.GRPCPort).Msg("grpc server listening")
		if err := grpcServer.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutdown requested")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server failed")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()

	logger.Info().Msg("shutdown complete")
	return nil
}
