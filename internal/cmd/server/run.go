package serverrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cfgpkg "github.com/rzbill/soid/internal/config"
	"github.com/rzbill/soid/internal/runtime"
	grpcserver "github.com/rzbill/soid/internal/server/grpc"
	httpserver "github.com/rzbill/soid/internal/server/http"
	logpkg "github.com/rzbill/soid/pkg/log"
)

type Options struct {
	Config cfgpkg.Config
	// Logger overrides the logger built from Config.Log.
	Logger logpkg.Logger
}

// Run opens the runtime and serves gRPC and HTTP until ctx is cancelled or
// SIGINT/SIGTERM arrives.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = logpkg.ApplyConfig(&cfg.Log); err != nil {
			return err
		}
	}
	// Pebble writes through the stdlib logger.
	logpkg.RedirectStdLog(logger)

	if cfg.Ledger.DataDir == "" {
		cfg.Ledger.DataDir = cfgpkg.DefaultDataDir()
	}
	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Verify(sctx); err != nil {
		logger.Warn("ledger verification failed", logpkg.Err(err))
	}

	logger.Info("Starting soid server",
		logpkg.Str("grpc", cfg.Server.GRPCAddr),
		logpkg.Str("http", cfg.Server.HTTPAddr),
		logpkg.Str("backend", cfg.Ledger.Backend),
		logpkg.Str("data_dir", cfg.Ledger.DataDir),
		logpkg.Str("level", cfg.Log.Level),
	)

	gsrv := grpcserver.New(rt, logger)
	hsrv := httpserver.New(rt, logger)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := gsrv.ListenAndServe(sctx, cfg.Server.GRPCAddr); err != nil && sctx.Err() == nil {
			logger.Error("grpc server stopped", logpkg.Err(err))
			errs <- err
			stop()
		}
	}()
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, cfg.Server.HTTPAddr); err != nil && sctx.Err() == nil {
			logger.Error("http server stopped", logpkg.Err(err))
			errs <- err
			stop()
		}
	}()

	<-sctx.Done()
	// Stop servers before the deferred runtime close.
	gsrv.Close()
	hsrv.Close()
	wg.Wait()
	close(errs)
	if err := rt.Compact(context.Background()); err != nil {
		logger.Warn("ledger compaction failed", logpkg.Err(err))
	}
	logger.Info("soid server stopped")
	return <-errs
}
