package grpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rzbill/soid/internal/runtime"
	logpkg "github.com/rzbill/soid/pkg/log"
)

// LedgerService is the health service name that tracks the ledger backend.
const LedgerService = "soid.Ledger"

// healthProbe mirrors runtime health into the standard gRPC health service.
type healthProbe struct {
	rt     *runtime.Runtime
	srv    *health.Server
	logger logpkg.Logger
	last   healthpb.HealthCheckResponse_ServingStatus
}

func newHealthProbe(rt *runtime.Runtime, logger logpkg.Logger) *healthProbe {
	return &healthProbe{rt: rt, srv: health.NewServer(), logger: logger}
}

// refresh checks the runtime once and publishes the result for both the
// overall server ("") and LedgerService.
func (p *healthProbe) refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := p.rt.CheckHealth(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		if p.last != status {
			p.logger.Warn("ledger unhealthy", logpkg.Err(err))
		}
	}
	p.last = status
	p.srv.SetServingStatus("", status)
	p.srv.SetServingStatus(LedgerService, status)
	return status
}

// run refreshes every interval until ctx is done, then marks everything
// NOT_SERVING.
func (p *healthProbe) run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			p.srv.Shutdown()
			return
		case <-t.C:
			cctx, cancel := context.WithTimeout(ctx, interval)
			p.refresh(cctx)
			cancel()
		}
	}
}
