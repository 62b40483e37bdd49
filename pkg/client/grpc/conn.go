// Package grpc builds client connections to the inventory gRPC API.
package grpc

import (
	"fmt"

	"github.com/abgdnv/inventory/pkg/client/grpc/interceptors"
	"github.com/abgdnv/inventory/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NewConn creates a traced client connection to cfg.Addr. Each call is bounded by cfg.Timeout,
// transient failures are retried and a circuit breaker stops calling an unhealthy server.
// Extra dial options are appended, e.g. a custom dialer in tests.
func NewConn(cfg config.GrpcClientConfig, res config.ResilienceConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			interceptors.UnaryClientTimeoutInterceptor(cfg.Timeout),
			interceptors.NewRetryInterceptor(res.Retry),
			interceptors.NewCircuitBreaker("inventory-grpc", res.CircuitBreaker),
		),
	}
	conn, err := grpc.NewClient(cfg.Addr, append(dialOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", cfg.Addr, err)
	}
	return conn, nil
}
